// pxsim drives the physics core from the terminal.
package main

import (
	"fmt"
	"os"
	"pxengine/internal/physics"

	"github.com/spf13/cobra"
)

var (
	configFile string
	ticks      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pxsim",
		Short: "physics and character motion sandbox",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "physics config file (yaml)")

	stressCmd := &cobra.Command{
		Use:   "stress",
		Short: "compare CPU and GPU broad-phase pair finding",
		RunE:  runStress,
	}
	stressCmd.Flags().IntSliceVar(&stressCounts, "counts", []int{100, 500, 1000, 2000, 5000}, "object counts to test")
	stressCmd.Flags().Int64Var(&stressSeed, "seed", 42, "random seed")

	dropCmd := &cobra.Command{
		Use:   "drop",
		Short: "drop rigid boxes onto a floor and plot their height",
		RunE:  runDrop,
	}
	dropCmd.Flags().IntVar(&ticks, "ticks", 180, "ticks to simulate")
	dropCmd.Flags().IntVar(&dropCount, "boxes", 3, "number of boxes")
	dropCmd.Flags().Float64Var(&dropHeight, "height", 3, "drop height of the lowest box")

	walkCmd := &cobra.Command{
		Use:   "walk",
		Short: "walk the character into a wall and report its flags",
		RunE:  runWalk,
	}
	walkCmd.Flags().IntVar(&walkTicks, "ticks", 60, "ticks to simulate")
	walkCmd.Flags().BoolVar(&walkJump, "jump", false, "jump on the first tick")

	sceneCmd := &cobra.Command{
		Use:   "scene [file]",
		Short: "load a scene file, simulate it and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	sceneCmd.Flags().IntVar(&sceneTicks, "ticks", 120, "ticks to simulate")
	sceneCmd.Flags().StringVar(&sceneSave, "save", "", "write the simulated scene to this file")

	rootCmd.AddCommand(stressCmd, dropCmd, walkCmd, sceneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig returns the defaults, or the --config file laid over them.
func loadConfig() (physics.Config, error) {
	if configFile == "" {
		return physics.DefaultConfig(), nil
	}
	return physics.LoadConfig(configFile)
}
