package main

import (
	"fmt"
	"pxengine/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	dropCount  int
	dropHeight float64
)

func runDrop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dropCount < 1 || dropCount+1 > cfg.MaxBodies {
		return fmt.Errorf("boxes must be between 1 and %d", cfg.MaxBodies-1)
	}

	w := physics.NewWorld(cfg)
	defer w.Destroy()

	w.CreateStatic(physics.Box, rl.Vector3{Y: -0.5}, rl.Vector3{}, rl.Vector3{X: 20, Y: 1, Z: 20})
	boxes := make([]*physics.Body, dropCount)
	for i := range boxes {
		pos := rl.Vector3{X: float32(i) * 0.2, Y: float32(dropHeight) + float32(i)*1.5}
		rot := rl.Vector3{Y: float32(i) * 15}
		boxes[i] = w.CreateRigid(physics.Box, pos, rot, rl.Vector3{X: 1, Y: 1, Z: 1}, 1)
	}

	heights := make([][]float64, dropCount)
	var total physics.StepStats
	for t := 0; t < ticks; t++ {
		w.Step()
		s := w.Stats()
		total.Pairs += s.Pairs
		total.Contacts += s.Contacts
		total.Constraints += s.Constraints
		total.SuppressedMessages += s.SuppressedMessages
		for i, b := range boxes {
			heights[i] = append(heights[i], float64(b.Position().Y))
		}
	}

	fmt.Println(title(fmt.Sprintf("Drop: %d boxes, %d ticks", dropCount, ticks)))
	fmt.Println(asciigraph.PlotMany(heights,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("box height (y) per tick"),
	))
	fmt.Println()

	pairs := []string{
		"pairs", fmt.Sprint(total.Pairs),
		"contacts", fmt.Sprint(total.Contacts),
		"constraints", fmt.Sprint(total.Constraints),
		"solver notices", fmt.Sprint(total.SuppressedMessages),
	}
	for i, b := range boxes {
		p := b.Position()
		pairs = append(pairs, fmt.Sprintf("box %d at rest", i), vec(p.X, p.Y, p.Z))
	}
	fmt.Println(metrics(pairs...))
	return nil
}
