package main

import (
	"fmt"
	"pxengine/internal/components"
	"pxengine/internal/engine"
	"pxengine/internal/world"

	"github.com/spf13/cobra"
)

var (
	sceneTicks int
	sceneSave  string
)

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w := world.New(cfg)
	defer w.Unload()
	w.EnableGPU()

	if err := w.LoadScene(args[0]); err != nil {
		return err
	}
	for t := 0; t < sceneTicks; t++ {
		w.Scene.Tick()
	}

	fmt.Println(title(fmt.Sprintf("Scene %s after %d ticks", args[0], sceneTicks)))
	stats := w.Physics.Stats()
	pairs := []string{
		"objects", fmt.Sprint(len(w.Scene.GameObjects)),
		"bodies", fmt.Sprint(w.Physics.NumBodies()),
		"pairs (last tick)", fmt.Sprint(stats.Pairs),
		"contacts (last tick)", fmt.Sprint(stats.Contacts),
		"gpu broad-phase", flag(stats.GPU),
	}
	for _, g := range w.Scene.GameObjects {
		if engine.GetComponent[*components.Rigidbody](g) == nil {
			continue
		}
		p := g.Transform.Position
		pairs = append(pairs, g.Name, vec(p.X, p.Y, p.Z))
	}
	fmt.Println(metrics(pairs...))

	if sceneSave != "" {
		if err := w.SaveScene(sceneSave); err != nil {
			return err
		}
		fmt.Println(labelStyle.Render("saved " + sceneSave))
	}
	return nil
}

func interactor(w *world.World) *components.Interactor {
	if w.Player == nil {
		return nil
	}
	return engine.GetComponent[*components.Interactor](w.Player)
}
