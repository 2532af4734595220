package main

import (
	"fmt"
	"pxengine/internal/components"
	"pxengine/internal/world"

	"github.com/spf13/cobra"
)

var (
	walkTicks int
	walkJump  bool
)

// walkScene is a floor with a wall two units ahead of a player facing +Z.
// The key sits off to the side, outside the interaction ray.
const walkScene = `
objects:
  - name: Floor
    position: [0, -0.5, 0]
    components:
      - type: BoxCollider
        size: [20, 1, 20]
  - name: Wall
    position: [0, 2, 2.5]
    components:
      - type: BoxCollider
        size: [10, 4, 1]
  - name: Key
    tags: [item]
    position: [0.8, 1.6, 1.2]
    components:
      - type: BoxCollider
        size: [0.3, 0.3, 0.3]
player:
  position: [0, 0, 0]
  yaw: 90
`

func runWalk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w := world.New(cfg)
	defer w.Unload()
	if err := w.LoadSceneData([]byte(walkScene)); err != nil {
		return err
	}

	cc := w.Controller()
	fmt.Println(title(fmt.Sprintf("Walk: %d ticks toward a wall", walkTicks)))
	fmt.Printf("%5s  %-28s %-8s %-8s %-8s %s\n", "tick", "feet", "ground", "ceiling", "wall", "focus")

	for t := 0; t < walkTicks; t++ {
		cc.SetInput(components.Input{Forward: 1, Jump: walkJump && t == 0})
		w.Scene.Tick()

		p := w.Player.Transform.Position
		focus := "-"
		if in := interactor(w); in != nil && in.Target() != nil {
			focus = in.Target().Name
		}
		fmt.Printf("%5d  %-28s %-8s %-8s %-8s %s\n", t, vec(p.X, p.Y, p.Z),
			flag(cc.IsGrounded()), flag(cc.IsCeiled()), flag(cc.NearWall()), focus)
	}
	return nil
}
