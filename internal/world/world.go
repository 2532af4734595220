package world

import (
	"log"
	"pxengine/internal/components"
	"pxengine/internal/engine"
	"pxengine/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// World ties a scene to its physics world and the player.
type World struct {
	Scene   *engine.Scene
	Physics *physics.World
	Player  *engine.GameObject
}

func New(cfg physics.Config) *World {
	pw := physics.NewWorld(cfg)
	return &World{
		Scene:   engine.NewPhysicsScene("Main", pw),
		Physics: pw,
	}
}

// EnableGPU tries to move broad-phase onto the GPU where the platform
// allows it.
func (w *World) EnableGPU() {
	w.initializeCompute()
}

// SpawnPlayer adds a first-person character with its feet at position,
// looking along yaw degrees.
func (w *World) SpawnPlayer(position rl.Vector3, yaw float32) *engine.GameObject {
	if w.Player != nil {
		w.Scene.RemoveGameObject(w.Player)
	}
	g := engine.NewGameObject("Player")
	g.Tags = []string{"player"}
	g.Transform.Position = position

	fps := components.NewFPSController()
	fps.Yaw = yaw
	cc := components.NewCharacterController()
	fps.EyeHeight = cc.Height - 0.1
	g.AddComponent(fps)
	g.AddComponent(cc)
	g.AddComponent(components.NewInteractor())

	w.Scene.AddGameObject(g)
	g.Start()
	w.Player = g
	return g
}

// Controller returns the player's CharacterController, or nil.
func (w *World) Controller() *components.CharacterController {
	if w.Player == nil {
		return nil
	}
	return engine.GetComponent[*components.CharacterController](w.Player)
}

// Update advances the simulation by a frame of frameTime seconds and
// returns the number of fixed ticks it ran.
func (w *World) Update(frameTime float64) int {
	return w.Scene.Advance(frameTime)
}

// Unload removes every object and destroys the physics world.
func (w *World) Unload() {
	for len(w.Scene.GameObjects) > 0 {
		w.Scene.RemoveGameObject(w.Scene.GameObjects[0])
	}
	w.Player = nil
	w.Physics.Destroy()
	log.Printf("World: unloaded after %d ticks", w.Physics.Ticks())
}
