package components

import (
	"math"
	"pxengine/internal/engine"
	"pxengine/internal/physics"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func newScene(t *testing.T, cfg physics.Config) *engine.Scene {
	t.Helper()
	w := physics.NewWorld(cfg)
	t.Cleanup(w.Destroy)
	return engine.NewPhysicsScene("Test", w)
}

// spawn adds a started GameObject to the scene.
func spawn(s *engine.Scene, name string, pos rl.Vector3, comps ...engine.Component) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	for _, c := range comps {
		g.AddComponent(c)
	}
	s.AddGameObject(g)
	g.Start()
	return g
}

// addFloor adds a static slab whose top face is at y = 0.
func addFloor(s *engine.Scene) *engine.GameObject {
	return spawn(s, "Floor", rl.Vector3{Y: -0.5}, NewBoxCollider(rl.Vector3{X: 20, Y: 1, Z: 20}))
}

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}
