package engine

import (
	"pxengine/internal/physics"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestSceneAddGameObject(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("Player")

	scene.AddGameObject(obj)

	if len(scene.GameObjects) != 1 {
		t.Errorf("Expected 1 GameObject, got %d", len(scene.GameObjects))
	}

	if scene.GameObjects[0] != obj {
		t.Error("GameObject not added to scene")
	}

	if obj.Scene != scene {
		t.Error("GameObject.Scene not set")
	}
}

func TestSceneUIDLookup(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("Player")

	scene.AddGameObject(obj)

	// Test O(1) lookup
	found := scene.FindByUID(obj.UID)
	if found != obj {
		t.Errorf("FindByUID failed: expected %v, got %v", obj, found)
	}

	// Test non-existent UID
	notFound := scene.FindByUID(99999)
	if notFound != nil {
		t.Error("FindByUID should return nil for non-existent UID")
	}
}

func TestSceneRemoveGameObject(t *testing.T) {
	scene := NewScene("Test")
	obj1 := NewGameObject("Player")
	obj2 := NewGameObject("Enemy")

	scene.AddGameObject(obj1)
	scene.AddGameObject(obj2)

	scene.RemoveGameObject(obj1)

	if len(scene.GameObjects) != 1 {
		t.Errorf("Expected 1 GameObject after removal, got %d", len(scene.GameObjects))
	}

	if scene.GameObjects[0] != obj2 {
		t.Error("Wrong GameObject removed")
	}

	// Verify UID map was updated
	if scene.FindByUID(obj1.UID) != nil {
		t.Error("Removed GameObject still in UID map")
	}

	if scene.FindByUID(obj2.UID) != obj2 {
		t.Error("Remaining GameObject not in UID map")
	}
}

func TestSceneFindByName(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("UniquePlayer")

	scene.AddGameObject(obj)

	found := scene.FindByName("UniquePlayer")
	if found != obj {
		t.Error("FindByName failed")
	}

	notFound := scene.FindByName("DoesNotExist")
	if notFound != nil {
		t.Error("FindByName should return nil for non-existent name")
	}
}

func TestSceneFindByTag(t *testing.T) {
	scene := NewScene("Test")
	obj1 := NewGameObject("Enemy1")
	obj2 := NewGameObject("Enemy2")
	obj3 := NewGameObject("Player")

	obj1.Tags = []string{"enemy", "ai"}
	obj2.Tags = []string{"enemy"}
	obj3.Tags = []string{"player"}

	scene.AddGameObject(obj1)
	scene.AddGameObject(obj2)
	scene.AddGameObject(obj3)

	enemies := scene.FindByTag("enemy")
	if len(enemies) != 2 {
		t.Errorf("Expected 2 enemies, got %d", len(enemies))
	}

	players := scene.FindByTag("player")
	if len(players) != 1 {
		t.Errorf("Expected 1 player, got %d", len(players))
	}

	notFound := scene.FindByTag("nonexistent")
	if len(notFound) != 0 {
		t.Error("FindByTag should return empty slice for non-existent tag")
	}
}

func TestSceneRemoveWithChildren(t *testing.T) {
	scene := NewScene("Test")
	parent := NewGameObject("Parent")
	child := NewGameObject("Child")

	scene.AddGameObject(parent)
	scene.AddGameObject(child)
	parent.AddChild(child)

	scene.RemoveGameObject(parent)

	// Both parent and child should be removed
	if len(scene.GameObjects) != 0 {
		t.Errorf("Expected 0 GameObjects, got %d", len(scene.GameObjects))
	}

	// Verify UID map cleaned up
	if scene.FindByUID(parent.UID) != nil {
		t.Error("Parent still in UID map after removal")
	}
	if scene.FindByUID(child.UID) != nil {
		t.Error("Child still in UID map after removal")
	}
}

func TestSceneUIDMapInitialization(t *testing.T) {
	scene := NewScene("Test")

	if scene.uidMap == nil {
		t.Error("uidMap should be initialized in NewScene")
	}

	// Test adding to uninitialized map (defensive programming check)
	scene.uidMap = nil
	obj := NewGameObject("Test")
	scene.AddGameObject(obj) // Should not panic

	if scene.uidMap == nil {
		t.Error("uidMap should be initialized on first AddGameObject")
	}
}

type recordingHandler struct {
	BaseComponent
	entered []*GameObject
	exited  []*GameObject
}

func (h *recordingHandler) OnCollisionEnter(other *GameObject) {
	h.entered = append(h.entered, other)
}

func (h *recordingHandler) OnCollisionExit(other *GameObject) {
	h.exited = append(h.exited, other)
}

type destroyCounter struct {
	BaseComponent
	calls int
}

func (d *destroyCounter) OnDestroy() { d.calls++ }

func newPhysicsScene(t *testing.T) *Scene {
	t.Helper()
	w := physics.NewWorld(physics.DefaultConfig())
	t.Cleanup(w.Destroy)
	return NewPhysicsScene("Test", w)
}

func TestSceneFindByBody(t *testing.T) {
	scene := newPhysicsScene(t)
	obj := NewGameObject("Crate")
	scene.AddGameObject(obj)

	body := scene.Physics.CreateStatic(physics.Box, rl.Vector3{}, rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1})
	scene.RegisterBody(body.ID(), obj)

	if scene.FindByBody(body.ID()) != obj {
		t.Error("FindByBody failed")
	}
	scene.RemoveGameObject(obj)
	if scene.FindByBody(body.ID()) != nil {
		t.Error("Removed GameObject still in body map")
	}
}

func TestSceneRemoveDestroysComponents(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("Obj")
	counter := &destroyCounter{}
	obj.AddComponent(counter)
	scene.AddGameObject(obj)

	scene.RemoveGameObject(obj)
	scene.RemoveGameObject(obj)
	if counter.calls != 1 {
		t.Errorf("Expected OnDestroy once, got %d", counter.calls)
	}
	if !obj.IsDestroyed() {
		t.Error("Expected GameObject to be marked destroyed")
	}
}

func TestSceneTickStepsPhysics(t *testing.T) {
	scene := newPhysicsScene(t)
	scene.Tick()
	scene.Tick()
	if scene.Physics.Ticks() != 2 {
		t.Errorf("Expected 2 physics ticks, got %d", scene.Physics.Ticks())
	}

	plain := NewScene("NoPhysics")
	plain.Tick()
	if plain.Advance(1) != 0 {
		t.Error("Advance without physics should not tick")
	}
}

func TestSceneAdvanceAccumulates(t *testing.T) {
	scene := newPhysicsScene(t)
	step := scene.Physics.Config().Timestep

	if n := scene.Advance(step * 0.5); n != 0 {
		t.Errorf("Expected 0 ticks for half a step, got %d", n)
	}
	if n := scene.Advance(step * 0.75); n != 1 {
		t.Errorf("Expected 1 tick once a full step accumulated, got %d", n)
	}
	if n := scene.Advance(step * 20); n != maxSubSteps {
		t.Errorf("Expected ticks capped at %d, got %d", maxSubSteps, n)
	}
	if n := scene.Advance(0); n != 0 {
		t.Errorf("Expected the backlog to be dropped after a stall, got %d ticks", n)
	}
}

func TestSceneContactEvents(t *testing.T) {
	scene := newPhysicsScene(t)
	w := scene.Physics

	ground := NewGameObject("Ground")
	mover := NewGameObject("Mover")
	handler := &recordingHandler{}
	mover.AddComponent(handler)
	scene.AddGameObject(ground)
	scene.AddGameObject(mover)

	g := w.CreateStatic(physics.Box, rl.Vector3{Y: -0.5}, rl.Vector3{}, rl.Vector3{X: 10, Y: 1, Z: 10})
	m := w.CreateKinematic(physics.Box, rl.Vector3{Y: 0.4}, rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1})
	scene.RegisterBody(g.ID(), ground)
	scene.RegisterBody(m.ID(), mover)

	scene.Tick()
	scene.Tick()
	if len(handler.entered) != 1 || handler.entered[0] != ground {
		t.Fatalf("Expected one enter with the ground, got %d", len(handler.entered))
	}

	m.SetPosition(rl.Vector3{Y: 5})
	scene.Tick()
	if len(handler.exited) != 1 || handler.exited[0] != ground {
		t.Errorf("Expected one exit with the ground, got %d", len(handler.exited))
	}
}
