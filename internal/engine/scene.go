package engine

import (
	"log"
	"pxengine/internal/physics"
)

// maxSubSteps caps the fixed ticks Advance runs for one frame so a long
// stall does not spiral.
const maxSubSteps = 5

type Scene struct {
	Name        string
	GameObjects []*GameObject
	Physics     *physics.World

	uidMap      map[uint64]*GameObject
	bodyMap     map[physics.BodyID]*GameObject
	accumulator float64
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		uidMap:      make(map[uint64]*GameObject),
		bodyMap:     make(map[physics.BodyID]*GameObject),
	}
}

// NewPhysicsScene creates a scene that steps w and forwards its contact
// events to CollisionHandler components.
func NewPhysicsScene(name string, w *physics.World) *Scene {
	s := NewScene(name)
	s.Physics = w
	w.AddContactListener(s)
	return s
}

func (s *Scene) AddGameObject(g *GameObject) {
	if s.uidMap == nil {
		s.uidMap = make(map[uint64]*GameObject)
	}
	g.Scene = s
	s.GameObjects = append(s.GameObjects, g)
	s.uidMap[g.UID] = g
}

// RemoveGameObject removes g and its children and destroys their
// components.
func (s *Scene) RemoveGameObject(g *GameObject) {
	for _, child := range g.Children {
		s.RemoveGameObject(child)
	}
	for i, obj := range s.GameObjects {
		if obj == g {
			s.GameObjects = append(s.GameObjects[:i], s.GameObjects[i+1:]...)
			break
		}
	}
	delete(s.uidMap, g.UID)
	g.Destroy()
	for id, obj := range s.bodyMap {
		if obj == g {
			delete(s.bodyMap, id)
		}
	}
}

func (s *Scene) FindByUID(uid uint64) *GameObject {
	return s.uidMap[uid]
}

// RegisterBody maps a physics body to the GameObject that owns it.
func (s *Scene) RegisterBody(id physics.BodyID, g *GameObject) {
	if s.bodyMap == nil {
		s.bodyMap = make(map[physics.BodyID]*GameObject)
	}
	s.bodyMap[id] = g
}

func (s *Scene) UnregisterBody(id physics.BodyID) {
	delete(s.bodyMap, id)
}

// FindByBody returns the GameObject owning the body, or nil.
func (s *Scene) FindByBody(id physics.BodyID) *GameObject {
	return s.bodyMap[id]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*GameObject {
	var result []*GameObject
	for _, g := range s.GameObjects {
		if g.HasTag(tag) {
			result = append(result, g)
		}
	}
	return result
}

func (s *Scene) Start() {
	for _, g := range s.GameObjects {
		g.Start()
	}
}

func (s *Scene) Update(deltaTime float32) {
	for _, g := range s.GameObjects {
		g.Update(deltaTime)
	}
}

// Tick runs one fixed step: components update with the physics timestep,
// then the world steps.
func (s *Scene) Tick() {
	if s.Physics == nil {
		log.Printf("Scene %s: Tick without a physics world", s.Name)
		return
	}
	s.Update(float32(s.Physics.Config().Timestep))
	s.Physics.Step()
}

// Advance adds frameTime seconds to the accumulator and runs as many fixed
// ticks as fit, at most maxSubSteps. It returns the number of ticks run.
func (s *Scene) Advance(frameTime float64) int {
	if s.Physics == nil {
		return 0
	}
	step := s.Physics.Config().Timestep
	s.accumulator += frameTime
	ticks := 0
	for s.accumulator >= step && ticks < maxSubSteps {
		s.Tick()
		s.accumulator -= step
		ticks++
	}
	if ticks == maxSubSteps && s.accumulator >= step {
		s.accumulator = 0
	}
	return ticks
}

// ContactEnter implements physics.ContactListener.
func (s *Scene) ContactEnter(c physics.Contact) {
	a, b := s.FindByBody(c.A), s.FindByBody(c.B)
	if a == nil || b == nil {
		return
	}
	dispatch(a, b, CollisionHandler.OnCollisionEnter)
	dispatch(b, a, CollisionHandler.OnCollisionEnter)
}

// ContactExit implements physics.ContactListener.
func (s *Scene) ContactExit(idA, idB physics.BodyID) {
	a, b := s.FindByBody(idA), s.FindByBody(idB)
	if a == nil || b == nil {
		return
	}
	dispatch(a, b, CollisionHandler.OnCollisionExit)
	dispatch(b, a, CollisionHandler.OnCollisionExit)
}

func dispatch(g, other *GameObject, fn func(CollisionHandler, *GameObject)) {
	for _, c := range g.Components() {
		if h, ok := c.(CollisionHandler); ok {
			fn(h, other)
		}
	}
}
