package engine

import "pxengine/internal/physics"

type Component interface {
	Start()
	Update(deltaTime float32)
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// Destroyable is implemented by components that hold resources outside the
// GameObject, such as physics bodies.
type Destroyable interface {
	OnDestroy()
}

// BodyOwner is implemented by components that register a physics body.
// The scene uses it to route contacts back to GameObjects.
type BodyOwner interface {
	BodyID() physics.BodyID
}

// CollisionHandler is implemented by components that want to receive collision callbacks.
type CollisionHandler interface {
	OnCollisionEnter(other *GameObject)
	OnCollisionExit(other *GameObject)
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}
