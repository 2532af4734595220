package components

import (
	"pxengine/internal/engine"
	"pxengine/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("BoxCollider", func() engine.Serializable {
		return NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1})
	})
}

type BoxCollider struct {
	collider
	Size rl.Vector3
}

func NewBoxCollider(size rl.Vector3) *BoxCollider {
	return &BoxCollider{Size: size}
}

// GetWorldSize returns Size scaled by the GameObject's world scale.
func (b *BoxCollider) GetWorldSize() rl.Vector3 {
	g := b.GetGameObject()
	if g == nil {
		return b.Size
	}
	s := g.WorldScale()
	return rl.Vector3{X: b.Size.X * s.X, Y: b.Size.Y * s.Y, Z: b.Size.Z * s.Z}
}

func (b *BoxCollider) Start() {
	b.register(physics.Box, b.GetWorldSize())
}

func (b *BoxCollider) TypeName() string {
	return "BoxCollider"
}

func (b *BoxCollider) Serialize() map[string]any {
	return map[string]any{
		"type":   "BoxCollider",
		"size":   engine.Vec3Prop(b.Size),
		"offset": engine.Vec3Prop(b.Offset),
	}
}

func (b *BoxCollider) Deserialize(data map[string]any) {
	if v, ok := engine.PropVec3(data, "size"); ok {
		b.Size = v
	}
	if v, ok := engine.PropVec3(data, "offset"); ok {
		b.Offset = v
	}
}
