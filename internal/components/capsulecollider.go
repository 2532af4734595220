package components

import (
	"pxengine/internal/engine"
	"pxengine/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("CapsuleCollider", func() engine.Serializable {
		return NewCapsuleCollider(0.5, 2)
	})
}

// CapsuleCollider is an upright capsule. Height includes both caps.
type CapsuleCollider struct {
	collider
	Radius float32
	Height float32
}

func NewCapsuleCollider(radius, height float32) *CapsuleCollider {
	return &CapsuleCollider{Radius: radius, Height: height}
}

// cylinder returns the length of the straight section between the caps.
func (c *CapsuleCollider) cylinder() float32 {
	l := c.Height - 2*c.Radius
	if l < 0 {
		return 0
	}
	return l
}

func (c *CapsuleCollider) Start() {
	c.register(physics.Capsule, rl.Vector3{X: c.Radius, Y: c.cylinder()})
}

func (c *CapsuleCollider) TypeName() string {
	return "CapsuleCollider"
}

func (c *CapsuleCollider) Serialize() map[string]any {
	return map[string]any{
		"type":   "CapsuleCollider",
		"radius": c.Radius,
		"height": c.Height,
		"offset": engine.Vec3Prop(c.Offset),
	}
}

func (c *CapsuleCollider) Deserialize(data map[string]any) {
	if v, ok := engine.PropFloat(data, "radius"); ok {
		c.Radius = v
	}
	if v, ok := engine.PropFloat(data, "height"); ok {
		c.Height = v
	}
	if v, ok := engine.PropVec3(data, "offset"); ok {
		c.Offset = v
	}
}
