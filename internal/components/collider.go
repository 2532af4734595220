package components

import (
	"log"
	"pxengine/internal/engine"
	"pxengine/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// collider is the shared half of BoxCollider and CapsuleCollider. It owns
// one physics body whose kind follows the GameObject's Rigidbody: none is
// static, a kinematic Rigidbody is kinematic, anything else is rigid.
type collider struct {
	engine.BaseComponent
	Offset rl.Vector3

	body *physics.Body
}

func (c *collider) register(shape physics.Shape, size rl.Vector3) {
	g := c.GetGameObject()
	if g == nil || g.Scene == nil || g.Scene.Physics == nil {
		log.Printf("Collider: %s has no physics scene, skipping", objectName(g))
		return
	}
	if c.body != nil {
		return
	}
	w := g.Scene.Physics
	pos := rl.Vector3Add(g.WorldPosition(), c.Offset)
	rot := g.WorldRotation()

	rb := engine.GetComponent[*Rigidbody](g)
	switch {
	case rb == nil:
		c.body = w.CreateStatic(shape, pos, rot, size)
	case rb.IsKinematic:
		c.body = w.CreateKinematic(shape, pos, rot, size)
	default:
		c.body = w.CreateRigid(shape, pos, rot, size, rb.Mass)
	}
	if c.body == nil {
		return
	}
	if rb != nil {
		rb.attach(c.body)
	}
	g.Scene.RegisterBody(c.body.ID(), g)
}

// BodyID implements engine.BodyOwner. It is zero before Start.
func (c *collider) BodyID() physics.BodyID {
	if c.body == nil {
		return 0
	}
	return c.body.ID()
}

func (c *collider) Body() *physics.Body { return c.body }

// Update copies the simulated pose of moving bodies back to the transform.
func (c *collider) Update(deltaTime float32) {
	if c.body == nil || c.body.Kind() == physics.Static {
		return
	}
	g := c.GetGameObject()
	if g.Parent != nil {
		return
	}
	g.Transform.Position = rl.Vector3Subtract(c.body.Position(), c.Offset)
	g.Transform.Rotation = c.body.Rotation()
}

// OnDestroy removes the body from the world.
func (c *collider) OnDestroy() {
	if c.body == nil {
		return
	}
	g := c.GetGameObject()
	if g != nil && g.Scene != nil {
		g.Scene.UnregisterBody(c.body.ID())
		if g.Scene.Physics != nil {
			g.Scene.Physics.Remove(c.body.ID())
		}
	}
	c.body = nil
}

func objectName(g *engine.GameObject) string {
	if g == nil {
		return "<detached>"
	}
	return g.Name
}
