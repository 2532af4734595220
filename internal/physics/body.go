package physics

import (
	"pxengine/internal/dynamics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

// BodyID identifies a body for the lifetime of its World. Zero is never a
// valid id.
type BodyID uint32

type Kind int

const (
	Static Kind = iota
	Rigid
	Kinematic
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Rigid:
		return "rigid"
	case Kinematic:
		return "kinematic"
	}
	return "unknown"
}

type Shape int

const (
	Box Shape = iota
	Capsule
)

func (s Shape) String() string {
	switch s {
	case Box:
		return "box"
	case Capsule:
		return "capsule"
	}
	return "unknown"
}

// Body is a collision body owned by a World. Size holds the full box side
// lengths, or the radius in X and cylinder length in Y for a capsule.
type Body struct {
	id    BodyID
	kind  Kind
	shape Shape
	size  rl.Vector3
	mass  float32
	slot  int

	geom *dynamics.Geom
	body *dynamics.Body // nil for Static
}

func (b *Body) ID() BodyID           { return b.id }
func (b *Body) Kind() Kind           { return b.kind }
func (b *Body) Shape() Shape         { return b.shape }
func (b *Body) Size() rl.Vector3     { return b.size }
func (b *Body) Mass() float32        { return b.mass }
func (b *Body) Geom() *dynamics.Geom { return b.geom }

// Dynamics returns the simulated body, or nil for Static bodies.
func (b *Body) Dynamics() *dynamics.Body { return b.body }

// Position returns the body center in engine space.
func (b *Body) Position() rl.Vector3 {
	return toEngine(b.geom.Position())
}

func (b *Body) SetPosition(pos rl.Vector3) {
	b.geom.SetPosition(toBackend(pos))
}

// Rotation returns Euler angles in degrees.
func (b *Body) Rotation() rl.Vector3 {
	return rotationToEngine(b.geom.Rotation())
}

func (b *Body) SetRotation(deg rl.Vector3) {
	b.geom.SetRotation(rotationToBackend(deg))
}

// Velocity returns the linear velocity. Static bodies never move.
func (b *Body) Velocity() rl.Vector3 {
	if b.body == nil {
		return rl.Vector3{}
	}
	return toEngine(b.body.LinearVel())
}

func (b *Body) SetVelocity(v rl.Vector3) {
	if b.body == nil {
		return
	}
	b.body.SetLinearVel(toBackend(v))
}

// AngularVelocity returns the angular velocity in radians per second about
// engine axes.
func (b *Body) AngularVelocity() rl.Vector3 {
	if b.body == nil {
		return rl.Vector3{}
	}
	return toEngine(b.body.AngularVel())
}

func (b *Body) SetAngularVelocity(v rl.Vector3) {
	if b.body == nil {
		return
	}
	b.body.SetAngularVel(toBackend(v))
}

// AddForce applies a force at the center of mass during the next step. It
// has no effect on Static or Kinematic bodies.
func (b *Body) AddForce(f rl.Vector3) {
	if b.body == nil || b.kind != Rigid {
		return
	}
	b.body.AddForce(toBackend(f))
}

// capsuleMass spreads mass over a vertical capsule.
func capsuleMass(mass float64, radius, length float64) dynamics.Mass {
	return dynamics.CapsuleMass(mass, dynamics.AxisZ, radius, length)
}

func boxMass(mass float64, sides mgl64.Vec3) dynamics.Mass {
	return dynamics.BoxMass(mass, sides[0], sides[1], sides[2])
}
