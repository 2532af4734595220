package components

import (
	"pxengine/internal/engine"
	"pxengine/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Rigidbody", func() engine.Serializable {
		return NewRigidbody()
	})
}

// Sleep thresholds
const (
	SleepVelocityThreshold = 0.05 // units/sec
	SleepAngularThreshold  = 0.05 // rad/sec
	SleepTimeThreshold     = 0.5  // seconds of low velocity before sleeping
)

// Rigidbody marks its GameObject's collider as simulated. It must be added
// before the collider starts. Velocity mirrors the simulation after every
// Update.
type Rigidbody struct {
	engine.BaseComponent
	Velocity        rl.Vector3
	AngularVelocity rl.Vector3 // radians per second about each axis
	Mass            float32
	IsKinematic     bool // moves by its velocity, never pushed by contacts

	// A sleeping body is frozen in place until something touches it.
	IsSleeping bool
	CanSleep   bool
	sleepTimer float32

	body *physics.Body
}

func NewRigidbody() *Rigidbody {
	return &Rigidbody{
		Mass:     1.0,
		CanSleep: true,
	}
}

func (r *Rigidbody) attach(b *physics.Body) {
	r.body = b
	if r.Velocity != (rl.Vector3{}) {
		b.SetVelocity(r.Velocity)
	}
}

// Body returns the simulated body, or nil before the collider starts.
func (r *Rigidbody) Body() *physics.Body { return r.body }

func (r *Rigidbody) Update(deltaTime float32) {
	if r.body == nil {
		return
	}
	r.Velocity = r.body.Velocity()
	r.AngularVelocity = r.body.AngularVelocity()
	if !r.IsKinematic {
		r.TrySleep(deltaTime)
	}
}

// SetVelocity sets the velocity of the body and wakes it.
func (r *Rigidbody) SetVelocity(v rl.Vector3) {
	r.Velocity = v
	if r.body != nil {
		r.Wake()
		r.body.SetVelocity(v)
	}
}

// AddForce pushes a simulated body for the next step.
func (r *Rigidbody) AddForce(f rl.Vector3) {
	if r.body == nil || r.IsKinematic {
		return
	}
	r.Wake()
	r.body.AddForce(f)
}

// Wake forces the rigidbody out of sleep state
func (r *Rigidbody) Wake() {
	r.sleepTimer = 0
	if !r.IsSleeping {
		return
	}
	r.IsSleeping = false
	if r.body != nil {
		r.body.Dynamics().Enable()
	}
}

// TrySleep freezes the body once it has stayed slow for SleepTimeThreshold.
func (r *Rigidbody) TrySleep(deltaTime float32) {
	if !r.CanSleep || r.IsSleeping || r.body == nil {
		return
	}

	speed := rl.Vector3Length(r.Velocity)
	angSpeed := rl.Vector3Length(r.AngularVelocity)

	if speed < SleepVelocityThreshold && angSpeed < SleepAngularThreshold {
		r.sleepTimer += deltaTime
		if r.sleepTimer >= SleepTimeThreshold {
			r.IsSleeping = true
			r.Velocity = rl.Vector3{}
			r.AngularVelocity = rl.Vector3{}
			r.body.SetVelocity(rl.Vector3{})
			r.body.SetAngularVelocity(rl.Vector3{})
			r.body.Dynamics().Disable()
		}
	} else {
		r.sleepTimer = 0
	}
}

// OnCollisionEnter wakes a sleeping body when something new touches it.
func (r *Rigidbody) OnCollisionEnter(other *engine.GameObject) {
	r.Wake()
}

func (r *Rigidbody) OnCollisionExit(other *engine.GameObject) {}

// TypeName implements engine.Serializable
func (r *Rigidbody) TypeName() string {
	return "Rigidbody"
}

// Serialize implements engine.Serializable
func (r *Rigidbody) Serialize() map[string]any {
	return map[string]any{
		"type":        "Rigidbody",
		"mass":        r.Mass,
		"isKinematic": r.IsKinematic,
		"canSleep":    r.CanSleep,
		"velocity":    engine.Vec3Prop(r.Velocity),
	}
}

// Deserialize implements engine.Serializable
func (r *Rigidbody) Deserialize(data map[string]any) {
	if m, ok := engine.PropFloat(data, "mass"); ok {
		r.Mass = m
	}
	if k, ok := engine.PropBool(data, "isKinematic"); ok {
		r.IsKinematic = k
	}
	if s, ok := engine.PropBool(data, "canSleep"); ok {
		r.CanSleep = s
	}
	if v, ok := engine.PropVec3(data, "velocity"); ok {
		r.Velocity = v
	}
}
