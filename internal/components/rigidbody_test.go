package components

import (
	"pxengine/internal/engine"
	"pxengine/internal/physics"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestRigidbodyFallsOntoFloor(t *testing.T) {
	s := newScene(t, physics.DefaultConfig())
	addFloor(s)
	rb := NewRigidbody()
	crate := spawn(s, "Crate", rl.Vector3{Y: 3}, rb, NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))

	s.Tick()
	s.Tick()
	if rb.Velocity.Y >= 0 {
		t.Errorf("Expected the crate to fall, got vy %f", rb.Velocity.Y)
	}
	if crate.Transform.Position.Y >= 3 {
		t.Errorf("Expected the transform to follow the body, got y %f", crate.Transform.Position.Y)
	}

	for i := 0; i < 240; i++ {
		s.Tick()
	}
	if y := crate.Transform.Position.Y; y < 0.4 || y > 0.6 {
		t.Errorf("Expected the crate to rest near y=0.5, got %f", y)
	}
}

func TestRigidbodySleepAndWake(t *testing.T) {
	cfg := physics.DefaultConfig()
	cfg.Gravity = 0
	s := newScene(t, cfg)
	rb := NewRigidbody()
	spawn(s, "Crate", rl.Vector3{Y: 3}, rb, NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))

	for i := 0; i < 40; i++ {
		s.Tick()
	}
	if !rb.IsSleeping {
		t.Fatal("Expected a motionless body to fall asleep")
	}
	if rb.Body().Dynamics().IsEnabled() {
		t.Error("Expected the sleeping body to be disabled")
	}

	rb.OnCollisionEnter(nil)
	if rb.IsSleeping || !rb.Body().Dynamics().IsEnabled() {
		t.Error("Expected a contact to wake the body")
	}
}

func TestRigidbodyNoSleep(t *testing.T) {
	cfg := physics.DefaultConfig()
	cfg.Gravity = 0
	s := newScene(t, cfg)
	rb := NewRigidbody()
	rb.CanSleep = false
	spawn(s, "Crate", rl.Vector3{}, rb, NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))

	for i := 0; i < 60; i++ {
		s.Tick()
	}
	if rb.IsSleeping {
		t.Error("Expected CanSleep=false to keep the body awake")
	}
}

func TestRigidbodySetVelocity(t *testing.T) {
	cfg := physics.DefaultConfig()
	cfg.Gravity = 0
	s := newScene(t, cfg)
	rb := NewRigidbody()
	rb.Velocity = rl.Vector3{X: 2}
	crate := spawn(s, "Crate", rl.Vector3{}, rb, NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))

	if v := rb.Body().Velocity(); !near(v.X, 2, 1e-6) {
		t.Errorf("Expected the initial velocity to reach the body, got %v", v)
	}

	rb.SetVelocity(rl.Vector3{Z: -1})
	s.Tick()
	s.Tick()
	if !near(rb.Velocity.Z, -1, 1e-5) || !near(rb.Velocity.X, 0, 1e-5) {
		t.Errorf("Expected velocity (0,0,-1), got %v", rb.Velocity)
	}
	if crate.Transform.Position.Z >= 0 {
		t.Errorf("Expected the crate to move along -Z, got %v", crate.Transform.Position)
	}
}

func TestRigidbodyKinematicIgnoresForce(t *testing.T) {
	cfg := physics.DefaultConfig()
	cfg.Gravity = 0
	s := newScene(t, cfg)
	rb := NewRigidbody()
	rb.IsKinematic = true
	spawn(s, "Platform", rl.Vector3{}, rb, NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))

	rb.AddForce(rl.Vector3{Y: 100})
	s.Tick()
	if rb.Velocity != (rl.Vector3{}) {
		t.Errorf("Expected no velocity from a force on a kinematic body, got %v", rb.Velocity)
	}
}

func TestRigidbodyAddForce(t *testing.T) {
	cfg := physics.DefaultConfig()
	cfg.Gravity = 0
	s := newScene(t, cfg)
	rb := NewRigidbody()
	rb.Mass = 2
	spawn(s, "Crate", rl.Vector3{}, rb, NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))

	rb.AddForce(rl.Vector3{Y: 120})
	s.Tick()
	s.Tick()
	// one step of 60 N/kg over 1/60 s
	if !near(rb.Velocity.Y, 1, 1e-4) {
		t.Errorf("Expected vy 1, got %f", rb.Velocity.Y)
	}
}

func TestRigidbodyDeserialize(t *testing.T) {
	rb := engine.CreateComponent("Rigidbody", map[string]any{
		"mass":        5,
		"isKinematic": true,
		"canSleep":    false,
	}).(*Rigidbody)
	if rb.Mass != 5 || !rb.IsKinematic || rb.CanSleep {
		t.Errorf("Expected mass 5, kinematic, no sleep; got %+v", rb)
	}
}
