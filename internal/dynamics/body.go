package dynamics

import "github.com/go-gl/mathgl/mgl64"

// Body is a rigid body owned by a World. Kinematic bodies move only by their
// own velocity and are never pushed by contacts or gravity.
type Body struct {
	world *World

	pos  mgl64.Vec3
	q    mgl64.Quat
	lvel mgl64.Vec3
	avel mgl64.Vec3

	force  mgl64.Vec3
	torque mgl64.Vec3

	mass      Mass
	kinematic bool
	enabled   bool
	destroyed bool

	geoms []*Geom
	data  any

	// solver scratch, valid during QuickStep only
	vBias mgl64.Vec3
	wBias mgl64.Vec3
	invI  mgl64.Mat3
}

func (b *Body) SetPosition(p mgl64.Vec3) { b.pos = p }
func (b *Body) Position() mgl64.Vec3 { return b.pos }

// SetRotation sets the orientation from a rotation matrix.
func (b *Body) SetRotation(r mgl64.Mat3) {
	b.q = mgl64.Mat4ToQuat(r.Mat4()).Normalize()
}

func (b *Body) Rotation() mgl64.Mat3 {
	return b.q.Mat4().Mat3()
}

func (b *Body) SetQuaternion(q mgl64.Quat) { b.q = q.Normalize() }
func (b *Body) Quaternion() mgl64.Quat { return b.q }

func (b *Body) SetLinearVel(v mgl64.Vec3) { b.lvel = v }
func (b *Body) LinearVel() mgl64.Vec3 { return b.lvel }
func (b *Body) SetAngularVel(v mgl64.Vec3) { b.avel = v }
func (b *Body) AngularVel() mgl64.Vec3 { return b.avel }

// AddForce accumulates a world-space force applied at the center of mass
// during the next step.
func (b *Body) AddForce(f mgl64.Vec3) { b.force = b.force.Add(f) }
func (b *Body) AddTorque(t mgl64.Vec3) { b.torque = b.torque.Add(t) }

func (b *Body) SetMass(m Mass) {
	if !m.valid() {
		b.world.message(MsgUserAssert, "invalid body mass %g", m.Mass)
		return
	}
	b.mass = m
}

func (b *Body) Mass() Mass { return b.mass }

// SetKinematic removes the body from force and contact response.
func (b *Body) SetKinematic() { b.kinematic = true }
func (b *Body) SetDynamic() { b.kinematic = false }
func (b *Body) IsKinematic() bool { return b.kinematic }

func (b *Body) Enable() { b.enabled = true }
func (b *Body) Disable() { b.enabled = false }
func (b *Body) IsEnabled() bool { return b.enabled }
func (b *Body) SetData(data any) { b.data = data }
func (b *Body) Data() any { return b.data }

// Geoms returns the geoms currently attached to the body.
func (b *Body) Geoms() []*Geom { return b.geoms }

// Destroy detaches every geom and removes the body from its world.
func (b *Body) Destroy() {
	if b.destroyed {
		return
	}
	for _, g := range append([]*Geom(nil), b.geoms...) {
		g.SetBody(nil)
	}
	b.destroyed = true
	b.enabled = false
	b.world.removeBody(b)
}

func (b *Body) detachGeom(g *Geom) {
	for i, other := range b.geoms {
		if other == g {
			b.geoms = append(b.geoms[:i], b.geoms[i+1:]...)
			return
		}
	}
}

// simulated reports whether forces and contacts act on the body.
func (b *Body) simulated() bool {
	return b != nil && b.enabled && !b.kinematic && !b.destroyed
}

func (b *Body) invMass() float64 {
	if !b.simulated() {
		return 0
	}
	return 1 / b.mass.Mass
}

func (b *Body) updateInvInertia() {
	if !b.simulated() {
		b.invI = mgl64.Mat3{}
		return
	}
	r := b.Rotation()
	b.invI = r.Mul3(b.mass.I.Inv()).Mul3(r.Transpose())
}
