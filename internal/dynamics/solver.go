package dynamics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// QuickStep advances the world by dt: gravity and accumulated forces are
// integrated into velocities, contact joints are solved with a fixed number
// of sequential impulse iterations, then positions are integrated.
// Penetration is corrected through separate bias velocities so it never adds
// kinetic energy.
func (w *World) QuickStep(dt float64) {
	if dt <= 0 {
		w.message(MsgUserAssert, "quick step size must be positive, got %g", dt)
		return
	}

	for _, b := range w.bodies {
		b.vBias = mgl64.Vec3{}
		b.wBias = mgl64.Vec3{}
		b.updateInvInertia()
		if !b.simulated() {
			continue
		}
		accel := w.gravity.Add(b.force.Mul(1 / b.mass.Mass))
		b.lvel = b.lvel.Add(accel.Mul(dt))
		b.avel = b.avel.Add(b.invI.Mul3x1(b.torque).Mul(dt))
	}

	var joints []*ContactJoint
	for _, g := range w.groups {
		for _, j := range g.joints {
			if j.b1.simulated() || j.b2.simulated() {
				joints = append(joints, j)
			}
		}
	}
	for _, j := range joints {
		w.preStep(j, dt)
	}

	residual := 0.0
	for it := 0; it < w.iterations; it++ {
		residual = 0
		for _, j := range joints {
			residual = math.Max(residual, j.applyImpulse())
		}
		if residual < convergenceTolerance {
			break
		}
	}
	if residual >= convergenceTolerance {
		w.message(MsgLCP, "LCP: %d contacts unresolved after %d iterations (residual %.3g)",
			len(joints), w.iterations, residual)
	}

	for _, b := range w.bodies {
		if !b.enabled || b.destroyed {
			continue
		}
		v, av := b.lvel, b.avel
		if !b.kinematic {
			v = v.Add(b.vBias)
			av = av.Add(b.wBias)
		}
		b.pos = b.pos.Add(v.Mul(dt))
		if av.LenSqr() > 0 {
			spin := mgl64.Quat{W: 0, V: av}.Mul(b.q).Scale(0.5 * dt)
			b.q = b.q.Add(spin).Normalize()
		}
		b.force = mgl64.Vec3{}
		b.torque = mgl64.Vec3{}
	}
}

// kScalar is the effective inverse mass of the pair along n.
func kScalar(b1, b2 *Body, r1, r2, n mgl64.Vec3) float64 {
	k := 0.0
	if b1.simulated() {
		k += b1.invMass() + n.Dot(b1.invI.Mul3x1(r1.Cross(n)).Cross(r1))
	}
	if b2.simulated() {
		k += b2.invMass() + n.Dot(b2.invI.Mul3x1(r2.Cross(n)).Cross(r2))
	}
	return k
}

func velocityAt(b *Body, r mgl64.Vec3) mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.lvel.Add(b.avel.Cross(r))
}

func biasVelocityAt(b *Body, r mgl64.Vec3) mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.vBias.Add(b.wBias.Cross(r))
}

func applyImpulse(b *Body, j, r mgl64.Vec3) {
	if !b.simulated() {
		return
	}
	b.lvel = b.lvel.Add(j.Mul(b.invMass()))
	b.avel = b.avel.Add(b.invI.Mul3x1(r.Cross(j)))
}

func applyBiasImpulse(b *Body, j, r mgl64.Vec3) {
	if !b.simulated() {
		return
	}
	b.vBias = b.vBias.Add(j.Mul(b.invMass()))
	b.wBias = b.wBias.Add(b.invI.Mul3x1(r.Cross(j)))
}

func (w *World) preStep(j *ContactJoint, dt float64) {
	c := j.contact.Geom
	s := j.contact.Surface
	n := c.Normal

	j.r1, j.r2 = mgl64.Vec3{}, mgl64.Vec3{}
	if j.b1 != nil {
		j.r1 = c.Pos.Sub(j.b1.pos)
	}
	if j.b2 != nil {
		j.r2 = c.Pos.Sub(j.b2.pos)
	}
	j.t1, j.t2 = planeSpace(n)

	erp, cfm := w.erp, w.cfm
	if s.Mode&SurfaceSoftERP != 0 {
		erp = s.SoftERP
	}
	if s.Mode&SurfaceSoftCFM != 0 {
		cfm = s.SoftCFM
	}
	j.softness = cfm / dt

	j.nMass, j.t1Mass, j.t2Mass = 0, 0, 0
	if k := kScalar(j.b1, j.b2, j.r1, j.r2, n); k > 0 {
		j.nMass = 1 / (k + j.softness)
	}
	if k := kScalar(j.b1, j.b2, j.r1, j.r2, j.t1); k > 0 {
		j.t1Mass = 1 / k
	}
	if k := kScalar(j.b1, j.b2, j.r1, j.r2, j.t2); k > 0 {
		j.t2Mass = 1 / k
	}

	j.bias = erp * math.Max(c.Depth, 0) / dt

	j.bounce = 0
	if s.Mode&SurfaceBounce != 0 {
		vn := velocityAt(j.b1, j.r1).Sub(velocityAt(j.b2, j.r2)).Dot(n)
		if -vn > s.BounceVel {
			j.bounce = -s.Bounce * vn
		}
	}

	j.mu1, j.mu2 = s.Mu, s.Mu
	if s.Mode&SurfaceMu2 != 0 {
		j.mu2 = s.Mu2
	}
	j.jnAcc, j.jBias, j.jt1Acc, j.jt2Acc = 0, 0, 0, 0
}

// applyImpulse runs one solver iteration on the joint and returns the
// largest impulse change it made.
func (j *ContactJoint) applyImpulse() float64 {
	if j.nMass == 0 {
		return 0
	}
	n := j.contact.Geom.Normal
	b1, b2, r1, r2 := j.b1, j.b2, j.r1, j.r2

	vbn := biasVelocityAt(b1, r1).Sub(biasVelocityAt(b2, r2)).Dot(n)
	jbn := (j.bias - vbn) * j.nMass
	jbOld := j.jBias
	j.jBias = math.Max(jbOld+jbn, 0)
	if d := j.jBias - jbOld; d != 0 {
		applyBiasImpulse(b1, n.Mul(d), r1)
		applyBiasImpulse(b2, n.Mul(-d), r2)
	}

	vn := velocityAt(b1, r1).Sub(velocityAt(b2, r2)).Dot(n)
	jn := (j.bounce - vn - j.softness*j.jnAcc) * j.nMass
	jnOld := j.jnAcc
	j.jnAcc = math.Max(jnOld+jn, 0)
	dn := j.jnAcc - jnOld
	if dn != 0 {
		applyImpulse(b1, n.Mul(dn), r1)
		applyImpulse(b2, n.Mul(-dn), r2)
	}

	change := math.Abs(dn)
	change = math.Max(change, j.friction(j.t1, j.t1Mass, j.mu1, &j.jt1Acc))
	change = math.Max(change, j.friction(j.t2, j.t2Mass, j.mu2, &j.jt2Acc))
	return change
}

func (j *ContactJoint) friction(t mgl64.Vec3, mass, mu float64, acc *float64) float64 {
	if mu == 0 || mass == 0 {
		return 0
	}
	vt := velocityAt(j.b1, j.r1).Sub(velocityAt(j.b2, j.r2)).Dot(t)
	jt := -vt * mass
	old := *acc
	next := old + jt
	if !math.IsInf(mu, 1) {
		limit := mu * j.jnAcc
		next = math.Max(-limit, math.Min(limit, next))
	}
	*acc = next
	d := next - old
	if d != 0 {
		applyImpulse(j.b1, t.Mul(d), j.r1)
		applyImpulse(j.b2, t.Mul(-d), j.r2)
	}
	return math.Abs(d)
}
