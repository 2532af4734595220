package dynamics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// collideRay reports the first hit of the ray rg on og. A ray starting inside
// og reports its exit point.
func collideRay(rg, og *Geom) []ContactGeom {
	start, dir := rg.RayGet()

	var (
		t  float64
		n  mgl64.Vec3
		ok bool
	)
	switch og.class {
	case BoxClass:
		t, n, ok = rayBox(start, dir, boxOf(og))
	case CapsuleClass:
		a, b := og.segment()
		t, n, ok = rayCapsule(start, dir, a, b, og.radius)
	}
	if !ok || t > rg.length {
		return nil
	}
	return []ContactGeom{{Pos: start.Add(dir.Mul(t)), Normal: n, Depth: t}}
}

// rayBox is the slab test in the box's local frame.
func rayBox(start, dir mgl64.Vec3, bx box) (float64, mgl64.Vec3, bool) {
	o := bx.toLocal(start)
	d := bx.r.Transpose().Mul3x1(dir)

	tmin, tmax := math.Inf(-1), math.Inf(1)
	var nmin, nmax mgl64.Vec3
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < -bx.h[i] || o[i] > bx.h[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (-bx.h[i] - o[i]) * inv
		t2 := (bx.h[i] - o[i]) * inv
		var n1, n2 mgl64.Vec3
		n1[i], n2[i] = -1, 1
		if t1 > t2 {
			t1, t2 = t2, t1
			n1, n2 = n2, n1
		}
		if t1 > tmin {
			tmin, nmin = t1, n1
		}
		if t2 < tmax {
			tmax, nmax = t2, n2
		}
		if tmin > tmax {
			return 0, mgl64.Vec3{}, false
		}
	}
	if tmax < 0 {
		return 0, mgl64.Vec3{}, false
	}

	t, n := tmin, nmin
	if t < 0 {
		t, n = tmax, nmax
	}
	return t, bx.r.Mul3x1(n), true
}

// rayCapsule intersects the ray with the cylinder body and both end spheres
// of the capsule a-b and keeps the nearest non-negative hit.
func rayCapsule(start, dir, a, b mgl64.Vec3, r float64) (float64, mgl64.Vec3, bool) {
	best := math.Inf(1)
	var bestN mgl64.Vec3

	consider := func(t float64, n mgl64.Vec3) {
		if t >= 0 && t < best {
			best, bestN = t, n
		}
	}

	axis := b.Sub(a)
	length := axis.Len()
	if length > 1e-12 {
		u := axis.Mul(1 / length)
		m := start.Sub(a)
		dp := dir.Sub(u.Mul(dir.Dot(u)))
		mp := m.Sub(u.Mul(m.Dot(u)))
		qa := dp.Dot(dp)
		qb := 2 * mp.Dot(dp)
		qc := mp.Dot(mp) - r*r
		if qa > 1e-12 {
			if disc := qb*qb - 4*qa*qc; disc >= 0 {
				sq := math.Sqrt(disc)
				for _, t := range [2]float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)} {
					if t < 0 {
						continue
					}
					p := start.Add(dir.Mul(t))
					s := p.Sub(a).Dot(u)
					if s < 0 || s > length {
						continue
					}
					consider(t, p.Sub(a.Add(u.Mul(s))).Mul(1/r))
				}
			}
		}
	}

	for _, c := range [2]mgl64.Vec3{a, b} {
		oc := start.Sub(c)
		hb := oc.Dot(dir)
		hc := oc.Dot(oc) - r*r
		disc := hb*hb - hc
		if disc < 0 {
			continue
		}
		sq := math.Sqrt(disc)
		t := -hb - sq
		if t < 0 {
			t = -hb + sq
		}
		if t < 0 {
			continue
		}
		p := start.Add(dir.Mul(t))
		consider(t, p.Sub(c).Mul(1/r))
	}

	if math.IsInf(best, 1) {
		return 0, mgl64.Vec3{}, false
	}
	return best, bestN, true
}
