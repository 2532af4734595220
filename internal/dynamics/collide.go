package dynamics

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// ContactGeom is one point of contact between two geoms. Moving G1 along
// Normal by Depth separates the pair. For rays, Depth is the distance from
// the ray start to the hit point and Normal is the surface normal of the
// other geom.
type ContactGeom struct {
	Pos    mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
	G1, G2 *Geom
}

// Collide generates at most max contacts between g1 and g2. Rays never
// collide with rays.
func Collide(g1, g2 *Geom, max int) []ContactGeom {
	if max < 1 || g1 == nil || g2 == nil || g1 == g2 {
		return nil
	}

	var out []ContactGeom
	switch {
	case g1.class == BoxClass && g2.class == BoxClass:
		out = collideBoxBox(g1, g2, max)
	case g1.class == CapsuleClass && g2.class == BoxClass:
		out = collideCapsuleBox(g1, g2, max)
	case g1.class == BoxClass && g2.class == CapsuleClass:
		out = flipNormals(collideCapsuleBox(g2, g1, max))
	case g1.class == CapsuleClass && g2.class == CapsuleClass:
		out = collideCapsuleCapsule(g1, g2)
	case g1.class == RayClass && g2.class != RayClass:
		out = collideRay(g1, g2)
	case g2.class == RayClass && g1.class != RayClass:
		out = flipNormals(collideRay(g2, g1))
	}

	for i := range out {
		out[i].G1, out[i].G2 = g1, g2
	}
	return out
}

func flipNormals(cs []ContactGeom) []ContactGeom {
	for i := range cs {
		cs[i].Normal = cs[i].Normal.Mul(-1)
	}
	return cs
}

// box is a world-space oriented box.
type box struct {
	c mgl64.Vec3
	r mgl64.Mat3
	h mgl64.Vec3
}

func boxOf(g *Geom) box {
	return box{c: g.Position(), r: g.Rotation(), h: g.sides.Mul(0.5)}
}

func (b box) axis(i int) mgl64.Vec3 { return b.r.Col(i) }

func (b box) toLocal(p mgl64.Vec3) mgl64.Vec3 {
	return b.r.Transpose().Mul3x1(p.Sub(b.c))
}

func (b box) toWorld(l mgl64.Vec3) mgl64.Vec3 {
	return b.c.Add(b.r.Mul3x1(l))
}

// extent is the half-length of the box projected on unit axis n.
func (b box) extent(n mgl64.Vec3) float64 {
	return b.h[0]*math.Abs(b.axis(0).Dot(n)) +
		b.h[1]*math.Abs(b.axis(1).Dot(n)) +
		b.h[2]*math.Abs(b.axis(2).Dot(n))
}

func (b box) contains(p mgl64.Vec3, eps float64) bool {
	l := b.toLocal(p)
	return math.Abs(l[0]) <= b.h[0]+eps &&
		math.Abs(l[1]) <= b.h[1]+eps &&
		math.Abs(l[2]) <= b.h[2]+eps
}

// closestPoint returns the point of the box nearest to p and whether p lies
// inside the box.
func (b box) closestPoint(p mgl64.Vec3) (mgl64.Vec3, bool) {
	l := b.toLocal(p)
	inside := true
	for i := 0; i < 3; i++ {
		if l[i] < -b.h[i] {
			l[i] = -b.h[i]
			inside = false
		} else if l[i] > b.h[i] {
			l[i] = b.h[i]
			inside = false
		}
	}
	if inside {
		return p, true
	}
	return b.toWorld(l), false
}

func (b box) support(dir mgl64.Vec3) mgl64.Vec3 {
	p := b.c
	for i := 0; i < 3; i++ {
		a := b.axis(i)
		if a.Dot(dir) >= 0 {
			p = p.Add(a.Mul(b.h[i]))
		} else {
			p = p.Sub(a.Mul(b.h[i]))
		}
	}
	return p
}

func (b box) vertices() [8]mgl64.Vec3 {
	var vs [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		l := mgl64.Vec3{b.h[0], b.h[1], b.h[2]}
		if i&1 != 0 {
			l[0] = -l[0]
		}
		if i&2 != 0 {
			l[1] = -l[1]
		}
		if i&4 != 0 {
			l[2] = -l[2]
		}
		vs[i] = b.toWorld(l)
	}
	return vs
}

// edge axes must beat face axes by this factor to be chosen
const edgeAxisBias = 1.05

const containEps = 1e-9

// collideBoxBox runs the separating axis test over the 15 candidate axes and
// reports the contained vertices of either box along the least-penetration
// axis.
func collideBoxBox(g1, g2 *Geom, max int) []ContactGeom {
	a, b := boxOf(g1), boxOf(g2)
	d := b.c.Sub(a.c)

	bestScore := math.Inf(1)
	depth := 0.0
	var normal mgl64.Vec3

	test := func(axis mgl64.Vec3, weight float64) bool {
		l := axis.Len()
		if l < 1e-6 {
			return true
		}
		axis = axis.Mul(1 / l)
		dist := d.Dot(axis)
		overlap := a.extent(axis) + b.extent(axis) - math.Abs(dist)
		if overlap < 0 {
			return false
		}
		if overlap*weight < bestScore {
			bestScore = overlap * weight
			depth = overlap
			if dist > 0 {
				normal = axis.Mul(-1)
			} else {
				normal = axis
			}
		}
		return true
	}

	for i := 0; i < 3; i++ {
		if !test(a.axis(i), 1) {
			return nil
		}
	}
	for i := 0; i < 3; i++ {
		if !test(b.axis(i), 1) {
			return nil
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !test(a.axis(i).Cross(b.axis(j)), edgeAxisBias) {
				return nil
			}
		}
	}

	n := normal
	topB := b.c.Dot(n) + b.extent(n)
	bottomA := a.c.Dot(n) - a.extent(n)

	var out []ContactGeom
	for _, v := range a.vertices() {
		if !b.contains(v, containEps) {
			continue
		}
		if pen := topB - v.Dot(n); pen >= -containEps {
			out = append(out, ContactGeom{Pos: v, Normal: n, Depth: math.Max(pen, 0)})
		}
	}
	for _, v := range b.vertices() {
		if !a.contains(v, containEps) {
			continue
		}
		if pen := v.Dot(n) - bottomA; pen >= -containEps {
			out = append(out, ContactGeom{Pos: v, Normal: n, Depth: math.Max(pen, 0)})
		}
	}

	if len(out) == 0 {
		p := a.support(n.Mul(-1)).Add(n.Mul(depth * 0.5))
		return []ContactGeom{{Pos: p, Normal: n, Depth: depth}}
	}
	if len(out) > max {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Depth > out[j].Depth })
		out = out[:max]
	}
	return out
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// closestSegmentParam finds the parameter along a-b whose point is nearest
// to the box. Distance to a convex set is convex along a line, so a ternary
// search converges.
func closestSegmentParam(bx box, a, b mgl64.Vec3) float64 {
	dist := func(t float64) float64 {
		p := lerp(a, b, t)
		cp, _ := bx.closestPoint(p)
		return p.Sub(cp).LenSqr()
	}
	lo, hi := 0.0, 1.0
	for i := 0; i < 60; i++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if dist(m1) <= dist(m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	return (lo + hi) / 2
}

// collideCapsuleBox reports contacts that push the capsule out of the box.
func collideCapsuleBox(cg, bg *Geom, max int) []ContactGeom {
	bx := boxOf(bg)
	r := cg.radius
	s0, s1 := cg.segment()

	t := closestSegmentParam(bx, s0, s1)
	q := lerp(s0, s1, t)
	if _, inside := bx.closestPoint(q); inside {
		return capsuleInsideBox(bx, s0, s1, r, max)
	}

	var out []ContactGeom
	for i, tc := range [3]float64{t, 0, 1} {
		if i > 0 && math.Abs(tc-t) < 1e-9 {
			continue
		}
		p := lerp(s0, s1, tc)
		cp, inside := bx.closestPoint(p)
		if inside {
			continue
		}
		diff := p.Sub(cp)
		dist := diff.Len()
		if dist >= r || dist < 1e-12 {
			continue
		}
		out = append(out, ContactGeom{Pos: cp, Normal: diff.Mul(1 / dist), Depth: r - dist})
		if len(out) == max {
			break
		}
	}
	return out
}

// capsuleInsideBox handles a core segment that reaches into the box by
// testing the three box face axes.
func capsuleInsideBox(bx box, s0, s1 mgl64.Vec3, r float64, max int) []ContactGeom {
	depth := math.Inf(1)
	var n mgl64.Vec3
	for i := 0; i < 3; i++ {
		ax := bx.axis(i)
		p0, p1 := s0.Dot(ax), s1.Dot(ax)
		cmin, cmax := math.Min(p0, p1)-r, math.Max(p0, p1)+r
		bc := bx.c.Dot(ax)
		bmin, bmax := bc-bx.h[i], bc+bx.h[i]

		if up := bmax - cmin; up < depth {
			depth, n = up, ax
		}
		if down := cmax - bmin; down < depth {
			depth, n = down, ax.Mul(-1)
		}
	}

	d0, d1 := s0.Dot(n), s1.Dot(n)
	deepest := []mgl64.Vec3{s0}
	switch {
	case math.Abs(d0-d1) < 1e-6:
		deepest = append(deepest, s1)
	case d1 < d0:
		deepest[0] = s1
	}

	var out []ContactGeom
	for _, e := range deepest {
		pos, _ := bx.closestPoint(e.Sub(n.Mul(r)))
		out = append(out, ContactGeom{Pos: pos, Normal: n, Depth: depth})
		if len(out) == max {
			break
		}
	}
	return out
}

// closestSegmentSegment returns the closest points between segments p1-q1
// and p2-q2.
func closestSegmentSegment(p1, q1, p2, q2 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	const eps = 1e-12
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= eps {
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func collideCapsuleCapsule(g1, g2 *Geom) []ContactGeom {
	a0, a1 := g1.segment()
	b0, b1 := g2.segment()
	c1, c2 := closestSegmentSegment(a0, a1, b0, b1)

	diff := c1.Sub(c2)
	dist := diff.Len()
	rsum := g1.radius + g2.radius
	if dist >= rsum {
		return nil
	}

	n := mgl64.Vec3{0, 0, 1}
	if dist > 1e-12 {
		n = diff.Mul(1 / dist)
	}
	depth := rsum - dist
	pos := c2.Add(n.Mul(g2.radius - depth*0.5))
	return []ContactGeom{{Pos: pos, Normal: n, Depth: depth}}
}
