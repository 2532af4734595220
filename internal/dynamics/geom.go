package dynamics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Class int

const (
	BoxClass Class = iota
	CapsuleClass
	RayClass
)

func (c Class) String() string {
	switch c {
	case BoxClass:
		return "box"
	case CapsuleClass:
		return "capsule"
	case RayClass:
		return "ray"
	}
	return "unknown"
}

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min, Max mgl64.Vec3
}

func (a AABB) Overlaps(b AABB) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

// Geom is a collision shape living in a Space. An unattached geom keeps its
// own transform; an attached geom shares its body's transform.
//
// Capsules run along the local Z axis. Rays start at the geom position and
// point along the local Z axis.
type Geom struct {
	class Class
	space *Space
	body  *Body

	pos mgl64.Vec3
	rot mgl64.Mat3

	sides  mgl64.Vec3 // box full side lengths
	radius float64    // capsule
	length float64    // capsule cylinder length, ray length

	enabled   bool
	destroyed bool
	data      any
}

func newGeom(class Class) *Geom {
	return &Geom{class: class, rot: mgl64.Ident3(), enabled: true}
}

func (g *Geom) Class() Class { return g.class }
func (g *Geom) Space() *Space { return g.space }
func (g *Geom) Body() *Body { return g.body }
func (g *Geom) Data() any { return g.data }
func (g *Geom) SetData(d any) { g.data = d }
func (g *Geom) Enable() { g.enabled = true }
func (g *Geom) Disable() { g.enabled = false }
func (g *Geom) IsEnabled() bool { return g.enabled && !g.destroyed }

// SetBody attaches the geom to b, or detaches it when b is nil. A detached
// geom keeps the transform it last had.
func (g *Geom) SetBody(b *Body) {
	if g.body == b {
		return
	}
	if g.body != nil {
		g.pos = g.body.Position()
		g.rot = g.body.Rotation()
		g.body.detachGeom(g)
	}
	g.body = b
	if b != nil {
		b.geoms = append(b.geoms, g)
	}
}

// SetPosition moves the geom, or its body when attached.
func (g *Geom) SetPosition(p mgl64.Vec3) {
	if g.body != nil {
		g.body.SetPosition(p)
		return
	}
	g.pos = p
}

func (g *Geom) Position() mgl64.Vec3 {
	if g.body != nil {
		return g.body.Position()
	}
	return g.pos
}

func (g *Geom) SetRotation(r mgl64.Mat3) {
	if g.body != nil {
		g.body.SetRotation(r)
		return
	}
	g.rot = r
}

func (g *Geom) Rotation() mgl64.Mat3 {
	if g.body != nil {
		return g.body.Rotation()
	}
	return g.rot
}

// BoxSides returns the full side lengths of a box geom.
func (g *Geom) BoxSides() mgl64.Vec3 { return g.sides }

// CapsuleParams returns the radius and cylinder length of a capsule geom.
func (g *Geom) CapsuleParams() (radius, length float64) { return g.radius, g.length }

func (g *Geom) RayLength() float64 { return g.length }

func (g *Geom) SetRayLength(length float64) { g.length = length }

// RaySet places the ray at start pointing along dir. dir need not be unit.
func (g *Geom) RaySet(start, dir mgl64.Vec3) {
	if dir.LenSqr() == 0 {
		dir = mgl64.Vec3{0, 0, 1}
	}
	g.SetPosition(start)
	g.SetRotation(frameFromAxis(dir.Normalize()))
}

// RayGet returns the start point and unit direction of a ray geom.
func (g *Geom) RayGet() (start, dir mgl64.Vec3) {
	return g.Position(), g.Rotation().Col(2)
}

// AABB returns the world-space bounds of the geom.
func (g *Geom) AABB() AABB {
	pos := g.Position()
	switch g.class {
	case BoxClass:
		r := g.Rotation()
		h := g.sides.Mul(0.5)
		var ext mgl64.Vec3
		for i := 0; i < 3; i++ {
			ext[i] = math.Abs(r.At(i, 0))*h[0] + math.Abs(r.At(i, 1))*h[1] + math.Abs(r.At(i, 2))*h[2]
		}
		return AABB{Min: pos.Sub(ext), Max: pos.Add(ext)}
	case CapsuleClass:
		a, b := g.segment()
		rv := mgl64.Vec3{g.radius, g.radius, g.radius}
		return AABB{Min: minVec(a, b).Sub(rv), Max: maxVec(a, b).Add(rv)}
	default:
		start, dir := g.RayGet()
		end := start.Add(dir.Mul(g.length))
		return AABB{Min: minVec(start, end), Max: maxVec(start, end)}
	}
}

// segment returns the endpoints of a capsule's core segment.
func (g *Geom) segment() (mgl64.Vec3, mgl64.Vec3) {
	c := g.Position()
	axis := g.Rotation().Col(2).Mul(g.length * 0.5)
	return c.Sub(axis), c.Add(axis)
}

// Destroy detaches the geom from its body and removes it from its space.
func (g *Geom) Destroy() {
	if g.destroyed {
		return
	}
	g.SetBody(nil)
	if g.space != nil {
		g.space.remove(g)
	}
	g.destroyed = true
}

func minVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func maxVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

// planeSpace returns two unit vectors orthogonal to n and to each other.
func planeSpace(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var p mgl64.Vec3
	if math.Abs(n[2]) > 0.7071067811865476 {
		a := n[1]*n[1] + n[2]*n[2]
		k := 1 / math.Sqrt(a)
		p = mgl64.Vec3{0, -n[2] * k, n[1] * k}
	} else {
		a := n[0]*n[0] + n[1]*n[1]
		k := 1 / math.Sqrt(a)
		p = mgl64.Vec3{-n[1] * k, n[0] * k, 0}
	}
	return p, n.Cross(p)
}

// frameFromAxis builds a rotation whose third column is z.
func frameFromAxis(z mgl64.Vec3) mgl64.Mat3 {
	x, y := planeSpace(z)
	return mgl64.Mat3FromCols(x, y, z)
}
