package physics

import (
	"math"
	"pxengine/internal/dynamics"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Target is a body hit by a Ray during a collection pass.
type Target struct {
	Body     *Body
	Distance float32
}

// Ray is a geometry-only probe. It never receives a collision response and
// only gathers targets when Collect runs.
type Ray struct {
	world   *World
	geom    *dynamics.Geom
	targets []Target
}

// NewRay creates a probe of fixed length at the origin pointing along
// engine +Y.
func NewRay(w *World, length float32) *Ray {
	return &Ray{
		world:   w,
		geom:    w.space.CreateRay(float64(length)),
		targets: make([]Target, 0, 4),
	}
}

// Set moves the ray to origin, pointing along dir.
func (r *Ray) Set(origin, dir rl.Vector3) {
	r.geom.RaySet(toBackend(origin), toBackend(dir))
}

// Get returns the origin and unit direction.
func (r *Ray) Get() (origin, dir rl.Vector3) {
	o, d := r.geom.RayGet()
	return toEngine(o), toEngine(d)
}

func (r *Ray) Origin() rl.Vector3 {
	o, _ := r.Get()
	return o
}

func (r *Ray) Direction() rl.Vector3 {
	_, d := r.Get()
	return d
}

func (r *Ray) Length() float32 { return float32(r.geom.RayLength()) }

func (r *Ray) Geom() *dynamics.Geom { return r.geom }

// targetDistance is cbrt(|dx*dy*dz|). It is zero whenever the two points
// share a coordinate, so it only roughly ranks targets.
func targetDistance(a, b rl.Vector3) float32 {
	d := rl.Vector3Subtract(a, b)
	return float32(math.Cbrt(math.Abs(float64(d.X) * float64(d.Y) * float64(d.Z))))
}

// AddTarget records b at its distance from the ray origin. Duplicates are
// kept.
func (r *Ray) AddTarget(b *Body) {
	if b == nil {
		return
	}
	r.targets = append(r.targets, Target{
		Body:     b,
		Distance: targetDistance(r.Origin(), b.Position()),
	})
}

func (r *Ray) ClearTargets() {
	r.targets = r.targets[:0]
}

// Targets returns the targets in the order they were collected. Bodies
// removed from the world since the last Collect are still listed.
func (r *Ray) Targets() []Target { return r.targets }

// live reports whether t's body is still registered in the world.
func (r *Ray) live(t Target) bool {
	return r.world.FindByID(t.Body.ID()) == t.Body
}

// Nearest returns the live target with the smallest distance, the earliest
// one on ties, or false when there are none.
func (r *Ray) Nearest() (Target, bool) {
	var best Target
	found := false
	for _, t := range r.targets {
		if !r.live(t) {
			continue
		}
		if !found || t.Distance < best.Distance {
			best = t
			found = true
		}
	}
	return best, found
}

// Sorted returns a copy of the live targets ordered by distance.
func (r *Ray) Sorted() []Target {
	out := make([]Target, 0, len(r.targets))
	for _, t := range r.targets {
		if r.live(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// Collect clears the targets and adds one entry per contact between the ray
// and any body not attached to an excluded geom.
func (r *Ray) Collect(exclude ...*dynamics.Geom) {
	r.ClearTargets()
	r.world.space.CollideGeom(r.geom, func(_, other *dynamics.Geom) {
		for _, g := range exclude {
			if other == g {
				return
			}
		}
		body := r.world.FindByGeometry(other)
		if body == nil {
			return
		}
		for range dynamics.Collide(r.geom, other, r.world.cfg.MaxContacts) {
			r.AddTarget(body)
		}
	})
}

// Free destroys the probe geometry.
func (r *Ray) Free() {
	r.geom.Destroy()
	r.targets = nil
}
