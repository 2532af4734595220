package physics

import (
	"math"
	"testing"
)

func TestTargetDistance(t *testing.T) {
	tests := []struct {
		a, b [3]float32
		want float32
	}{
		{[3]float32{0, 0, 0}, [3]float32{2, 2, 2}, 2},
		{[3]float32{0, 0, 0}, [3]float32{1, 8, 1}, 2},
		{[3]float32{1, 1, 1}, [3]float32{-1, -1, 3}, 2},
		// sharing a coordinate collapses the product
		{[3]float32{0, 0, 0}, [3]float32{0, 10, 10}, 0},
	}
	for _, tt := range tests {
		got := targetDistance(vec(tt.a[0], tt.a[1], tt.a[2]), vec(tt.b[0], tt.b[1], tt.b[2]))
		if !near32(got, tt.want, 1e-5) {
			t.Errorf("Expected distance %f between %v and %v, got %f", tt.want, tt.a, tt.b, got)
		}
	}
}

func TestRaySetGet(t *testing.T) {
	w := newTestWorld(t)
	r := NewRay(w, 5)
	if r.Length() != 5 {
		t.Errorf("Expected length 5, got %f", r.Length())
	}

	r.Set(vec(1, 2, 3), vec(0, 0, 2))
	origin, dir := r.Get()
	if !vecNear(origin, vec(1, 2, 3), 1e-6) {
		t.Errorf("Expected origin (1,2,3), got %v", origin)
	}
	if !vecNear(dir, vec(0, 0, 1), 1e-6) {
		t.Errorf("Expected unit direction (0,0,1), got %v", dir)
	}

	r.Set(vec(0, 0, 0), vec(1, 1, 0))
	s := float32(1 / math.Sqrt2)
	if d := r.Direction(); !vecNear(d, vec(s, s, 0), 1e-6) {
		t.Errorf("Expected diagonal direction, got %v", d)
	}
}

func TestRayTargetsKeepDuplicates(t *testing.T) {
	w := newTestWorld(t)
	r := NewRay(w, 5)
	b := w.CreateStatic(Box, vec(1, 1, 1), vec(0, 0, 0), vec(1, 1, 1))

	r.AddTarget(b)
	r.AddTarget(b)
	r.AddTarget(nil)
	if n := len(r.Targets()); n != 2 {
		t.Errorf("Expected 2 targets, got %d", n)
	}
	r.ClearTargets()
	if n := len(r.Targets()); n != 0 {
		t.Errorf("Expected 0 targets, got %d", n)
	}
}

func TestRayNearest(t *testing.T) {
	w := newTestWorld(t)
	r := NewRay(w, 5)
	r.Set(vec(0, 0, 0), vec(0, 0, 1))

	far := w.CreateStatic(Box, vec(3, 3, 3), vec(0, 0, 0), vec(1, 1, 1))
	mid := w.CreateStatic(Box, vec(2, 2, 2), vec(0, 0, 0), vec(1, 1, 1))
	closest := w.CreateStatic(Box, vec(1, 1, 1), vec(0, 0, 0), vec(1, 1, 1))

	if _, ok := r.Nearest(); ok {
		t.Error("Expected no nearest target on an empty ray")
	}

	r.AddTarget(far)
	r.AddTarget(closest)
	r.AddTarget(mid)

	// collection order is preserved
	if r.Targets()[0].Body != far || r.Targets()[2].Body != mid {
		t.Error("Expected targets in collection order")
	}

	nearest, ok := r.Nearest()
	if !ok || nearest.Body != closest {
		t.Errorf("Expected the closest box, got %+v", nearest)
	}
	if !near32(nearest.Distance, 1, 1e-5) {
		t.Errorf("Expected distance 1, got %f", nearest.Distance)
	}

	sorted := r.Sorted()
	if sorted[0].Body != closest || sorted[1].Body != mid || sorted[2].Body != far {
		t.Error("Expected Sorted to order by distance")
	}
	if r.Targets()[0].Body != far {
		t.Error("Sorted must not reorder the collected targets")
	}
}

func TestRaySkipsRemovedTargets(t *testing.T) {
	w := newTestWorld(t)
	r := NewRay(w, 5)
	r.Set(vec(0, 0, 0), vec(0, 0, 1))

	closest := w.CreateStatic(Box, vec(1, 1, 1), vec(0, 0, 0), vec(1, 1, 1))
	far := w.CreateStatic(Box, vec(3, 3, 3), vec(0, 0, 0), vec(1, 1, 1))
	r.AddTarget(closest)
	r.AddTarget(far)

	w.Remove(closest.ID())

	if n := len(r.Targets()); n != 2 {
		t.Errorf("Expected removed bodies to stay listed until the next collect, got %d", n)
	}
	nearest, ok := r.Nearest()
	if !ok || nearest.Body != far {
		t.Errorf("Expected the remaining box, got %+v", nearest)
	}
	if sorted := r.Sorted(); len(sorted) != 1 || sorted[0].Body != far {
		t.Errorf("Expected only the remaining box in Sorted, got %d targets", len(sorted))
	}

	w.Remove(far.ID())
	if _, ok := r.Nearest(); ok {
		t.Error("Expected no nearest target once every body is removed")
	}
}

func TestRayNeverResponds(t *testing.T) {
	w := newTestWorld(t)
	r := NewRay(w, 10)
	r.Set(vec(0, 5, 0), vec(0, -1, 0))
	b := w.CreateRigid(Box, vec(0, 0, 0), vec(0, 0, 0), vec(1, 1, 1), 1)

	cfg := w.Config()
	w.Step()
	if s := w.Stats(); s.Pairs != 1 || s.Contacts != 0 {
		t.Errorf("Expected the ray pair to be skipped, got %+v", s)
	}
	want := float32(cfg.Gravity * cfg.Timestep)
	if v := b.Velocity().Y; !near32(v, want, 1e-5) {
		t.Errorf("Expected free fall velocity %f, got %f", want, v)
	}

	r.Collect()
	if n := len(r.Targets()); n != 1 {
		t.Errorf("Expected the ray to collect 1 target, got %d", n)
	}
}

func TestRayFree(t *testing.T) {
	w := newTestWorld(t)
	r := NewRay(w, 1)
	r.Free()
	if w.space.NumGeoms() != 0 {
		t.Errorf("Expected the probe geometry to be destroyed, got %d geoms", w.space.NumGeoms())
	}
}
