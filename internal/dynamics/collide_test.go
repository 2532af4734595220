package dynamics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-6

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func nearVec(a, b mgl64.Vec3, tol float64) bool {
	return near(a[0], b[0], tol) && near(a[1], b[1], tol) && near(a[2], b[2], tol)
}

func TestCollideBoxRestingOnBox(t *testing.T) {
	space := NewSpace()
	ground := space.CreateBox(10, 10, 1)
	crate := space.CreateBox(1, 1, 1)
	crate.SetPosition(mgl64.Vec3{0, 0, 0.95})

	contacts := Collide(crate, ground, 8)
	if len(contacts) != 4 {
		t.Fatalf("Expected 4 contacts, got %d", len(contacts))
	}
	for _, c := range contacts {
		if !nearVec(c.Normal, mgl64.Vec3{0, 0, 1}, eps) {
			t.Errorf("Expected normal (0,0,1), got %v", c.Normal)
		}
		if !near(c.Depth, 0.05, eps) {
			t.Errorf("Expected depth 0.05, got %f", c.Depth)
		}
		if c.G1 != crate || c.G2 != ground {
			t.Error("Contact geoms not set in argument order")
		}
	}

	swapped := Collide(ground, crate, 8)
	if len(swapped) == 0 || !nearVec(swapped[0].Normal, mgl64.Vec3{0, 0, -1}, eps) {
		t.Errorf("Expected swapped normal (0,0,-1), got %v", swapped)
	}
}

func TestCollideBoxBoxRespectsMax(t *testing.T) {
	space := NewSpace()
	ground := space.CreateBox(10, 10, 1)
	crate := space.CreateBox(1, 1, 1)
	crate.SetPosition(mgl64.Vec3{0, 0, 0.95})

	if n := len(Collide(crate, ground, 2)); n != 2 {
		t.Errorf("Expected 2 contacts, got %d", n)
	}
}

func TestCollideBoxBoxSeparated(t *testing.T) {
	space := NewSpace()
	a := space.CreateBox(1, 1, 1)
	b := space.CreateBox(1, 1, 1)
	b.SetPosition(mgl64.Vec3{1.5, 0, 0})

	if contacts := Collide(a, b, 8); len(contacts) != 0 {
		t.Errorf("Expected no contacts, got %d", len(contacts))
	}
}

func TestCollideBoxBoxRotated(t *testing.T) {
	space := NewSpace()
	a := space.CreateBox(1, 1, 1)
	b := space.CreateBox(1, 1, 1)
	b.SetRotation(RFromEulerAngles(0, 0, math.Pi/4))

	// a 45 degree turn reaches sqrt(0.5) along X
	b.SetPosition(mgl64.Vec3{1.15, 0, 0})
	if contacts := Collide(a, b, 8); len(contacts) == 0 {
		t.Error("Expected rotated boxes to touch")
	}
	b.SetPosition(mgl64.Vec3{1.25, 0, 0})
	if contacts := Collide(a, b, 8); len(contacts) != 0 {
		t.Errorf("Expected rotated boxes apart, got %d contacts", len(contacts))
	}
}

func TestCollideCapsuleOnBox(t *testing.T) {
	space := NewSpace()
	floor := space.CreateBox(2, 2, 2)
	capsule := space.CreateCapsule(0.3, 1.0)
	capsule.SetPosition(mgl64.Vec3{0, 0, 1.7})

	contacts := Collide(capsule, floor, 8)
	if len(contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(contacts))
	}
	c := contacts[0]
	if !nearVec(c.Normal, mgl64.Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("Expected normal (0,0,1), got %v", c.Normal)
	}
	if !near(c.Depth, 0.1, 1e-6) {
		t.Errorf("Expected depth 0.1, got %f", c.Depth)
	}
	if !nearVec(c.Pos, mgl64.Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("Expected contact on box top, got %v", c.Pos)
	}

	flipped := Collide(floor, capsule, 8)
	if len(flipped) != 1 || !nearVec(flipped[0].Normal, mgl64.Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("Expected flipped normal (0,0,-1), got %v", flipped)
	}
}

func TestCollideCapsuleAboveBox(t *testing.T) {
	space := NewSpace()
	floor := space.CreateBox(2, 2, 2)
	capsule := space.CreateCapsule(0.3, 1.0)
	capsule.SetPosition(mgl64.Vec3{0, 0, 2})

	if contacts := Collide(capsule, floor, 8); len(contacts) != 0 {
		t.Errorf("Expected no contacts, got %d", len(contacts))
	}
}

func TestCollideCapsuleInsideWall(t *testing.T) {
	space := NewSpace()
	wall := space.CreateBox(1, 10, 4)
	wall.SetPosition(mgl64.Vec3{1, 0, 2})
	capsule := space.CreateCapsule(0.3, 1.2)
	capsule.SetPosition(mgl64.Vec3{1, 0, 0.9})

	contacts := Collide(capsule, wall, 8)
	if len(contacts) != 2 {
		t.Fatalf("Expected 2 contacts, got %d", len(contacts))
	}
	for _, c := range contacts {
		if math.Abs(c.Normal[2]) > 0.1 {
			t.Errorf("Expected horizontal normal, got %v", c.Normal)
		}
		if !near(c.Depth, 0.8, 1e-6) {
			t.Errorf("Expected depth 0.8, got %f", c.Depth)
		}
	}
}

func TestCollideCapsuleBesideWall(t *testing.T) {
	space := NewSpace()
	wall := space.CreateBox(1, 10, 4)
	wall.SetPosition(mgl64.Vec3{1, 0, 2})
	capsule := space.CreateCapsule(0.3, 1.2)
	capsule.SetPosition(mgl64.Vec3{0.3, 0, 0.9})

	contacts := Collide(capsule, wall, 8)
	if len(contacts) == 0 {
		t.Fatal("Expected contacts against the wall")
	}
	for _, c := range contacts {
		if !nearVec(c.Normal, mgl64.Vec3{-1, 0, 0}, 1e-6) {
			t.Errorf("Expected normal (-1,0,0), got %v", c.Normal)
		}
		if !near(c.Depth, 0.1, 1e-6) {
			t.Errorf("Expected depth 0.1, got %f", c.Depth)
		}
	}
}

func TestCollideCapsuleCapsule(t *testing.T) {
	space := NewSpace()
	a := space.CreateCapsule(0.3, 1)
	b := space.CreateCapsule(0.3, 1)
	b.SetPosition(mgl64.Vec3{0.5, 0, 0})

	contacts := Collide(a, b, 8)
	if len(contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(contacts))
	}
	if !nearVec(contacts[0].Normal, mgl64.Vec3{-1, 0, 0}, eps) {
		t.Errorf("Expected normal (-1,0,0), got %v", contacts[0].Normal)
	}
	if !near(contacts[0].Depth, 0.1, eps) {
		t.Errorf("Expected depth 0.1, got %f", contacts[0].Depth)
	}

	b.SetPosition(mgl64.Vec3{0.7, 0, 0})
	if contacts := Collide(a, b, 8); len(contacts) != 0 {
		t.Errorf("Expected no contacts, got %d", len(contacts))
	}
}

func TestCollideRayBox(t *testing.T) {
	space := NewSpace()
	target := space.CreateBox(2, 2, 2)
	ray := space.CreateRay(10)
	ray.RaySet(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1})

	contacts := Collide(ray, target, 1)
	if len(contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(contacts))
	}
	c := contacts[0]
	if !near(c.Depth, 4, eps) {
		t.Errorf("Expected hit distance 4, got %f", c.Depth)
	}
	if !nearVec(c.Pos, mgl64.Vec3{0, 0, 1}, eps) {
		t.Errorf("Expected hit at (0,0,1), got %v", c.Pos)
	}
	if !nearVec(c.Normal, mgl64.Vec3{0, 0, 1}, eps) {
		t.Errorf("Expected normal (0,0,1), got %v", c.Normal)
	}

	ray.SetRayLength(3)
	if contacts := Collide(ray, target, 1); len(contacts) != 0 {
		t.Errorf("Expected short ray to miss, got %d contacts", len(contacts))
	}
}

func TestCollideRayStartsInsideBox(t *testing.T) {
	space := NewSpace()
	target := space.CreateBox(2, 2, 2)
	ray := space.CreateRay(10)
	ray.RaySet(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0})

	contacts := Collide(ray, target, 1)
	if len(contacts) != 1 || !near(contacts[0].Depth, 1, eps) {
		t.Fatalf("Expected exit hit at distance 1, got %v", contacts)
	}
}

func TestCollideRayCapsule(t *testing.T) {
	space := NewSpace()
	target := space.CreateCapsule(0.5, 2)
	ray := space.CreateRay(10)
	ray.RaySet(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{1, 0, 0})

	contacts := Collide(ray, target, 1)
	if len(contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(contacts))
	}
	if !near(contacts[0].Depth, 4.5, eps) {
		t.Errorf("Expected hit distance 4.5, got %f", contacts[0].Depth)
	}
	if !nearVec(contacts[0].Normal, mgl64.Vec3{-1, 0, 0}, eps) {
		t.Errorf("Expected normal (-1,0,0), got %v", contacts[0].Normal)
	}

	// straight down onto the top cap
	ray.RaySet(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1})
	contacts = Collide(ray, target, 1)
	if len(contacts) != 1 || !near(contacts[0].Depth, 3.5, eps) {
		t.Errorf("Expected cap hit at distance 3.5, got %v", contacts)
	}
}

func TestCollideRayRay(t *testing.T) {
	space := NewSpace()
	a := space.CreateRay(10)
	b := space.CreateRay(10)
	if contacts := Collide(a, b, 1); contacts != nil {
		t.Errorf("Expected rays never to collide, got %v", contacts)
	}
}
