package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

func TestAxisMapping(t *testing.T) {
	got := toBackend(vec(1, 2, 3))
	if got != (mgl64.Vec3{1, -3, 2}) {
		t.Errorf("Expected (1,-3,2), got %v", got)
	}
	if back := toEngine(got); back != vec(1, 2, 3) {
		t.Errorf("Expected (1,2,3) back, got %v", back)
	}

	// engine up is backend up
	if up := toBackend(vec(0, 1, 0)); up != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("Expected +Y to map to +Z, got %v", up)
	}
}

func TestSidesToBackend(t *testing.T) {
	got := sidesToBackend(vec(-2, 3, -4))
	if got != (mgl64.Vec3{2, 4, 3}) {
		t.Errorf("Expected (2,4,3), got %v", got)
	}
}

func TestRotationConversionRoundTrip(t *testing.T) {
	tests := []struct{ x, y, z float32 }{
		{0, 0, 0},
		{30, 0, 0},
		{0, 45, 0},
		{0, 0, -60},
		{10, 20, 30},
	}
	for _, tt := range tests {
		in := vec(tt.x, tt.y, tt.z)
		out := rotationToEngine(rotationToBackend(in))
		if !vecNear(in, out, 1e-3) {
			t.Errorf("Expected rotation %v back, got %v", in, out)
		}
	}
}

func TestRotationPastZLimit(t *testing.T) {
	tests := []rl.Vector3{
		vec(0, 0, 120),
		vec(45, 0, 95),
		vec(10, 30, -100),
	}
	for _, in := range tests {
		out := rotationToEngine(rotationToBackend(in))
		if vecNear(in, out, 1e-3) {
			t.Errorf("Expected %v to come back as a different triple, got the same", in)
		}
		if out.Z <= -90 || out.Z >= 90 {
			t.Errorf("Expected Z within (-90,90), got %v", out)
		}
		if !rotationToBackend(out).ApproxEqualThreshold(rotationToBackend(in), 1e-5) {
			t.Errorf("Expected %v and %v to be the same orientation", in, out)
		}
	}
}
