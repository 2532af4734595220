package physics

import (
	"fmt"
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld(DefaultConfig())
	t.Cleanup(w.Destroy)
	return w
}

// expectFatal runs fn with fatalf recording instead of exiting and returns
// the message, or "" if fatalf was never called.
func expectFatal(t *testing.T, fn func()) string {
	t.Helper()
	orig := fatalf
	defer func() { fatalf = orig }()

	var msg string
	fatalf = func(format string, args ...any) {
		msg = fmt.Sprintf(format, args...)
	}
	fn()
	return msg
}

func near32(a, b, tol float32) bool {
	return float32(math.Abs(float64(a-b))) <= tol
}

func vecNear(a, b rl.Vector3, tol float32) bool {
	return near32(a.X, b.X, tol) && near32(a.Y, b.Y, tol) && near32(a.Z, b.Z, tol)
}

func vec(x, y, z float32) rl.Vector3 {
	return rl.Vector3{X: x, Y: y, Z: z}
}

// floor is a static slab whose top face sits at y = 0.
func floor(w *World) *Body {
	return w.CreateStatic(Box, vec(0, -0.5, 0), vec(0, 0, 0), vec(20, 1, 20))
}
