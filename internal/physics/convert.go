package physics

import (
	"math"
	"pxengine/internal/dynamics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

// Engine space is X right, Y up, Z forward. The backend is Z up, so engine
// (x, y, z) maps to backend (x, -z, y).

func toBackend(v rl.Vector3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v.X), float64(-v.Z), float64(v.Y)}
}

func toEngine(v mgl64.Vec3) rl.Vector3 {
	return rl.Vector3{X: float32(v[0]), Y: float32(v[2]), Z: float32(-v[1])}
}

// sidesToBackend maps full box side lengths. Extents carry no sign.
func sidesToBackend(size rl.Vector3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(float64(size.X)), math.Abs(float64(size.Z)), math.Abs(float64(size.Y))}
}

// rotationToBackend converts engine Euler degrees (rx, ry, rz) to a backend
// rotation with phi = rx, theta = rz, psi = ry.
func rotationToBackend(deg rl.Vector3) mgl64.Mat3 {
	return dynamics.RFromEulerAngles(
		mgl64.DegToRad(float64(deg.X)),
		mgl64.DegToRad(float64(deg.Z)),
		mgl64.DegToRad(float64(deg.Y)),
	)
}

// rotationToEngine reads Euler degrees back from r. The engine Z angle is
// the backend's middle angle, so it only comes back as given while
// |Z| < 90. Past that an equivalent triple is returned.
func rotationToEngine(r mgl64.Mat3) rl.Vector3 {
	phi, theta, psi := dynamics.EulerAngles(r)
	return rl.Vector3{
		X: float32(mgl64.RadToDeg(phi)),
		Y: float32(mgl64.RadToDeg(psi)),
		Z: float32(mgl64.RadToDeg(theta)),
	}
}
