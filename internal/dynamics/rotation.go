package dynamics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RFromEulerAngles builds a rotation matrix from Euler angles in radians:
// phi about X, theta about Y, psi about Z.
func RFromEulerAngles(phi, theta, psi float64) mgl64.Mat3 {
	sphi, cphi := math.Sincos(phi)
	stheta, ctheta := math.Sincos(theta)
	spsi, cpsi := math.Sincos(psi)

	return mgl64.Mat3FromRows(
		mgl64.Vec3{cpsi * ctheta, spsi * ctheta, -stheta},
		mgl64.Vec3{cpsi*stheta*sphi - spsi*cphi, spsi*stheta*sphi + cpsi*cphi, ctheta * sphi},
		mgl64.Vec3{cpsi*stheta*cphi + spsi*sphi, spsi*stheta*cphi - cpsi*sphi, ctheta * cphi},
	)
}

// EulerAngles is the inverse of RFromEulerAngles for |theta| < pi/2.
func EulerAngles(r mgl64.Mat3) (phi, theta, psi float64) {
	phi = math.Atan2(r.At(1, 2), r.At(2, 2))
	theta = math.Atan2(-r.At(0, 2), math.Hypot(r.At(1, 2), r.At(2, 2)))
	psi = math.Atan2(r.At(0, 1), r.At(0, 0))
	return phi, theta, psi
}
