package dynamics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis selectors for CapsuleMass.
const (
	AxisX = 1
	AxisY = 2
	AxisZ = 3
)

// Mass is a total mass and the inertia tensor about the center of mass,
// expressed in the body frame.
type Mass struct {
	Mass float64
	I    mgl64.Mat3
}

func unitMass() Mass {
	return BoxMass(1, 1, 1, 1)
}

// BoxMass returns the mass of a solid box with full side lengths lx, ly, lz
// scaled so the total equals total.
func BoxMass(total, lx, ly, lz float64) Mass {
	k := total / 12
	return Mass{
		Mass: total,
		I: mgl64.Diag3(mgl64.Vec3{
			k * (ly*ly + lz*lz),
			k * (lx*lx + lz*lz),
			k * (lx*lx + ly*ly),
		}),
	}
}

// CapsuleMass returns the mass of a solid capsule whose cylinder of the given
// length runs along direction (AxisX, AxisY or AxisZ), scaled to total.
func CapsuleMass(total float64, direction int, radius, length float64) Mass {
	r2 := radius * radius
	cyl := math.Pi * r2 * length
	caps := 4.0 / 3.0 * math.Pi * r2 * radius
	density := total / (cyl + caps)
	m1 := cyl * density
	m2 := caps * density

	along := (m1*0.5 + m2*0.4) * r2
	across := m1*(0.25*r2+length*length/12) + m2*(0.4*r2+0.375*radius*length+0.25*length*length)

	d := mgl64.Vec3{across, across, across}
	switch direction {
	case AxisX:
		d[0] = along
	case AxisY:
		d[1] = along
	default:
		d[2] = along
	}
	return Mass{Mass: total, I: mgl64.Diag3(d)}
}

func (m Mass) valid() bool {
	return m.Mass > 0 && !math.IsInf(m.Mass, 0) && !math.IsNaN(m.Mass)
}
