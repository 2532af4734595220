package physics

import (
	"pxengine/internal/dynamics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// blockingSurface is used for contacts involving a kinematic body. Those
// contacts are reported but never solved.
var blockingSurface = dynamics.Surface{
	Mode:      dynamics.SurfaceBounce | dynamics.SurfaceSoftERP | dynamics.SurfaceSoftCFM,
	Mu:        0,
	Bounce:    0.001,
	BounceVel: 0.001,
	SoftERP:   0.15,
	SoftCFM:   0.02,
}

// rigidSurface is used between rigid bodies and against static geometry.
var rigidSurface = dynamics.Surface{
	Mode:      dynamics.SurfaceBounce | dynamics.SurfaceSoftERP | dynamics.SurfaceSoftCFM,
	Mu:        dynamics.Infinity,
	Bounce:    0.1,
	BounceVel: 0.1,
	SoftERP:   0.2,
	SoftCFM:   0.001,
}

type pairClass int

const (
	pairRejected pairClass = iota
	pairKinematic
	pairRigid
)

// classify decides how a broad-phase pair is handled. Probes, pairs sharing
// a body and pairs with no body on either side get no response.
func classify(g1, g2 *dynamics.Geom) pairClass {
	if g1.Class() == dynamics.RayClass || g2.Class() == dynamics.RayClass {
		return pairRejected
	}
	b1, b2 := g1.Body(), g2.Body()
	if b1 == b2 {
		return pairRejected
	}
	if (b1 != nil && b1.IsKinematic()) || (b2 != nil && b2.IsKinematic()) {
		return pairKinematic
	}
	return pairRigid
}

// Contact is one contact point found during a step, in engine space. Normal
// points from B toward A.
type Contact struct {
	A, B      BodyID
	Position  rl.Vector3
	Normal    rl.Vector3
	Depth     float32
	Kinematic bool

	// Surface is the response profile applied to the contact. Kinematic
	// contacts carry it without a joint.
	Surface dynamics.Surface
}

func contactFromGeom(c dynamics.ContactGeom, a, b BodyID, kinematic bool) Contact {
	surface := rigidSurface
	if kinematic {
		surface = blockingSurface
	}
	return Contact{
		A:         a,
		B:         b,
		Position:  toEngine(c.Pos),
		Normal:    toEngine(c.Normal),
		Depth:     float32(c.Depth),
		Kinematic: kinematic,
		Surface:   surface,
	}
}

// StepStats counts what the last Step did.
type StepStats struct {
	Pairs              int  // broad-phase pairs visited
	Contacts           int  // contact points generated
	Constraints        int  // contact joints handed to the solver
	KinematicContacts  int  // contacts reported without a joint
	SuppressedMessages int  // backend solver notices dropped
	GPU                bool // broad-phase ran on the GPU
}

// ContactListener is told when two bodies start and stop touching.
type ContactListener interface {
	ContactEnter(c Contact)
	ContactExit(a, b BodyID)
}

type bodyPair struct {
	A, B BodyID
}

func makePair(a, b BodyID) bodyPair {
	if a > b {
		a, b = b, a
	}
	return bodyPair{A: a, B: b}
}
