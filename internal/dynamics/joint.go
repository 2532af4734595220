package dynamics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SurfaceMode selects which optional Surface fields apply.
type SurfaceMode uint

const (
	SurfaceMu2 SurfaceMode = 1 << iota
	SurfaceBounce
	SurfaceSoftERP
	SurfaceSoftCFM
)

// Infinity is an unbounded friction coefficient.
var Infinity = math.Inf(1)

// Surface describes how two touching geoms respond to each other.
type Surface struct {
	Mode      SurfaceMode
	Mu        float64 // friction along the first tangent, and the second unless SurfaceMu2
	Mu2       float64
	Bounce    float64 // restitution, 0..1
	BounceVel float64 // minimum approach speed for restitution
	SoftERP   float64
	SoftCFM   float64
}

// Contact pairs a surface with the geometric contact it applies to.
type Contact struct {
	Surface Surface
	Geom    ContactGeom
}

// ContactJoint constrains two bodies at one contact point for one step.
type ContactJoint struct {
	contact Contact
	b1, b2  *Body
	group   *JointGroup

	// solver scratch
	r1, r2   mgl64.Vec3
	t1, t2   mgl64.Vec3
	nMass    float64
	t1Mass   float64
	t2Mass   float64
	softness float64
	bias     float64
	bounce   float64
	mu1, mu2 float64
	jnAcc    float64
	jBias    float64
	jt1Acc   float64
	jt2Acc   float64
}

// Attach binds the joint to b1 and b2. Either may be nil for the static
// environment.
func (j *ContactJoint) Attach(b1, b2 *Body) {
	j.b1, j.b2 = b1, b2
}

func (j *ContactJoint) Bodies() (*Body, *Body) { return j.b1, j.b2 }

func (j *ContactJoint) Contact() Contact { return j.contact }

// JointGroup owns contact joints until it is emptied.
type JointGroup struct {
	world  *World
	joints []*ContactJoint
}

func NewJointGroup() *JointGroup {
	return &JointGroup{joints: make([]*ContactJoint, 0)}
}

// CreateContactJoint adds a contact joint to group. The joint takes part in
// every QuickStep of w until the group is emptied.
func (w *World) CreateContactJoint(group *JointGroup, c Contact) *ContactJoint {
	if group.world != nil && group.world != w {
		w.message(MsgUserAssert, "joint group belongs to another world")
		return nil
	}
	group.world = w
	w.addGroup(group)
	j := &ContactJoint{contact: c, group: group}
	group.joints = append(group.joints, j)
	return j
}

func (g *JointGroup) Len() int { return len(g.joints) }

// Empty destroys every joint in the group.
func (g *JointGroup) Empty() {
	for i := range g.joints {
		g.joints[i] = nil
	}
	g.joints = g.joints[:0]
}

// Destroy empties the group and detaches it from its world.
func (g *JointGroup) Destroy() {
	g.Empty()
	if g.world != nil {
		g.world.removeGroup(g)
		g.world = nil
	}
}
