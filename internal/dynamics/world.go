// Package dynamics is the Z-up rigid body backend: a world of bodies, a
// collision space of geoms, narrow-phase contact generation, contact joint
// groups and an iterative quick-step solver.
//
// Nothing in here knows about engine axes. Callers convert at the boundary.
package dynamics

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
)

// Message codes passed to a World's MessageHandler.
const (
	MsgUnknown        = 0
	MsgInternalAssert = 1
	MsgUserAssert     = 2
	MsgLCP            = 3 // solver did not converge within the iteration budget
)

// MessageHandler receives backend diagnostics.
type MessageHandler func(code int, msg string)

// Defaults for a freshly created world.
const (
	DefaultERP        = 0.2
	DefaultCFM        = 1e-5
	DefaultIterations = 20

	// convergenceTolerance is the largest impulse change allowed in the final
	// solver iteration before MsgLCP is reported.
	convergenceTolerance = 1e-4
)

type World struct {
	gravity    mgl64.Vec3
	erp        float64
	cfm        float64
	iterations int

	bodies []*Body
	groups []*JointGroup

	handler MessageHandler
}

func NewWorld() *World {
	return &World{
		erp:        DefaultERP,
		cfm:        DefaultCFM,
		iterations: DefaultIterations,
		bodies:     make([]*Body, 0),
	}
}

func (w *World) SetGravity(x, y, z float64) { w.gravity = mgl64.Vec3{x, y, z} }
func (w *World) Gravity() mgl64.Vec3 { return w.gravity }

// SetERP sets the global error reduction parameter used by contacts without
// SurfaceSoftERP.
func (w *World) SetERP(erp float64) { w.erp = erp }
func (w *World) ERP() float64 { return w.erp }

// SetCFM sets the global constraint force mixing used by contacts without
// SurfaceSoftCFM.
func (w *World) SetCFM(cfm float64) { w.cfm = cfm }
func (w *World) CFM() float64 { return w.cfm }

func (w *World) SetQuickStepNumIterations(n int) {
	if n < 1 {
		w.message(MsgUserAssert, "quick step iterations must be positive, got %d", n)
		return
	}
	w.iterations = n
}

func (w *World) QuickStepNumIterations() int { return w.iterations }

// SetMessageHandler installs h for this world. A nil handler logs everything.
func (w *World) SetMessageHandler(h MessageHandler) { w.handler = h }

func (w *World) message(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if w.handler != nil {
		w.handler(code, msg)
		return
	}
	log.Printf("dynamics: message %d: %s", code, msg)
}

// NumBodies returns the number of live bodies in the world.
func (w *World) NumBodies() int { return len(w.bodies) }

// CreateBody adds an enabled, non-kinematic body with unit mass at the origin.
func (w *World) CreateBody() *Body {
	b := &Body{
		world:   w,
		q:       mgl64.QuatIdent(),
		mass:    unitMass(),
		enabled: true,
	}
	w.bodies = append(w.bodies, b)
	return b
}

func (w *World) removeBody(b *Body) {
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

func (w *World) addGroup(g *JointGroup) {
	for _, other := range w.groups {
		if other == g {
			return
		}
	}
	w.groups = append(w.groups, g)
}

func (w *World) removeGroup(g *JointGroup) {
	for i, other := range w.groups {
		if other == g {
			w.groups = append(w.groups[:i], w.groups[i+1:]...)
			return
		}
	}
}

// Destroy frees every remaining body. Joint groups must be destroyed first.
func (w *World) Destroy() {
	if len(w.groups) > 0 {
		w.message(MsgUserAssert, "world destroyed with %d joint groups still attached", len(w.groups))
		for _, g := range append([]*JointGroup(nil), w.groups...) {
			g.Destroy()
		}
	}
	for _, b := range append([]*Body(nil), w.bodies...) {
		b.Destroy()
	}
}
