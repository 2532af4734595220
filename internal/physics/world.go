// Package physics owns every collision body of a scene, steps the
// simulation at a fixed rate, and provides the character capsule and
// interaction ray used by the player. Positions and rotations cross this
// package in engine space (Y up, Euler degrees); the dynamics backend is
// Z up.
package physics

import (
	"fmt"
	"log"
	"pxengine/internal/compute"
	"pxengine/internal/dynamics"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// fatalf ends the process on errors the engine cannot run past.
var fatalf = log.Fatalf

// maxGPUObjects is the most geoms the GPU pair finder is sized for.
const maxGPUObjects = 50000

// World is one independent simulation: a backend world, its collision
// space, the per-step contact group and the body registry.
type World struct {
	cfg Config

	world    *dynamics.World
	space    *dynamics.Space
	contacts *dynamics.JointGroup
	bodies   registry

	stats     StepStats
	report    []Contact
	touching  map[bodyPair]bool
	listeners []ContactListener
	ticks     uint64

	gpu         *compute.BroadPhase
	usingGPU    bool
	lastLogTime time.Time

	destroyed bool
}

// NewWorld creates a world with gravity pulling down the engine Y axis.
func NewWorld(cfg Config) *World {
	if err := cfg.Validate(); err != nil {
		fatalf("Physics: invalid config: %v", err)
		return nil
	}

	w := &World{
		cfg:      cfg,
		world:    dynamics.NewWorld(),
		space:    dynamics.NewSpace(),
		contacts: dynamics.NewJointGroup(),
		bodies:   newRegistry(cfg.MaxBodies),
		report:   make([]Contact, 0, 64),
		touching: make(map[bodyPair]bool),
	}
	w.world.SetGravity(0, 0, cfg.Gravity)
	w.world.SetERP(cfg.ERP)
	w.world.SetCFM(cfg.CFM)
	w.world.SetQuickStepNumIterations(cfg.Iterations)
	w.world.SetMessageHandler(w.onMessage)
	w.space.SetCellSize(cfg.CellSize)
	return w
}

// onMessage drops solver convergence notices and logs everything else.
func (w *World) onMessage(code int, msg string) {
	if code == dynamics.MsgLCP {
		w.stats.SuppressedMessages++
		return
	}
	log.Printf("Physics: backend message %d: %s", code, msg)
}

func (w *World) Config() Config { return w.cfg }

// InitGPU moves broad-phase onto the GPU once the space holds at least
// Config.GPUThreshold geoms. On error the world keeps using the spatial hash.
func (w *World) InitGPU() error {
	if w.gpu != nil {
		return nil
	}
	if _, err := compute.Initialize(); err != nil {
		return fmt.Errorf("init compute: %w", err)
	}
	bp, err := compute.NewBroadPhase(maxGPUObjects, maxGPUObjects*20)
	if err != nil {
		return fmt.Errorf("create GPU broad-phase: %w", err)
	}
	w.gpu = bp
	w.space.SetPairFinder(gpuFinder{bp: bp}, w.cfg.GPUThreshold)
	log.Printf("Physics: GPU broad-phase ready (threshold: %d geoms)", w.cfg.GPUThreshold)
	return nil
}

// UsingGPU reports whether the last step ran broad-phase on the GPU.
func (w *World) UsingGPU() bool { return w.usingGPU }

func (w *World) CreateStatic(shape Shape, position, rotation, size rl.Vector3) *Body {
	return w.create(Static, shape, position, rotation, size, 0)
}

// CreateRigid creates a simulated body whose mass is spread over its shape.
func (w *World) CreateRigid(shape Shape, position, rotation, size rl.Vector3, mass float32) *Body {
	return w.create(Rigid, shape, position, rotation, size, mass)
}

// CreateKinematic creates a body moved only by its owner. Gravity and
// contacts never act on it.
func (w *World) CreateKinematic(shape Shape, position, rotation, size rl.Vector3) *Body {
	return w.create(Kinematic, shape, position, rotation, size, 0)
}

func (w *World) create(kind Kind, shape Shape, position, rotation, size rl.Vector3, mass float32) *Body {
	if w.bodies.full() {
		fatalf("Physics: body pool exhausted (%d bodies), cannot create %s %s",
			w.bodies.capacity(), kind, shape)
		return nil
	}
	geom := w.createGeom(kind, shape, size)
	if geom == nil {
		return nil
	}

	b := &Body{kind: kind, shape: shape, size: size, mass: mass, geom: geom}
	if kind != Static {
		db := w.world.CreateBody()
		switch kind {
		case Rigid:
			db.SetMass(massOf(shape, geom, float64(mass)))
		case Kinematic:
			db.SetKinematic()
		}
		geom.SetBody(db)
		b.body = db
	}
	geom.SetPosition(toBackend(position))
	geom.SetRotation(rotationToBackend(rotation))

	w.bodies.insert(b)
	return b
}

func (w *World) createGeom(kind Kind, shape Shape, size rl.Vector3) *dynamics.Geom {
	switch shape {
	case Box:
		s := sidesToBackend(size)
		return w.space.CreateBox(s[0], s[1], s[2])
	case Capsule:
		r, l := capsuleDims(size)
		return w.space.CreateCapsule(r, l)
	}
	fatalf("Physics: unsupported shape %d for %s body", int(shape), kind)
	return nil
}

func massOf(shape Shape, geom *dynamics.Geom, mass float64) dynamics.Mass {
	if shape == Capsule {
		r, l := geom.CapsuleParams()
		return capsuleMass(mass, r, l)
	}
	return boxMass(mass, geom.BoxSides())
}

// capsuleDims reads radius from X and cylinder length from Y.
func capsuleDims(size rl.Vector3) (radius, length float64) {
	radius = float64(size.X)
	if radius < 0 {
		radius = -radius
	}
	length = float64(size.Y)
	if length < 0 {
		length = -length
	}
	return radius, length
}

// Remove frees the body with the given id. It returns false if the id is
// unknown or was already removed.
func (w *World) Remove(id BodyID) bool {
	b := w.bodies.remove(id)
	if b == nil {
		return false
	}
	if b.body != nil {
		b.geom.SetBody(nil)
		b.body.Disable()
		b.body.Destroy()
		b.body = nil
	}
	b.geom.Destroy()
	return true
}

func (w *World) FindByID(id BodyID) *Body { return w.bodies.get(id) }

// FindByGeometry maps a backend geom back to its body.
func (w *World) FindByGeometry(g *dynamics.Geom) *Body { return w.bodies.byGeometry(g) }

func (w *World) NumBodies() int { return w.bodies.len() }

// Step runs collision detection over the whole space, advances the
// simulation by one fixed timestep and drops every contact joint.
func (w *World) Step() {
	if w.destroyed {
		return
	}
	w.stats = StepStats{}
	w.report = w.report[:0]

	w.space.Collide(w.nearCallback)
	w.logBroadPhase()

	w.world.QuickStep(w.cfg.Timestep)
	w.contacts.Empty()

	w.dispatchContacts()
	w.ticks++
}

// nearCallback applies the contact policy to one broad-phase pair.
func (w *World) nearCallback(g1, g2 *dynamics.Geom) {
	w.stats.Pairs++
	class := classify(g1, g2)
	if class == pairRejected {
		return
	}

	var a, b BodyID
	if body := w.bodies.byGeometry(g1); body != nil {
		a = body.id
	}
	if body := w.bodies.byGeometry(g2); body != nil {
		b = body.id
	}

	kinematic := class == pairKinematic
	for _, c := range dynamics.Collide(g1, g2, w.cfg.MaxContacts) {
		w.stats.Contacts++
		contact := contactFromGeom(c, a, b, kinematic)
		w.report = append(w.report, contact)
		if kinematic {
			w.stats.KinematicContacts++
			continue
		}
		j := w.world.CreateContactJoint(w.contacts, dynamics.Contact{Surface: contact.Surface, Geom: c})
		j.Attach(g1.Body(), g2.Body())
		w.stats.Constraints++
	}
}

// logBroadPhase reports GPU broad-phase transitions.
func (w *World) logBroadPhase() {
	using := w.space.UsingPairFinder()
	w.stats.GPU = using
	if using && !w.usingGPU {
		log.Printf("Physics: GPU broad-phase ON (%d geoms)", w.space.NumGeoms())
	} else if !using && w.usingGPU {
		log.Printf("Physics: GPU broad-phase OFF (%d geoms)", w.space.NumGeoms())
	}
	w.usingGPU = using

	if err := w.space.PairFinderErr(); err != nil && time.Since(w.lastLogTime) >= time.Second {
		w.lastLogTime = time.Now()
		log.Printf("Physics: GPU broad-phase failed, using spatial hash: %v", err)
	}
}

func (w *World) dispatchContacts() {
	current := make(map[bodyPair]bool, len(w.touching))
	for _, c := range w.report {
		p := makePair(c.A, c.B)
		if current[p] {
			continue
		}
		current[p] = true
		if !w.touching[p] {
			for _, l := range w.listeners {
				l.ContactEnter(c)
			}
		}
	}

	var exits []bodyPair
	for p := range w.touching {
		if !current[p] {
			exits = append(exits, p)
		}
	}
	sort.Slice(exits, func(i, j int) bool {
		if exits[i].A != exits[j].A {
			return exits[i].A < exits[j].A
		}
		return exits[i].B < exits[j].B
	})
	for _, p := range exits {
		for _, l := range w.listeners {
			l.ContactExit(p.A, p.B)
		}
	}
	w.touching = current
}

// AddContactListener registers l for contact enter and exit events.
func (w *World) AddContactListener(l ContactListener) {
	w.listeners = append(w.listeners, l)
}

// Stats describes the last step.
func (w *World) Stats() StepStats { return w.stats }

// Contacts returns the contacts found by the last step. The slice is reused
// by the next step.
func (w *World) Contacts() []Contact { return w.report }

// PendingConstraints is the number of contact joints waiting for the solver.
// It is zero outside Step.
func (w *World) PendingConstraints() int { return w.contacts.Len() }

// Ticks is the number of completed steps.
func (w *World) Ticks() uint64 { return w.ticks }

// Destroy removes every remaining body, then frees the contact group, the
// space and the backend world in that order.
func (w *World) Destroy() {
	if w.destroyed {
		return
	}
	for _, id := range w.bodies.ids() {
		w.Remove(id)
	}
	w.contacts.Destroy()
	w.space.Destroy()
	w.world.Destroy()
	if w.gpu != nil {
		w.gpu.Release()
		w.gpu = nil
	}
	w.destroyed = true
}
