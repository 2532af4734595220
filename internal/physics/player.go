package physics

import (
	"math"
	"pxengine/internal/dynamics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// a contact normal must be strictly steeper than this to count as floor
	// or ceiling
	groundNormal = 0.7
	// a contact normal flatter than this counts as wall
	wallNormal = 0.1
	// wall contacts must be this far above the feet
	footClearance = 0.1

	DefaultInteractRange = 3.0
)

// Player is a kinematic capsule with an interaction ray. Positions passed
// to and from a Player are at its feet.
type Player struct {
	world  *World
	body   *Body
	ray    *Ray
	height float32
	radius float32

	grounded bool
	ceiled   bool
	nearWall bool
}

// NewPlayer creates a capsule width wide and height tall standing at
// position.
func NewPlayer(w *World, position, rotation rl.Vector3, width, height float32) *Player {
	radius := width / 2
	length := height - 2*radius
	if length < 0 {
		length = 0
	}
	p := &Player{
		world:  w,
		height: height,
		radius: radius,
	}
	center := p.center(position)
	p.body = w.CreateKinematic(Capsule, center, rotation, rl.Vector3{X: radius, Y: length})
	p.ray = NewRay(w, DefaultInteractRange)
	p.ray.Set(center, rl.Vector3{Z: 1})
	return p
}

func (p *Player) center(feet rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: feet.X, Y: feet.Y + p.height/2, Z: feet.Z}
}

func (p *Player) Body() *Body { return p.body }
func (p *Player) Ray() *Ray   { return p.ray }

func (p *Player) Height() float32 { return p.height }
func (p *Player) Radius() float32 { return p.radius }

func (p *Player) Grounded() bool { return p.grounded }
func (p *Player) Ceiled() bool   { return p.ceiled }

// NearWall reports whether the last Translate was blocked on any axis.
func (p *Player) NearWall() bool { return p.nearWall }

// Position returns the feet position.
func (p *Player) Position() rl.Vector3 {
	c := p.body.Position()
	c.Y -= p.height / 2
	return c
}

func (p *Player) SetPosition(feet rl.Vector3) {
	p.body.SetPosition(p.center(feet))
}

// SetInteractRay aims the interaction ray.
func (p *Player) SetInteractRay(origin, dir rl.Vector3) {
	p.ray.Set(origin, dir)
}

// InteractTarget returns the nearest body the ray hit during the last Update.
func (p *Player) InteractTarget() (Target, bool) {
	return p.ray.Nearest()
}

// Update recomputes the grounded and ceiled flags from the capsule's current
// contacts and refills the interaction ray targets.
func (p *Player) Update() {
	p.grounded = false
	p.ceiled = false

	geom := p.body.geom
	p.world.space.CollideGeom(geom, func(g, other *dynamics.Geom) {
		if other.Class() == dynamics.RayClass {
			return
		}
		for _, c := range dynamics.Collide(g, other, p.world.cfg.MaxContacts) {
			ground, ceil := verticalContact(c.Normal[2])
			p.grounded = p.grounded || ground
			p.ceiled = p.ceiled || ceil
		}
	})

	p.ray.Collect(geom)
}

// Translate returns how much of delta the capsule may move without walking
// into a wall. X is tested first, then Z with the accepted X, so the player
// slides along walls. Y is passed through. The capsule is left where it was.
func (p *Player) Translate(delta rl.Vector3) rl.Vector3 {
	orig := p.body.geom.Position()
	allowed := delta

	blockedX := p.blockedAt(orig, rl.Vector3{X: delta.X})
	if blockedX {
		allowed.X = 0
	}
	blockedZ := p.blockedAt(orig, rl.Vector3{X: allowed.X, Z: delta.Z})
	if blockedZ {
		allowed.Z = 0
	}

	p.body.geom.SetPosition(orig)
	p.nearWall = blockedX || blockedZ
	return allowed
}

// Move translates by delta and commits the allowed displacement.
func (p *Player) Move(delta rl.Vector3) rl.Vector3 {
	allowed := p.Translate(delta)
	p.body.SetPosition(rl.Vector3Add(p.body.Position(), allowed))
	return allowed
}

// blockedAt places the capsule at orig+offset and reports whether it touches
// a wall there. The capsule is restored before returning.
func (p *Player) blockedAt(orig mgl64.Vec3, offset rl.Vector3) bool {
	test := orig.Add(toBackend(offset))
	geom := p.body.geom
	geom.SetPosition(test)
	defer geom.SetPosition(orig)

	foot := test[2] - float64(p.height)/2
	blocked := false
	p.world.space.CollideGeom(geom, func(g, other *dynamics.Geom) {
		if blocked || other.Class() == dynamics.RayClass {
			return
		}
		for _, c := range dynamics.Collide(g, other, p.world.cfg.MaxContacts) {
			if isWall(c, foot) {
				blocked = true
				return
			}
		}
	})
	return blocked
}

// verticalContact classifies a contact by the vertical part of its normal.
// A normal of exactly groundNormal is neither floor nor ceiling.
func verticalContact(nz float64) (ground, ceil bool) {
	return nz > groundNormal, nz < -groundNormal
}

func isWall(c dynamics.ContactGeom, foot float64) bool {
	return math.Abs(c.Normal[2]) < wallNormal && c.Pos[2]-foot > footClearance
}

// Destroy removes the capsule and frees the ray.
func (p *Player) Destroy() {
	p.world.Remove(p.body.id)
	p.ray.Free()
}
