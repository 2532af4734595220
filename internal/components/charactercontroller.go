package components

import (
	"log"
	"pxengine/internal/engine"
	"pxengine/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("CharacterController", func() engine.Serializable {
		return NewCharacterController()
	})
}

const (
	DefaultPlayerWidth  = 0.4
	DefaultPlayerHeight = 1.8
	DefaultPlayerSpeed  = 4.0
	DefaultJumpForce    = 4.5
)

// Input is one frame of movement intent. Forward and Side are in [-1, 1];
// positive Side moves along front x up.
type Input struct {
	Forward float32
	Side    float32
	Jump    bool
}

// CharacterController walks a kinematic capsule through the physics world.
// The GameObject's position is the character's feet. View direction comes
// from an FPSController on the same GameObject when there is one.
type CharacterController struct {
	engine.BaseComponent

	Width     float32
	Height    float32
	Speed     float32
	JumpForce float32
	Gravity   float32 // signed, along Y

	// Colliding off lets the character fly through geometry along the full
	// view direction.
	Colliding bool

	// OnLand fires with the falling speed when the character touches ground.
	OnLand engine.EventWithArg[float32]

	input    Input
	velocity rl.Vector3
	moved    rl.Vector3
	player   *physics.Player
}

func NewCharacterController() *CharacterController {
	return &CharacterController{
		Width:     DefaultPlayerWidth,
		Height:    DefaultPlayerHeight,
		Speed:     DefaultPlayerSpeed,
		JumpForce: DefaultJumpForce,
		Gravity:   physics.DefaultGravity,
		Colliding: true,
	}
}

func (c *CharacterController) Start() {
	g := c.GetGameObject()
	if g.Scene == nil || g.Scene.Physics == nil {
		log.Printf("CharacterController: %s has no physics scene, skipping", g.Name)
		return
	}
	c.player = physics.NewPlayer(g.Scene.Physics, g.Transform.Position, rl.Vector3{}, c.Width, c.Height)
	g.Scene.RegisterBody(c.player.Body().ID(), g)
	c.aim()
}

// SetInput stores the intent for the next Update. A jump is consumed by
// that Update whether or not the character could jump.
func (c *CharacterController) SetInput(in Input) {
	c.input = in
}

func (c *CharacterController) Update(deltaTime float32) {
	if c.player == nil {
		return
	}
	g := c.GetGameObject()
	c.player.Update()

	motion := c.movement()
	if c.Colliding {
		c.updateVelocity(deltaTime)
	}
	motion = rl.Vector3Scale(motion, c.Speed*deltaTime)
	motion = rl.Vector3Add(motion, rl.Vector3Scale(c.velocity, deltaTime))

	if c.Colliding {
		motion = c.player.Translate(motion)
	}
	g.Transform.Position = rl.Vector3Add(g.Transform.Position, motion)
	c.player.SetPosition(g.Transform.Position)
	c.moved = motion
	c.input.Jump = false
	c.aim()
}

// movement returns the unit horizontal direction the input asks for, or
// zero without input.
func (c *CharacterController) movement() rl.Vector3 {
	if c.input.Forward == 0 && c.input.Side == 0 {
		return rl.Vector3{}
	}
	front := c.front()
	if c.Colliding {
		front.Y = 0
	}
	side := rl.Vector3CrossProduct(front, rl.Vector3{Y: 1})

	move := rl.Vector3Add(rl.Vector3Scale(front, c.input.Forward), rl.Vector3Scale(side, c.input.Side))
	if rl.Vector3Length(move) == 0 {
		return rl.Vector3{}
	}
	return rl.Vector3Normalize(move)
}

// updateVelocity applies jump and gravity. Standing on ground cancels
// falling and a ceiling cancels rising.
func (c *CharacterController) updateVelocity(deltaTime float32) {
	switch {
	case c.player.Grounded():
		if c.input.Jump {
			c.velocity.Y = c.JumpForce
		}
		if c.velocity.Y < 0 {
			c.OnLand.Invoke(-c.velocity.Y)
			c.velocity.Y = 0
		}
		return
	case c.player.Ceiled():
		if c.velocity.Y > 0 {
			c.velocity.Y = 0
		}
	}
	c.velocity.Y += c.Gravity * deltaTime
}

func (c *CharacterController) front() rl.Vector3 {
	if fps := engine.GetComponent[*FPSController](c.GetGameObject()); fps != nil {
		return fps.GetLookDirection()
	}
	return rl.Vector3{Z: 1}
}

// aim points the interaction ray from the eye along the view direction.
func (c *CharacterController) aim() {
	g := c.GetGameObject()
	eye := g.Transform.Position
	eye.Y += c.Height - 0.1
	if fps := engine.GetComponent[*FPSController](g); fps != nil {
		eye = fps.EyePosition()
	}
	c.player.SetInteractRay(eye, c.front())
}

// Player returns the physics capsule, or nil before Start.
func (c *CharacterController) Player() *physics.Player { return c.player }

func (c *CharacterController) IsGrounded() bool {
	return c.player != nil && c.player.Grounded()
}

func (c *CharacterController) IsCeiled() bool {
	return c.player != nil && c.player.Ceiled()
}

func (c *CharacterController) NearWall() bool {
	return c.player != nil && c.player.NearWall()
}

// GetVelocity returns the vertical velocity state. Horizontal motion is
// not carried between frames.
func (c *CharacterController) GetVelocity() rl.Vector3 {
	return c.velocity
}

// SetVelocityY sets the vertical velocity, for launch pads and the like.
func (c *CharacterController) SetVelocityY(vy float32) {
	c.velocity.Y = vy
}

// LastMove returns the displacement applied by the last Update.
func (c *CharacterController) LastMove() rl.Vector3 {
	return c.moved
}

func (c *CharacterController) OnDestroy() {
	if c.player == nil {
		return
	}
	g := c.GetGameObject()
	if g.Scene != nil {
		g.Scene.UnregisterBody(c.player.Body().ID())
	}
	c.player.Destroy()
	c.player = nil
}

// TypeName implements engine.Serializable
func (c *CharacterController) TypeName() string {
	return "CharacterController"
}

// Serialize implements engine.Serializable
func (c *CharacterController) Serialize() map[string]any {
	return map[string]any{
		"type":      "CharacterController",
		"width":     c.Width,
		"height":    c.Height,
		"speed":     c.Speed,
		"jumpForce": c.JumpForce,
		"gravity":   c.Gravity,
		"colliding": c.Colliding,
	}
}

// Deserialize implements engine.Serializable
func (c *CharacterController) Deserialize(data map[string]any) {
	if v, ok := engine.PropFloat(data, "width"); ok {
		c.Width = v
	}
	if v, ok := engine.PropFloat(data, "height"); ok {
		c.Height = v
	}
	if v, ok := engine.PropFloat(data, "speed"); ok {
		c.Speed = v
	}
	if v, ok := engine.PropFloat(data, "jumpForce"); ok {
		c.JumpForce = v
	}
	if v, ok := engine.PropFloat(data, "gravity"); ok {
		c.Gravity = v
	}
	if v, ok := engine.PropBool(data, "colliding"); ok {
		c.Colliding = v
	}
}
