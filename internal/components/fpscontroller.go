package components

import (
	"math"
	"pxengine/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("FPSController", func() engine.Serializable {
		return NewFPSController()
	})
}

const DefaultLookSensitivity = 130.0

// FPSController holds the first-person view direction. Yaw and pitch are in
// degrees; yaw 0 looks along +X.
type FPSController struct {
	engine.BaseComponent
	Yaw         float32
	Pitch       float32
	Sensitivity float32
	EyeHeight   float32 // above the feet
}

func NewFPSController() *FPSController {
	return &FPSController{
		Sensitivity: DefaultLookSensitivity,
		EyeHeight:   1.7,
	}
}

// Look turns the view by a mouse delta. Yaw wraps past a full turn and
// pitch is clamped short of straight up or down.
func (f *FPSController) Look(dx, dy float32) {
	f.Yaw += dx * f.Sensitivity
	f.Pitch -= dy * f.Sensitivity

	if f.Yaw > 360 {
		f.Yaw -= 360
	}
	if f.Yaw < -360 {
		f.Yaw += 360
	}
	if f.Pitch > 89 {
		f.Pitch = 89
	}
	if f.Pitch < -89 {
		f.Pitch = -89
	}
}

// GetLookDirection returns the unit view direction.
func (f *FPSController) GetLookDirection() rl.Vector3 {
	yawRad := float64(f.Yaw) * math.Pi / 180
	pitchRad := float64(f.Pitch) * math.Pi / 180
	return rl.Vector3{
		X: float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}
}

// EyePosition returns the view origin for the GameObject's feet position.
func (f *FPSController) EyePosition() rl.Vector3 {
	g := f.GetGameObject()
	if g == nil {
		return rl.Vector3{Y: f.EyeHeight}
	}
	p := g.Transform.Position
	p.Y += f.EyeHeight
	return p
}

func (f *FPSController) TypeName() string {
	return "FPSController"
}

func (f *FPSController) Serialize() map[string]any {
	return map[string]any{
		"type":        "FPSController",
		"yaw":         f.Yaw,
		"pitch":       f.Pitch,
		"sensitivity": f.Sensitivity,
		"eyeHeight":   f.EyeHeight,
	}
}

func (f *FPSController) Deserialize(data map[string]any) {
	if v, ok := engine.PropFloat(data, "yaw"); ok {
		f.Yaw = v
	}
	if v, ok := engine.PropFloat(data, "pitch"); ok {
		f.Pitch = v
	}
	if v, ok := engine.PropFloat(data, "sensitivity"); ok {
		f.Sensitivity = v
	}
	if v, ok := engine.PropFloat(data, "eyeHeight"); ok {
		f.EyeHeight = v
	}
}
