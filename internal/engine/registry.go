package engine

import (
	"fmt"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Serializable is a component that can be written to and read from a scene
// file as a flat property map.
type Serializable interface {
	Component
	TypeName() string
	Serialize() map[string]any
	Deserialize(data map[string]any)
}

// ComponentFactory returns a component with default settings.
type ComponentFactory func() Serializable

var componentRegistry = map[string]ComponentFactory{}

// RegisterComponent makes a component type loadable by name. Registering a
// name twice panics.
func RegisterComponent(name string, factory ComponentFactory) {
	if _, exists := componentRegistry[name]; exists {
		panic(fmt.Sprintf("component %q already registered", name))
	}
	componentRegistry[name] = factory
}

// CreateComponent builds a registered component and applies props over its
// defaults. It returns nil for unknown names.
func CreateComponent(name string, props map[string]any) Serializable {
	factory, ok := componentRegistry[name]
	if !ok {
		return nil
	}
	c := factory()
	if props != nil {
		c.Deserialize(props)
	}
	return c
}

// RegisteredComponents returns the registered names in sorted order.
func RegisteredComponents() []string {
	names := make([]string, 0, len(componentRegistry))
	for name := range componentRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PropFloat reads a number from props. Scene files decode numbers as int or
// float64 depending on how they were written.
func PropFloat(props map[string]any, key string) (float32, bool) {
	return toFloat(props[key])
}

func PropBool(props map[string]any, key string) (bool, bool) {
	v, ok := props[key].(bool)
	return v, ok
}

func PropString(props map[string]any, key string) (string, bool) {
	v, ok := props[key].(string)
	return v, ok
}

// PropVec3 reads a three element list.
func PropVec3(props map[string]any, key string) (rl.Vector3, bool) {
	var list []float32
	switch raw := props[key].(type) {
	case []any:
		for _, item := range raw {
			f, ok := toFloat(item)
			if !ok {
				return rl.Vector3{}, false
			}
			list = append(list, f)
		}
	case []float32:
		list = raw
	case [3]float32:
		list = raw[:]
	default:
		return rl.Vector3{}, false
	}
	if len(list) != 3 {
		return rl.Vector3{}, false
	}
	return rl.Vector3{X: list[0], Y: list[1], Z: list[2]}, true
}

// Vec3Prop is the inverse of PropVec3.
func Vec3Prop(v rl.Vector3) []float32 {
	return []float32{v.X, v.Y, v.Z}
}

func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	}
	return 0, false
}
