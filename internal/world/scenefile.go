package world

import (
	"fmt"
	"log"
	"os"
	"pxengine/internal/components"
	"pxengine/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

// SceneFile is the on-disk scene layout. Each component is a property map
// with a "type" key naming a registered component.
type SceneFile struct {
	Objects []ObjectDef `yaml:"objects"`
	Player  *PlayerDef  `yaml:"player,omitempty"`
}

type ObjectDef struct {
	Name       string           `yaml:"name"`
	Tags       []string         `yaml:"tags,omitempty"`
	Position   [3]float32       `yaml:"position,flow"`
	Rotation   [3]float32       `yaml:"rotation,flow"`
	Scale      [3]float32       `yaml:"scale,flow"`
	Components []map[string]any `yaml:"components"`
}

type PlayerDef struct {
	Position [3]float32 `yaml:"position,flow"`
	Yaw      float32    `yaml:"yaw"`
}

// LoadScene reads a scene file and adds its objects to the world.
func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}
	return w.LoadSceneData(data)
}

// LoadSceneData adds the objects described by data. Objects are started
// once all of them are in the scene.
func (w *World) LoadSceneData(data []byte) error {
	var sf SceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}

	loaded := make([]*engine.GameObject, 0, len(sf.Objects))
	for _, objDef := range sf.Objects {
		g := engine.NewGameObject(objDef.Name)
		g.Tags = objDef.Tags
		g.Transform.Position = vec3(objDef.Position)
		g.Transform.Rotation = vec3(objDef.Rotation)

		// Default scale to 1 if zero
		if objDef.Scale != [3]float32{} {
			g.Transform.Scale = vec3(objDef.Scale)
		}

		for _, props := range objDef.Components {
			name, _ := engine.PropString(props, "type")
			c := engine.CreateComponent(name, props)
			if c == nil {
				log.Printf("Scene: %s: unknown component %q, skipping", objDef.Name, name)
				continue
			}
			g.AddComponent(c)
		}

		w.Scene.AddGameObject(g)
		loaded = append(loaded, g)
	}

	for _, g := range loaded {
		g.Start()
	}

	if sf.Player != nil {
		w.SpawnPlayer(vec3(sf.Player.Position), sf.Player.Yaw)
	}
	return nil
}

// SaveScene writes every object except the player.
func (w *World) SaveScene(path string) error {
	data, err := w.MarshalScene()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

func (w *World) MarshalScene() ([]byte, error) {
	var sf SceneFile

	for _, g := range w.Scene.GameObjects {
		// Skip player (code-managed)
		if engine.GetComponent[*components.CharacterController](g) != nil {
			pos := g.Transform.Position
			yaw := float32(0)
			if fps := engine.GetComponent[*components.FPSController](g); fps != nil {
				yaw = fps.Yaw
			}
			sf.Player = &PlayerDef{Position: [3]float32{pos.X, pos.Y, pos.Z}, Yaw: yaw}
			continue
		}

		objDef := ObjectDef{
			Name:     g.Name,
			Tags:     g.Tags,
			Position: [3]float32{g.Transform.Position.X, g.Transform.Position.Y, g.Transform.Position.Z},
			Rotation: [3]float32{g.Transform.Rotation.X, g.Transform.Rotation.Y, g.Transform.Rotation.Z},
			Scale:    [3]float32{g.Transform.Scale.X, g.Transform.Scale.Y, g.Transform.Scale.Z},
		}
		for _, c := range g.Components() {
			if s, ok := c.(engine.Serializable); ok {
				objDef.Components = append(objDef.Components, s.Serialize())
			}
		}
		sf.Objects = append(sf.Objects, objDef)
	}

	data, err := yaml.Marshal(sf)
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return data, nil
}

func vec3(v [3]float32) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}
