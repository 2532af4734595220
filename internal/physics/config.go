package physics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGravity    = -9.81
	DefaultTimestep   = 1.0 / 60.0
	MaxContacts       = 8
	DefaultMaxBodies  = 128
	DefaultIterations = 100
	DefaultERP        = 0.2
	DefaultCFM        = 1e-5

	// DefaultGPUThreshold is the minimum geom count before the GPU pair
	// finder is used. Below this the spatial hash is faster.
	DefaultGPUThreshold = 750
	DefaultCellSize     = 4.0
)

// Config holds the simulation constants. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	Gravity      float64 `yaml:"gravity"`
	Timestep     float64 `yaml:"timestep"`
	MaxContacts  int     `yaml:"max_contacts"`
	MaxBodies    int     `yaml:"max_bodies"`
	Iterations   int     `yaml:"iterations"`
	ERP          float64 `yaml:"erp"`
	CFM          float64 `yaml:"cfm"`
	GPUThreshold int     `yaml:"gpu_threshold"`
	CellSize     float64 `yaml:"cell_size"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:      DefaultGravity,
		Timestep:     DefaultTimestep,
		MaxContacts:  MaxContacts,
		MaxBodies:    DefaultMaxBodies,
		Iterations:   DefaultIterations,
		ERP:          DefaultERP,
		CFM:          DefaultCFM,
		GPUThreshold: DefaultGPUThreshold,
		CellSize:     DefaultCellSize,
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read physics config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse physics config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("physics config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first setting the simulation cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Timestep <= 0:
		return fmt.Errorf("timestep must be positive, got %g", c.Timestep)
	case c.MaxContacts < 1:
		return fmt.Errorf("max_contacts must be at least 1, got %d", c.MaxContacts)
	case c.MaxBodies < 1:
		return fmt.Errorf("max_bodies must be at least 1, got %d", c.MaxBodies)
	case c.Iterations < 1:
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	case c.CellSize <= 0:
		return fmt.Errorf("cell_size must be positive, got %g", c.CellSize)
	}
	return nil
}
