package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sdlab/stokesd/internal/stokes"
)

const (
	DefaultViscosity = 1.0
	DefaultDt        = 0.01
	DefaultSteps     = 100
	DefaultRadius    = 1.0
)

type Config struct {
	Viscosity float64 `yaml:"viscosity"`
	Dt        float64 `yaml:"dt"`
	Steps     int     `yaml:"steps"`
	KT        float64 `yaml:"kt"`
	Seed      uint64  `yaml:"seed"`

	SelfMobility bool `yaml:"self_mobility"`
	PairMobility bool `yaml:"pair_mobility"`
	Lubrication  bool `yaml:"lubrication"`
	FTS          bool `yaml:"fts"`

	Particles []ParticleConfig `yaml:"particles"`
}

type ParticleConfig struct {
	Position [3]float64 `yaml:"position"`
	Radius   float64    `yaml:"radius"`
	Force    [3]float64 `yaml:"force"`
	Torque   [3]float64 `yaml:"torque"`
}

func DefaultConfig() *Config {
	return &Config{
		Viscosity:    DefaultViscosity,
		Dt:           DefaultDt,
		Steps:        DefaultSteps,
		SelfMobility: true,
		PairMobility: true,
		Lubrication:  true,
		FTS:          true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Viscosity <= 0 {
		return fmt.Errorf("config: viscosity must be positive, got %g", c.Viscosity)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Steps < 1 {
		return fmt.Errorf("config: steps must be at least 1, got %d", c.Steps)
	}
	if len(c.Particles) == 0 {
		return fmt.Errorf("config: no particles defined")
	}
	for i, p := range c.Particles {
		if p.Radius <= 0 {
			return fmt.Errorf("config: particle %d has non-positive radius %g", i, p.Radius)
		}
	}
	return nil
}

// Flags maps the boolean switches onto the solver's stage flags.
func (c *Config) Flags() stokes.Flags {
	var f stokes.Flags
	if c.SelfMobility {
		f |= stokes.SelfMobility
	}
	if c.PairMobility {
		f |= stokes.PairMobility
	}
	if c.Lubrication {
		f |= stokes.Lubrication
	}
	if c.FTS {
		f |= stokes.FTS
	}
	return f
}

// Arrays flattens the particle list into the packed slices the solver
// consumes: 3N positions, N radii, 6N force+torque components.
func (c *Config) Arrays() (positions, radii, forces []float64) {
	n := len(c.Particles)
	positions = make([]float64, 3*n)
	radii = make([]float64, n)
	forces = make([]float64, 6*n)

	for i, p := range c.Particles {
		copy(positions[3*i:], p.Position[:])
		radii[i] = p.Radius
		copy(forces[6*i:], p.Force[:])
		copy(forces[6*i+3:], p.Torque[:])
	}
	return positions, radii, forces
}
