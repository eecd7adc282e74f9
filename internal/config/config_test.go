package config

import (
	"path/filepath"
	"testing"

	"github.com/sdlab/stokesd/internal/stokes"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	cfg := &Config{
		Viscosity: 2.5,
		Dt:        0.002,
		Steps:     50,
		KT:        0.3,
		Seed:      7,
		FTS:       true,
		Particles: []ParticleConfig{
			{Position: [3]float64{1, 2, 3}, Radius: 0.5, Force: [3]float64{0, 0, -1}, Torque: [3]float64{1, 0, 0}},
		},
	}

	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Viscosity != cfg.Viscosity || loaded.Dt != cfg.Dt || loaded.Steps != cfg.Steps {
		t.Errorf("scalars did not survive roundtrip: %+v", loaded)
	}
	if len(loaded.Particles) != 1 {
		t.Fatalf("expected 1 particle, got %d", len(loaded.Particles))
	}
	if loaded.Particles[0] != cfg.Particles[0] {
		t.Errorf("particle did not survive roundtrip: %+v", loaded.Particles[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFlags(t *testing.T) {
	cfg := &Config{SelfMobility: true, Lubrication: true}
	want := stokes.SelfMobility | stokes.Lubrication
	if got := cfg.Flags(); got != want {
		t.Errorf("Flags() = %b, want %b", got, want)
	}

	full := DefaultConfig()
	if got := full.Flags(); got != stokes.DefaultFlags {
		t.Errorf("default Flags() = %b, want %b", got, stokes.DefaultFlags)
	}
}

func TestArrays(t *testing.T) {
	cfg := &Config{
		Particles: []ParticleConfig{
			{Position: [3]float64{1, 2, 3}, Radius: 0.5, Force: [3]float64{4, 5, 6}, Torque: [3]float64{7, 8, 9}},
			{Position: [3]float64{-1, -2, -3}, Radius: 2},
		},
	}

	pos, radii, forces := cfg.Arrays()

	wantPos := []float64{1, 2, 3, -1, -2, -3}
	for i := range wantPos {
		if pos[i] != wantPos[i] {
			t.Errorf("pos[%d] = %g, want %g", i, pos[i], wantPos[i])
		}
	}
	if radii[0] != 0.5 || radii[1] != 2 {
		t.Errorf("radii = %v", radii)
	}
	wantForces := []float64{4, 5, 6, 7, 8, 9, 0, 0, 0, 0, 0, 0}
	for i := range wantForces {
		if forces[i] != wantForces[i] {
			t.Errorf("forces[%d] = %g, want %g", i, forces[i], wantForces[i])
		}
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Viscosity: 1, Dt: 0.01, Steps: 10,
		Particles: []ParticleConfig{{Radius: 1}},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero viscosity", func(c *Config) { c.Viscosity = 0 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"no particles", func(c *Config) { c.Particles = nil }},
		{"bad radius", func(c *Config) { c.Particles = []ParticleConfig{{Radius: -1}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			cfg.Particles = append([]ParticleConfig(nil), valid.Particles...)
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPresetsAreValid(t *testing.T) {
	if len(Presets) == 0 {
		t.Fatal("no presets defined")
	}
	for name, cfg := range Presets {
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
}

func TestGetPreset(t *testing.T) {
	if GetPreset("pair") == nil {
		t.Error("pair preset missing")
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset must return nil")
	}
	if len(ListPresets()) != len(Presets) {
		t.Error("ListPresets must cover all presets")
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	mutated := GetPreset("pair")
	mutated.Dt = 99
	mutated.Particles[0].Radius = 99

	fresh := GetPreset("pair")
	if fresh.Dt == 99 {
		t.Error("scalar override leaked into the shared preset")
	}
	if fresh.Particles[0].Radius == 99 {
		t.Error("particle override leaked into the shared preset")
	}
}
