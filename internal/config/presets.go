package config

// Presets are ready-to-run particle scenes.
var Presets = map[string]*Config{
	// One driven sphere entrains a passive neighbor across the gap.
	"pair": {
		Viscosity: 1.0, Dt: 0.01, Steps: 500,
		SelfMobility: true, PairMobility: true, Lubrication: true, FTS: true,
		Particles: []ParticleConfig{
			{Position: [3]float64{0, 0, 0}, Radius: 1, Force: [3]float64{1, 0, 0}},
			{Position: [3]float64{0, 10, 0}, Radius: 1, Force: [3]float64{0, 0, 0}},
		},
	},
	// Near-contact pair where lubrication dominates.
	"doublet": {
		Viscosity: 1.0, Dt: 0.001, Steps: 1000,
		SelfMobility: true, PairMobility: true, Lubrication: true, FTS: true,
		Particles: []ParticleConfig{
			{Position: [3]float64{0, 0, 0}, Radius: 1, Force: [3]float64{0, 0, -1}},
			{Position: [3]float64{2.05, 0, 0}, Radius: 1, Force: [3]float64{0, 0, -1}},
		},
	},
	// Vertical chain settling under identical forces.
	"sediment": {
		Viscosity: 1.0, Dt: 0.01, Steps: 500,
		SelfMobility: true, PairMobility: true, Lubrication: true, FTS: true,
		Particles: []ParticleConfig{
			{Position: [3]float64{0, 0, 0}, Radius: 1, Force: [3]float64{0, 0, -1}},
			{Position: [3]float64{0, 0, 4}, Radius: 1, Force: [3]float64{0, 0, -1}},
			{Position: [3]float64{0, 0, 8}, Radius: 1, Force: [3]float64{0, 0, -1}},
			{Position: [3]float64{0, 0, 12}, Radius: 1, Force: [3]float64{0, 0, -1}},
		},
	},
	// 2x2x2 cube of unequal spheres, thermalized.
	"lattice": {
		Viscosity: 1.0, Dt: 0.005, Steps: 200, KT: 0.1, Seed: 42,
		SelfMobility: true, PairMobility: true, Lubrication: true, FTS: true,
		Particles: []ParticleConfig{
			{Position: [3]float64{0, 0, 0}, Radius: 1},
			{Position: [3]float64{5, 0, 0}, Radius: 0.5},
			{Position: [3]float64{0, 5, 0}, Radius: 1},
			{Position: [3]float64{5, 5, 0}, Radius: 0.5},
			{Position: [3]float64{0, 0, 5}, Radius: 0.5},
			{Position: [3]float64{5, 0, 5}, Radius: 1},
			{Position: [3]float64{0, 5, 5}, Radius: 0.5},
			{Position: [3]float64{5, 5, 5}, Radius: 1},
		},
	},
}

// GetPreset returns a copy of the named preset, so callers can apply
// overrides without altering the shared definition.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.Particles = append([]ParticleConfig(nil), cfg.Particles...)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
