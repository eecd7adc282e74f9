// Package bd propagates particle positions through time using the
// velocities of the hydrodynamic solver: an explicit Euler scheme on
// the overdamped equation of motion, with optional thermal noise
// supplied by the solver itself.
package bd

import (
	"context"
	"fmt"
	"math"

	"github.com/sdlab/stokesd/internal/stokes"
)

type Driver struct {
	solver *stokes.Solver
	radii  []float64
	forces []float64
}

// New wires a driver to a solver with fixed radii and constant
// external forces/torques.
func New(solver *stokes.Solver, radii, forces []float64) (*Driver, error) {
	n := solver.NumParticles()
	if len(radii) != n {
		return nil, fmt.Errorf("bd: got %d radii, want %d", len(radii), n)
	}
	if len(forces) != 6*n {
		return nil, fmt.Errorf("bd: got %d force components, want %d", len(forces), 6*n)
	}
	return &Driver{solver: solver, radii: radii, forces: forces}, nil
}

type Config struct {
	Dt    float64
	Steps int

	// KT sets the thermal energy; zero runs deterministic dynamics.
	KT   float64
	Seed uint64

	Flags stokes.Flags

	// ValidateState aborts the run when a position goes NaN or Inf.
	ValidateState bool
}

type Result struct {
	Times      []float64
	Positions  [][]float64 // 3N per recorded step, including step zero
	Velocities [][]float64 // 6N per taken step
	StepsTaken int
}

func (d *Driver) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("bd: dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Steps < 1 {
		return fmt.Errorf("bd: steps must be at least 1, got %d", cfg.Steps)
	}
	if cfg.KT < 0 {
		return fmt.Errorf("bd: kT must not be negative, got %g", cfg.KT)
	}
	return nil
}

// Run integrates cfg.Steps Euler steps from pos0 and records the full
// trajectory. The step counter feeds the solver's random stream, so a
// rerun with the same seed reproduces the trajectory exactly.
func (d *Driver) Run(ctx context.Context, pos0 []float64, cfg Config) (*Result, error) {
	result := &Result{
		Times:      make([]float64, 0, cfg.Steps+1),
		Positions:  make([][]float64, 0, cfg.Steps+1),
		Velocities: make([][]float64, 0, cfg.Steps),
	}

	err := d.RunWithCallback(ctx, pos0, cfg, func(pos, vel []float64, t float64) bool {
		result.Times = append(result.Times, t)
		result.Positions = append(result.Positions, clone(pos))
		if vel != nil {
			result.Velocities = append(result.Velocities, clone(vel))
			result.StepsTaken++
		}
		return true
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// RunWithCallback integrates and hands every state to the callback:
// first the initial state with vel == nil, then each step's new
// positions with the velocities that produced them. Returning false
// stops the run early without error.
func (d *Driver) RunWithCallback(ctx context.Context, pos0 []float64, cfg Config, callback func(pos, vel []float64, t float64) bool) error {
	if err := d.validateConfig(cfg); err != nil {
		return err
	}

	n := d.solver.NumParticles()
	if len(pos0) != 3*n {
		return fmt.Errorf("bd: got %d position components, want %d", len(pos0), 3*n)
	}

	var amp float64
	if cfg.KT > 0 {
		amp = math.Sqrt(cfg.KT / cfg.Dt)
	}

	pos := clone(pos0)
	t := 0.0

	if !callback(pos, nil, t) {
		return nil
	}

	for step := 0; step < cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		vel, err := d.solver.Velocities(stokes.Request{
			Positions:        pos,
			Radii:            d.radii,
			Forces:           d.forces,
			ThermalAmplitude: amp,
			Offset:           uint64(step),
			Seed:             cfg.Seed,
			Flags:            cfg.Flags,
		})
		if err != nil {
			return fmt.Errorf("bd: step %d: %w", step, err)
		}

		// Spheres: only the translational components move the centers.
		for p := 0; p < n; p++ {
			pos[3*p+0] += vel[6*p+0] * cfg.Dt
			pos[3*p+1] += vel[6*p+1] * cfg.Dt
			pos[3*p+2] += vel[6*p+2] * cfg.Dt
		}
		t += cfg.Dt

		if cfg.ValidateState && !isFinite(pos) {
			return fmt.Errorf("bd: non-finite position at t=%.4f", t)
		}

		if !callback(pos, vel, t) {
			return nil
		}
	}

	return nil
}

func clone(x []float64) []float64 {
	c := make([]float64, len(x))
	copy(c, x)
	return c
}

func isFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
