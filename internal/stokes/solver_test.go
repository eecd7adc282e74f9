package stokes

import (
	"errors"
	"math"
	"testing"
)

func TestNewSolverValidation(t *testing.T) {
	if _, err := NewSolver(nil, 0, 1); !errors.Is(err, ErrViscosity) {
		t.Errorf("zero viscosity: expected ErrViscosity, got %v", err)
	}
	if _, err := NewSolver(nil, -1, 1); !errors.Is(err, ErrViscosity) {
		t.Errorf("negative viscosity: expected ErrViscosity, got %v", err)
	}
	if _, err := NewSolver(nil, 1, 0); !errors.Is(err, ErrDimension) {
		t.Errorf("zero particles: expected ErrDimension, got %v", err)
	}
}

func TestVelocitiesInputValidation(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 2)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	good := Request{
		Positions: []float64{0, 0, 0, 10, 0, 0},
		Radii:     []float64{1, 1},
		Forces:    make([]float64, 12),
		Flags:     DefaultFlags,
	}

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"short positions", func(r *Request) { r.Positions = r.Positions[:3] }},
		{"short radii", func(r *Request) { r.Radii = r.Radii[:1] }},
		{"short forces", func(r *Request) { r.Forces = r.Forces[:6] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := good
			tt.mutate(&req)
			if _, err := s.Velocities(req); !errors.Is(err, ErrDimension) {
				t.Errorf("expected ErrDimension, got %v", err)
			}
		})
	}
}

func TestStokesLaw(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 1)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	forces := make([]float64, 6)
	forces[0] = 1

	vel, err := s.Velocities(Request{
		Positions: []float64{0, 0, 0},
		Radii:     []float64{1},
		Forces:    forces,
		Flags:     DefaultFlags,
	})
	if err != nil {
		t.Fatalf("Velocities failed: %v", err)
	}

	if math.Abs(vel[0]-mob0) > 1e-12 {
		t.Errorf("ux = %g, want %g", vel[0], mob0)
	}
	for i := 1; i < 6; i++ {
		if math.Abs(vel[i]) > 1e-12 {
			t.Errorf("vel[%d] = %g, want 0", i, vel[i])
		}
	}
}

func TestStokesLawRotation(t *testing.T) {
	s, err := NewSolver(nil, 2.0, 1)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	forces := make([]float64, 6)
	forces[5] = 1 // torque about z

	vel, err := s.Velocities(Request{
		Positions: []float64{0, 0, 0},
		Radii:     []float64{0.5},
		Forces:    forces,
		Flags:     DefaultFlags,
	})
	if err != nil {
		t.Fatalf("Velocities failed: %v", err)
	}

	// 1/(8 pi eta a^3)
	want := 1 / (8 * math.Pi * 2.0 * 0.125)
	if math.Abs(vel[5]-want) > 1e-10 {
		t.Errorf("wz = %g, want %g", vel[5], want)
	}
	for i := 0; i < 5; i++ {
		if math.Abs(vel[i]) > 1e-12 {
			t.Errorf("vel[%d] = %g, want 0", i, vel[i])
		}
	}
}

// A driven sphere entrains a passive one; at separation 10 along the
// line of action the passive sphere picks up x12a = 0.149 of the bare
// mobility. Without the stresslet and lubrication stages the pipeline
// reduces to u = M*F, so the comparison is exact.
func TestTwoSphereEntrainment(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 2)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	forces := make([]float64, 12)
	forces[0] = 1

	vel, err := s.Velocities(Request{
		Positions: []float64{0, 0, 0, 10, 0, 0},
		Radii:     []float64{1, 1},
		Forces:    forces,
		Flags:     SelfMobility | PairMobility,
	})
	if err != nil {
		t.Fatalf("Velocities failed: %v", err)
	}

	if math.Abs(vel[0]-mob0) > 1e-10 {
		t.Errorf("driven ux = %g, want %g", vel[0], mob0)
	}
	if math.Abs(vel[6]-0.149*mob0) > 1e-10 {
		t.Errorf("passive ux = %g, want %g", vel[6], 0.149*mob0)
	}
	for _, i := range []int{1, 2, 3, 4, 5, 7, 8, 9, 10, 11} {
		if math.Abs(vel[i]) > 1e-10 {
			t.Errorf("vel[%d] = %g, want 0", i, vel[i])
		}
	}
}

// The full method adds stresslet corrections on top; the velocities
// shift by a few percent at most at this separation.
func TestTwoSphereFullMethod(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 2)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	forces := make([]float64, 12)
	forces[0] = 1

	vel, err := s.Velocities(Request{
		Positions: []float64{0, 0, 0, 10, 0, 0},
		Radii:     []float64{1, 1},
		Forces:    forces,
		Flags:     DefaultFlags,
	})
	if err != nil {
		t.Fatalf("Velocities failed: %v", err)
	}

	if math.Abs(vel[0]-mob0)/mob0 > 0.05 {
		t.Errorf("driven ux = %g, want within 5%% of %g", vel[0], mob0)
	}
	if math.Abs(vel[6]-0.149*mob0)/(0.149*mob0) > 0.05 {
		t.Errorf("passive ux = %g, want within 5%% of %g", vel[6], 0.149*mob0)
	}
}

func TestVelocitiesOverlapError(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 2)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	_, err = s.Velocities(Request{
		Positions: []float64{0, 0, 0, 1, 0, 0},
		Radii:     []float64{1, 1},
		Forces:    make([]float64, 12),
		Flags:     DefaultFlags,
	})
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
}

func TestVelocitiesDeterministic(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 2)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	forces := make([]float64, 12)
	forces[2] = -1
	forces[8] = -1

	req := Request{
		Positions: []float64{0, 0, 0, 0, 3, 0},
		Radii:     []float64{1, 1},
		Forces:    forces,
		Flags:     DefaultFlags,
	}

	v1, err := s.Velocities(req)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	v2, err := s.Velocities(req)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("repeated solve differs at %d: %g vs %g", i, v1[i], v2[i])
		}
	}
}

func TestThermalReproducibility(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 2)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	req := Request{
		Positions:        []float64{0, 0, 0, 0, 4, 0},
		Radii:            []float64{1, 1},
		Forces:           make([]float64, 12),
		ThermalAmplitude: 1.0,
		Offset:           7,
		Seed:             42,
		Flags:            DefaultFlags,
	}

	v1, err := s.Velocities(req)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	v2, err := s.Velocities(req)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("same key must reproduce: index %d differs", i)
		}
	}

	req.Offset = 8
	v3, err := s.Velocities(req)
	if err != nil {
		t.Fatalf("third call failed: %v", err)
	}
	same := true
	for i := range v1 {
		if v1[i] != v3[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different offset must give a different random force")
	}
}

func TestThermalZeroConsumesNoRandomness(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 1)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	forces := make([]float64, 6)
	forces[1] = 1

	base := Request{
		Positions: []float64{0, 0, 0},
		Radii:     []float64{1},
		Forces:    forces,
		Flags:     DefaultFlags,
	}

	v1, err := s.Velocities(base)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	withSeed := base
	withSeed.Seed = 99
	withSeed.Offset = 3
	v2, err := s.Velocities(withSeed)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("seed must be ignored when amplitude is zero: index %d differs", i)
		}
	}
}
