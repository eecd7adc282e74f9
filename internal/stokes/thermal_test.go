package stokes

import (
	"math"
	"testing"
)

func TestPhiloxDeterministic(t *testing.T) {
	a := philox2x64([2]uint64{1, 2}, 3)
	b := philox2x64([2]uint64{1, 2}, 3)
	if a != b {
		t.Fatal("same counter and key must give the same output")
	}

	if philox2x64([2]uint64{1, 2}, 3) == philox2x64([2]uint64{1, 3}, 3) {
		t.Error("counter change must change the output")
	}
	if philox2x64([2]uint64{1, 2}, 3) == philox2x64([2]uint64{1, 2}, 4) {
		t.Error("key change must change the output")
	}
}

func TestUniform01Range(t *testing.T) {
	for index := uint64(0); index < 1000; index++ {
		u := uniform01(42, 0, index)
		if u <= 0 || u >= 1 {
			t.Fatalf("uniform01 at index %d = %g, want (0,1)", index, u)
		}
	}
}

func TestUniform01Moments(t *testing.T) {
	const n = 20000
	var sum, sumSq float64
	for index := uint64(0); index < n; index++ {
		u := uniform01(7, 11, index)
		sum += u
		sumSq += u * u
	}
	mean := sum / n
	variance := sumSq/n - mean*mean

	if math.Abs(mean-0.5) > 0.01 {
		t.Errorf("mean = %g, want ~0.5", mean)
	}
	// uniform variance is 1/12
	if math.Abs(variance-1.0/12) > 0.005 {
		t.Errorf("variance = %g, want ~%g", variance, 1.0/12)
	}
}

// Fluctuation-dissipation: with amplitude sqrt(kT/dt) the velocity
// covariance is 2*kT/dt*M. For a single sphere M is diagonal, mob0 on
// the translations and 0.75*mob0 on the rotations.
func TestThermalVelocityCovariance(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 1)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	req := Request{
		Positions:        []float64{0, 0, 0},
		Radii:            []float64{1},
		Forces:           make([]float64, 6),
		ThermalAmplitude: 1.0,
		Seed:             7,
		Flags:            DefaultFlags,
	}

	const draws = 2000
	var sum, sumSq [6]float64
	var sumXY float64
	for k := 0; k < draws; k++ {
		req.Offset = uint64(k)
		vel, err := s.Velocities(req)
		if err != nil {
			t.Fatalf("draw %d failed: %v", k, err)
		}
		for i := 0; i < 6; i++ {
			sum[i] += vel[i]
			sumSq[i] += vel[i] * vel[i]
		}
		sumXY += vel[0] * vel[1]
	}

	for i := 0; i < 6; i++ {
		mean := sum[i] / draws
		variance := sumSq[i]/draws - mean*mean

		want := 2 * mob0
		if i >= 3 {
			want = 2 * 0.75 * mob0
		}
		if math.Abs(mean) > 0.05 {
			t.Errorf("dof %d: mean = %g, want ~0", i, mean)
		}
		if math.Abs(variance-want) > 0.15*want {
			t.Errorf("dof %d: variance = %g, want ~%g", i, variance, want)
		}
	}

	cov := sumXY/draws - (sum[0]/draws)*(sum[1]/draws)
	if math.Abs(cov) > 0.1*2*mob0 {
		t.Errorf("cross covariance = %g, want ~0", cov)
	}
}

func TestUniform01StreamsIndependent(t *testing.T) {
	// offset and index enter through different counter words and must
	// not alias
	if uniform01(1, 2, 3) == uniform01(1, 3, 2) {
		t.Error("swapping offset and index must change the value")
	}
}
