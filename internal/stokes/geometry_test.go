package stokes

import (
	"errors"
	"math"
	"testing"
)

func TestPairGeometry(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 2)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	geo, err := s.pairGeometry([]float64{0, 0, 0, 3, 4, 0}, []float64{1, 1})
	if err != nil {
		t.Fatalf("pairGeometry failed: %v", err)
	}

	if len(geo) != 1 {
		t.Fatalf("expected 1 pair record, got %d", len(geo))
	}
	if math.Abs(geo[0].r-5) > 1e-14 {
		t.Errorf("distance = %g, want 5", geo[0].r)
	}
	want := [3]float64{0.6, 0.8, 0}
	for i := 0; i < 3; i++ {
		if math.Abs(geo[0].e[i]-want[i]) > 1e-14 {
			t.Errorf("e[%d] = %g, want %g", i, geo[0].e[i], want[i])
		}
	}
}

func TestPairGeometryOverlap(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 3)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	// particles 0 and 2 separated by 1.5 with contact distance 2
	pos := []float64{0, 0, 0, 10, 0, 0, 1.5, 0, 0}
	_, err = s.pairGeometry(pos, []float64{1, 1, 1})
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}

	var oe *OverlapError
	if !errors.As(err, &oe) {
		t.Fatalf("expected *OverlapError, got %T", err)
	}
	if oe.I != 0 || oe.J != 2 {
		t.Errorf("overlap reported for pair (%d,%d), want (0,2)", oe.I, oe.J)
	}
	if math.Abs(oe.Distance-1.5) > 1e-14 {
		t.Errorf("Distance = %g, want 1.5", oe.Distance)
	}
	if oe.Contact != 2 {
		t.Errorf("Contact = %g, want 2", oe.Contact)
	}
}

func TestPairGeometryContactCountsAsOverlap(t *testing.T) {
	s, err := NewSolver(nil, 1.0, 2)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	_, err = s.pairGeometry([]float64{0, 0, 0, 2, 0, 0}, []float64{1, 1})
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("particles at exact contact must overlap, got %v", err)
	}
}
