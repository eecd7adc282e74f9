package compute

import (
	"errors"
	"math"
	"sync"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestParallelForCoversRange(t *testing.T) {
	b := NewCPUBackend()

	for _, n := range []int{0, 1, 7, 64, 1000} {
		hits := make([]int, n)
		var mu sync.Mutex

		b.ParallelFor(n, 8, func(start, end int) {
			mu.Lock()
			defer mu.Unlock()
			for i := start; i < end; i++ {
				hits[i]++
			}
		})

		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}

func TestParallelForSmallRunsInline(t *testing.T) {
	b := NewCPUBackend()

	calls := 0
	b.ParallelFor(4, 16, func(start, end int) {
		calls++
		if start != 0 || end != 4 {
			t.Errorf("expected single chunk [0,4), got [%d,%d)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("expected 1 chunk, got %d", calls)
	}
}

func TestInverse(t *testing.T) {
	b := NewCPUBackend()

	a := mat.NewDense(3, 3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})

	var inv mat.Dense
	if err := b.Inverse(&inv, a); err != nil {
		t.Fatalf("inverse failed: %v", err)
	}

	var prod mat.Dense
	prod.Mul(a, &inv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(prod.At(i, j)-want) > 1e-12 {
				t.Errorf("(A*A^-1)[%d][%d] = %g, want %g", i, j, prod.At(i, j), want)
			}
		}
	}
}

func TestInverseAndCholesky(t *testing.T) {
	b := NewCPUBackend()

	a := mat.NewSymDense(3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})

	inv, root, err := b.InverseAndCholesky(a)
	if err != nil {
		t.Fatalf("factorization failed: %v", err)
	}

	var prod mat.Dense
	prod.Mul(a, inv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(prod.At(i, j)-want) > 1e-12 {
				t.Errorf("(A*A^-1)[%d][%d] = %g, want %g", i, j, prod.At(i, j), want)
			}
		}
	}

	var llt mat.Dense
	llt.Mul(root, root.T())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(llt.At(i, j)-a.At(i, j)) > 1e-12 {
				t.Errorf("(L*L^T)[%d][%d] = %g, want %g", i, j, llt.At(i, j), a.At(i, j))
			}
		}
	}
}

func TestInverseAndCholeskyNotPositiveDefinite(t *testing.T) {
	b := NewCPUBackend()

	a := mat.NewSymDense(2, []float64{
		1, 2,
		2, 1,
	})

	_, _, err := b.InverseAndCholesky(a)
	if !errors.Is(err, ErrNotPositiveDefinite) {
		t.Fatalf("expected ErrNotPositiveDefinite, got %v", err)
	}
}

func TestAutoSelectBackend(t *testing.T) {
	b := AutoSelectBackend()
	if b.Name() != "cpu" {
		t.Errorf("expected cpu backend, got %s", b.Name())
	}
	if !b.Available() {
		t.Error("cpu backend must always be available")
	}
}

func TestCUDAStubFallsBackToCPU(t *testing.T) {
	c := NewCUDABackend()
	if c.Available() {
		t.Fatal("stub build must report unavailable")
	}

	a := mat.NewDense(2, 2, []float64{2, 0, 0, 4})
	var inv mat.Dense
	if err := c.Inverse(&inv, a); err != nil {
		t.Fatalf("delegated inverse failed: %v", err)
	}
	if math.Abs(inv.At(0, 0)-0.5) > 1e-15 || math.Abs(inv.At(1, 1)-0.25) > 1e-15 {
		t.Errorf("delegated inverse wrong: got diag (%g, %g)", inv.At(0, 0), inv.At(1, 1))
	}

	covered := 0
	c.ParallelFor(10, 100, func(start, end int) { covered += end - start })
	if covered != 10 {
		t.Errorf("delegated ParallelFor covered %d of 10 indices", covered)
	}
}
