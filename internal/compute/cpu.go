package compute

import (
	"errors"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// ErrNotPositiveDefinite is returned by InverseAndCholesky when the
// matrix has no Cholesky factorization.
var ErrNotPositiveDefinite = errors.New("compute: matrix is not positive definite")

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) ParallelFor(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n <= minChunk || c.workers <= 1 {
		fn(0, n)
		return
	}

	workers := c.workers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

func (c *CPUBackend) Mul(dst *mat.Dense, a, b mat.Matrix) {
	dst.Mul(a, b)
}

func (c *CPUBackend) MulVec(dst *mat.VecDense, a mat.Matrix, x mat.Vector) {
	dst.MulVec(a, x)
}

func (c *CPUBackend) Inverse(dst *mat.Dense, a mat.Matrix) error {
	return dst.Inverse(a)
}

func (c *CPUBackend) InverseAndCholesky(a mat.Symmetric) (*mat.SymDense, *mat.TriDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, nil, ErrNotPositiveDefinite
	}

	n := a.SymmetricDim()
	inv := mat.NewSymDense(n, nil)
	if err := chol.InverseTo(inv); err != nil {
		return nil, nil, err
	}

	root := mat.NewTriDense(n, mat.Lower, nil)
	chol.LTo(root)

	return inv, root, nil
}
