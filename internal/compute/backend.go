package compute

import "gonum.org/v1/gonum/mat"

// Backend bundles the dense linear algebra and the parallel-map
// primitive used by the solver stages.
type Backend interface {
	Name() string
	Available() bool

	// ParallelFor applies fn to contiguous chunks covering [0, n).
	// Chunks may run concurrently; bodies must only write state owned
	// by their own indices.
	ParallelFor(n, minChunk int, fn func(start, end int))

	// Mul stores a*b into dst.
	Mul(dst *mat.Dense, a, b mat.Matrix)

	// MulVec stores a*x into dst.
	MulVec(dst *mat.VecDense, a mat.Matrix, x mat.Vector)

	// Inverse stores a^-1 into dst. A singular or numerically
	// degenerate input is an error.
	Inverse(dst *mat.Dense, a mat.Matrix) error

	// InverseAndCholesky factorizes the symmetric positive definite a
	// once and returns both its inverse and its lower Cholesky factor.
	InverseAndCholesky(a mat.Symmetric) (*mat.SymDense, *mat.TriDense, error)

	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend picks the best backend compiled into this binary
// (CUDA when built with the cuda tag and a device is present, else CPU).
func AutoSelectBackend() Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend()
}
