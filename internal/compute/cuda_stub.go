//go:build !cuda

package compute

import "gonum.org/v1/gonum/mat"

type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) ParallelFor(n, minChunk int, fn func(start, end int)) {
	cpu := NewCPUBackend()
	cpu.ParallelFor(n, minChunk, fn)
}

func (c *CUDABackend) Mul(dst *mat.Dense, a, b mat.Matrix) {
	cpu := NewCPUBackend()
	cpu.Mul(dst, a, b)
}

func (c *CUDABackend) MulVec(dst *mat.VecDense, a mat.Matrix, x mat.Vector) {
	cpu := NewCPUBackend()
	cpu.MulVec(dst, a, x)
}

func (c *CUDABackend) Inverse(dst *mat.Dense, a mat.Matrix) error {
	cpu := NewCPUBackend()
	return cpu.Inverse(dst, a)
}

func (c *CUDABackend) InverseAndCholesky(a mat.Symmetric) (*mat.SymDense, *mat.TriDense, error) {
	cpu := NewCPUBackend()
	return cpu.InverseAndCholesky(a)
}
