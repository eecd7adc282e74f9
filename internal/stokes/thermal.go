package stokes

import (
	"math"
	"math/bits"

	"gonum.org/v1/gonum/mat"
)

// Philox 2x64-10 constants (Salmon et al., SC'11).
const (
	philoxM    = 0xD2B74407B1CE6E93
	philoxBump = 0x9E3779B97F4A7C15
)

// philox2x64 runs ten rounds of the counter-based generator. Being a
// pure function of (counter, key), it gives every degree of freedom an
// independent, reproducible random value with no shared stream state.
func philox2x64(ctr [2]uint64, key uint64) [2]uint64 {
	for r := 0; r < 10; r++ {
		hi, lo := bits.Mul64(philoxM, ctr[0])
		ctr[0], ctr[1] = hi^key^ctr[1], lo
		key += philoxBump
	}
	return ctr
}

// uniform01 maps one counter/key triple to a uniform double in (0, 1).
func uniform01(seed, offset, index uint64) float64 {
	out := philox2x64([2]uint64{offset, index}, seed)
	return (float64(out[0]) + 0.5) * 0x1p-64
}

var (
	sqrt2  = math.Sqrt(2)
	sqrt12 = math.Sqrt(12)
)

// randomForce draws the fluctuation force for one step: a vector of
// independent uniform variates with zero mean and variance 2*kT/dt,
// correlated through the Cholesky factor of the resistance matrix so
// that the resulting velocities satisfy fluctuation-dissipation.
func (s *Solver) randomForce(amp float64, offset, seed uint64, root *mat.TriDense) *mat.VecDense {
	n6 := 6 * s.nPart

	psi := mat.NewVecDense(n6, nil)
	data := psi.RawVector().Data

	s.backend.ParallelFor(n6, minChunkDOF, func(start, end int) {
		for idx := start; idx < end; idx++ {
			u := uniform01(seed, offset, uint64(idx))
			// sqrt(12)*(u - 0.5) has zero mean and unit variance.
			data[idx] = sqrt2 * amp * sqrt12 * (u - 0.5)
		}
	})

	f := mat.NewVecDense(n6, nil)
	s.backend.MulVec(f, root, psi)
	return f
}
