package stokes

import (
	"math"

	"github.com/sdlab/stokesd/internal/tensor"
)

// pairGeometry is the per-pair scratch produced by the geometry stage,
// aligned index-for-index with Solver.pairs.
type pairRecord struct {
	e tensor.Vec // unit separation vector, from i to j
	r float64    // center-to-center distance; NaN marks an overlap
}

// pairGeometry computes unit separation vectors and distances for all
// pairs and rejects overlapping configurations. Two particles at
// exactly contact distance count as overlapping: the resistance
// functions diverge there.
func (s *Solver) pairGeometry(pos, radii []float64) ([]pairRecord, error) {
	geo := make([]pairRecord, s.nPair)

	s.backend.ParallelFor(s.nPair, minChunkPairs, func(start, end int) {
		for k := start; k < end; k++ {
			p := s.pairs[k]

			dx := pos[3*p.j+0] - pos[3*p.i+0]
			dy := pos[3*p.j+1] - pos[3*p.i+1]
			dz := pos[3*p.j+2] - pos[3*p.i+2]
			r := math.Sqrt(dx*dx + dy*dy + dz*dz)

			if r <= radii[p.i]+radii[p.j] {
				r = math.NaN()
			}

			rInv := 1 / r
			geo[k] = pairRecord{
				e: tensor.Vec{dx * rInv, dy * rInv, dz * rInv},
				r: r,
			}
		}
	})

	// Surface the poisoned records as an explicit error instead of
	// letting NaNs flow through the matrix pipeline.
	for k := range geo {
		if math.IsNaN(geo[k].r) {
			p := s.pairs[k]
			dx := pos[3*p.j+0] - pos[3*p.i+0]
			dy := pos[3*p.j+1] - pos[3*p.i+1]
			dz := pos[3*p.j+2] - pos[3*p.i+2]
			return nil, &OverlapError{
				I:        p.i,
				J:        p.j,
				Distance: math.Sqrt(dx*dx + dy*dy + dz*dz),
				Contact:  radii[p.i] + radii[p.j],
			}
		}
	}

	return geo, nil
}
