package stokes

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// reduce converts the assembled mobility blocks into resistance
// blocks. Without FTS this is a single inversion of the 6Nx6N
// translation/rotation block. With FTS, the stresslet degrees of
// freedom are folded out by a Schur complement, leaving an effective
// 6Nx6N force/torque resistance rfu plus the auxiliary blocks rfe
// (force to shear sensitivity, 6Nx5N) and rse (stresslet response,
// 5Nx5N).
func (s *Solver) reduce(flags Flags) (rfu, rfe, rse *mat.Dense, err error) {
	// R1 = Muf^-1
	r1 := &mat.Dense{}
	if err := s.backend.Inverse(r1, s.muf); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: translation/rotation block: %v", ErrSingular, err)
	}

	if flags&FTS == 0 {
		return r1, nil, nil, nil
	}

	// R2 = Mus^T * R1
	rsu := &mat.Dense{}
	s.backend.Mul(rsu, s.mus.T(), r1)

	// R3 = Mes - R2 * Mus
	tmp := &mat.Dense{}
	s.backend.Mul(tmp, rsu, s.mus)
	r3 := &mat.Dense{}
	r3.Sub(s.mes, tmp)

	// R4 = R3^-1
	r4 := &mat.Dense{}
	if err := s.backend.Inverse(r4, r3); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: stresslet block: %v", ErrSingular, err)
	}

	// R5 = -(R2^T * R4)
	r5 := &mat.Dense{}
	s.backend.Mul(r5, rsu.T(), r4)
	r5.Scale(-1, r5)

	// R6 = R1 - R5 * R2
	tmp2 := &mat.Dense{}
	s.backend.Mul(tmp2, r5, rsu)
	r6 := &mat.Dense{}
	r6.Sub(r1, tmp2)

	return r6, r5, r4, nil
}
