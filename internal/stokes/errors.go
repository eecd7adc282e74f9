package stokes

import (
	"errors"
	"fmt"
)

// Domain errors for velocity computations.
var (
	// ErrViscosity indicates a non-positive fluid viscosity.
	ErrViscosity = errors.New("stokes: viscosity must be positive")

	// ErrDimension indicates input arrays whose lengths do not match
	// the solver's particle count.
	ErrDimension = errors.New("stokes: input size does not match particle count")

	// ErrOverlap indicates two particles at or below contact distance.
	ErrOverlap = errors.New("stokes: overlapping particles")

	// ErrSingular indicates a mobility or resistance matrix that could
	// not be inverted; the configuration is physically degenerate.
	ErrSingular = errors.New("stokes: singular matrix in mobility inversion")
)

// OverlapError reports the first overlapping pair found during the
// geometry stage.
type OverlapError struct {
	I, J     int
	Distance float64
	Contact  float64
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("stokes: particles %d and %d overlap (distance %g <= contact %g)",
		e.I, e.J, e.Distance, e.Contact)
}

func (e *OverlapError) Unwrap() error { return ErrOverlap }
