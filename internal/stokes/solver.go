package stokes

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sdlab/stokesd/internal/compute"
)

// Flags select which pipeline stages contribute to a computation.
// Disabling SelfMobility or PairMobility leaves the corresponding
// matrix entries at the zero the solver writes at the start of every
// call.
type Flags uint

const (
	SelfMobility Flags = 1 << iota
	PairMobility
	Lubrication
	// FTS enables the extended force-torque-stresslet formulation:
	// 5 additional stresslet degrees of freedom per particle that are
	// eliminated again during reduction.
	FTS
)

// DefaultFlags runs the full method.
const DefaultFlags = SelfMobility | PairMobility | Lubrication | FTS

// Minimum chunk sizes for the parallel maps; below these, spawning
// workers costs more than the loop body.
const (
	minChunkParticles = 64
	minChunkPairs     = 16
	minChunkDOF       = 512
)

type pairIndex struct{ i, j int }

// Solver computes velocities for a fixed particle count and fluid
// viscosity. The grand matrices are allocated once and overwritten,
// not reallocated, on every call.
type Solver struct {
	backend compute.Backend
	eta     float64
	nPart   int
	nPair   int

	// canonical pair order: lexicographic (i, j), i < j; all per-pair
	// data in every stage aligns index-for-index with this slice
	pairs []pairIndex

	muf *mat.Dense // 6N x 6N translation/rotation block
	mus *mat.Dense // 6N x 5N coupling to stresslets
	mes *mat.Dense // 5N x 5N stresslet block
}

// NewSolver allocates a solver for nPart particles in a fluid of
// viscosity eta. A nil backend selects the process-wide default.
func NewSolver(backend compute.Backend, eta float64, nPart int) (*Solver, error) {
	if eta <= 0 {
		return nil, fmt.Errorf("%w (got %g)", ErrViscosity, eta)
	}
	if nPart < 1 {
		return nil, fmt.Errorf("%w: need at least one particle", ErrDimension)
	}
	if backend == nil {
		backend = compute.GetBackend()
	}

	nPair := nPart * (nPart - 1) / 2
	pairs := make([]pairIndex, 0, nPair)
	for i := 0; i < nPart; i++ {
		for j := i + 1; j < nPart; j++ {
			pairs = append(pairs, pairIndex{i, j})
		}
	}

	return &Solver{
		backend: backend,
		eta:     eta,
		nPart:   nPart,
		nPair:   nPair,
		pairs:   pairs,
		muf:     mat.NewDense(6*nPart, 6*nPart, nil),
		mus:     mat.NewDense(6*nPart, 5*nPart, nil),
		mes:     mat.NewDense(5*nPart, 5*nPart, nil),
	}, nil
}

// NumParticles returns the particle count the solver was sized for.
func (s *Solver) NumParticles() int { return s.nPart }

// Request carries the inputs of one velocity computation.
type Request struct {
	Positions []float64 // 3N particle centers
	Radii     []float64 // N
	Forces    []float64 // 6N external force+torque, packed per particle

	// ThermalAmplitude is sqrt(kT/dt). Zero or negative disables
	// thermalization entirely; no random numbers are consumed.
	ThermalAmplitude float64

	// Offset and Seed key the counter-based random stream. Repeated
	// calls with the same key reproduce the same random force.
	Offset uint64
	Seed   uint64

	Flags Flags
}

// Velocities runs the full pipeline and returns the 6N translational
// and angular velocities produced by the requested forces and torques.
func (s *Solver) Velocities(req Request) ([]float64, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	// The orchestration owns matrix zeroing: every stage below only
	// writes the entries it is responsible for.
	s.muf.Zero()
	s.mus.Zero()
	s.mes.Zero()

	geo, err := s.pairGeometry(req.Positions, req.Radii)
	if err != nil {
		return nil, err
	}

	if req.Flags&SelfMobility != 0 {
		s.selfMobility(req.Radii)
	}
	if req.Flags&PairMobility != 0 {
		s.pairMobility(geo, req.Radii)
	}

	rfu, rfe, rse, err := s.reduce(req.Flags)
	if err != nil {
		return nil, err
	}

	if req.Flags&Lubrication != 0 {
		s.lubricate(rfu, rfe, rse, geo, req.Radii, req.Flags)
		// Lubrication only writes one triangle of the symmetric
		// matrices; mirror before use.
		symmetrize(rfu)
		if req.Flags&FTS != 0 {
			symmetrize(rse)
		}
	}

	// Ambient flow extension point: an imposed shear rate E_inf would
	// add rfe*E_inf to the right-hand side and a position-dependent
	// U_inf to the result. Both are identically zero here.

	n6 := 6 * s.nPart
	rhs := mat.NewVecDense(n6, nil)
	copy(rhs.RawVector().Data, req.Forces)

	u := mat.NewVecDense(n6, nil)

	if req.ThermalAmplitude > 0 {
		// One factorization yields both the inverse (for the solve)
		// and the matrix square root (for the random force).
		inv, root, err := s.backend.InverseAndCholesky(denseToSym(rfu))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
		rhs.AddVec(rhs, s.randomForce(req.ThermalAmplitude, req.Offset, req.Seed, root))
		s.backend.MulVec(u, inv, rhs)
	} else {
		var inv mat.Dense
		if err := s.backend.Inverse(&inv, rfu); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
		s.backend.MulVec(u, &inv, rhs)
	}

	out := make([]float64, n6)
	copy(out, u.RawVector().Data)
	return out, nil
}

func (s *Solver) validate(req Request) error {
	if len(req.Positions) != 3*s.nPart {
		return fmt.Errorf("%w: got %d positions, want %d", ErrDimension, len(req.Positions), 3*s.nPart)
	}
	if len(req.Radii) != s.nPart {
		return fmt.Errorf("%w: got %d radii, want %d", ErrDimension, len(req.Radii), s.nPart)
	}
	if len(req.Forces) != 6*s.nPart {
		return fmt.Errorf("%w: got %d force components, want %d", ErrDimension, len(req.Forces), 6*s.nPart)
	}
	return nil
}

// symmetrize mirrors the upper triangle into the lower one.
func symmetrize(m *mat.Dense) {
	n, _ := m.Dims()
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			m.Set(i, j, m.At(j, i))
		}
	}
}

// denseToSym copies the upper triangle of a (numerically symmetric)
// dense matrix into a SymDense for the factorization API.
func denseToSym(d *mat.Dense) *mat.SymDense {
	n, _ := d.Dims()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, d.At(i, j))
		}
	}
	return sym
}
