package stokes

import (
	"math"

	"github.com/sdlab/stokesd/internal/tensor"
)

// Self-mobility templates: the diagonal sub-tensors of the grand
// mobility matrix in equation (A 1) of Durlofsky et al., scaled per
// particle by the viscosity/radius non-dimensionalization below.
var (
	selfA = tensor.Mat{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	selfC = tensor.Mat{
		{3. / 4., 0, 0},
		{0, 3. / 4., 0},
		{0, 0, 3. / 4.},
	}
	selfM = tensor.Mat55{
		{9. / 5., 0, 0, 0, 9. / 10.},
		{0, 9. / 5., 0, 0, 0},
		{0, 0, 9. / 5., 0, 0},
		{0, 0, 0, 9. / 5., 0},
		{9. / 10., 0, 0, 0, 9. / 5.},
	}
)

// selfMobility fills the diagonal blocks of the grand mobility matrix:
// one 6x6 translation/rotation block and one 5x5 stresslet block per
// particle, independent of every other particle.
func (s *Solver) selfMobility(radii []float64) {
	s.backend.ParallelFor(s.nPart, minChunkParticles, func(start, end int) {
		for p := start; p < end; p++ {
			ph1 := 6 * p
			ph2 := ph1 + 3
			ph3 := 5 * p

			// Non-dimensionalization from the paragraph below (A 1):
			// translation ~ 1/(6 pi eta a), rotation and stresslet
			// ~ 1/(6 pi eta a^3).
			visc1 := 1 / (6 * math.Pi * s.eta * radii[p])
			visc3 := visc1 / (radii[p] * radii[p])

			for i := 0; i < 3; i++ {
				s.muf.Set(ph1+i, ph1+i, visc1*selfA[i][i])
				s.muf.Set(ph2+i, ph2+i, visc3*selfC[i][i])
			}
			for i := 0; i < 5; i++ {
				for j := 0; j < 5; j++ {
					s.mes.Set(ph3+i, ph3+j, visc3*selfM[i][j])
				}
			}
		}
	})
}

// pairMobility fills the far-field pair blocks of the grand mobility
// matrix. Each pair writes only its own (i,j) and (j,i) block
// locations, so the map runs race-free in parallel.
func (s *Solver) pairMobility(geo []pairRecord, radii []float64) {
	s.backend.ParallelFor(s.nPair, minChunkPairs, func(start, end int) {
		for k := start; k < end; k++ {
			s.pairMobilityOne(s.pairs[k], geo[k], radii)
		}
	})
}

// otherIndex returns the index of {0,1,2} missing from {i,j}. The
// value is irrelevant when i == j: every use multiplies by a vanishing
// Levi-Civita component there.
func otherIndex(i, j int) int {
	return ((3-i-j)%3 + 3) % 3
}

func (s *Solver) pairMobilityOne(p pairIndex, g pairRecord, radii []float64) {
	// Mean-radius non-dimensionalization: the documented modification
	// of the equal-sphere theory for unequal pairs.
	a12 := 0.5 * (radii[p.i] + radii[p.j])
	visc1 := 1 / (6 * math.Pi * s.eta * a12)
	visc2 := visc1 / a12
	visc3 := visc2 / a12

	e := g.e
	ee := tensor.Outer(e, e)

	drInv := a12 / g.r
	drInv2 := drInv * drInv
	drInv3 := drInv2 * drInv
	drInv4 := drInv3 * drInv
	drInv5 := drInv4 * drInv

	// Scalar mobility functions x12/y12/z12 from equation (A 3).
	x12a := 1.5*drInv - drInv3
	y12a := 0.75*drInv + 0.5*drInv3

	y12b := -0.75 * drInv2

	x12c := 0.75 * drInv3
	y12c := -0.375 * drInv3

	x12g := 2.25*drInv2 - 3.6*drInv4
	y12g := 1.2 * drInv4

	y12h := -1.125 * drInv3

	x12m := -4.5*drInv3 + 10.8*drInv5
	y12m := 2.25*drInv3 - 7.2*drInv5
	z12m := 1.8 * drInv5

	// Equation (A 2), lines one to three.
	var mobA, mobB, mobC tensor.Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			k := otherIndex(i, j)

			mobA[i][j] = x12a*ee[i][j] + y12a*(tensor.Delta[i][j]-ee[i][j])
			mobB[i][j] = y12b * tensor.Eps[i][j][k] * e[k]
			mobC[i][j] = x12c*ee[i][j] + y12c*(tensor.Delta[i][j]-ee[i][j])
		}
	}

	// Equation (A 2), lines four and five.
	var gt, ht tensor.Ten3
	for k := 0; k < 3; k++ {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				gt[k][i][j] = -(x12g*(ee[i][j]-tensor.Delta[i][j]/3)*e[k] +
					y12g*(e[i]*tensor.Delta[j][k]+e[j]*tensor.Delta[i][k]-2*ee[i][j]*e[k]))

				l := otherIndex(j, k)
				m := otherIndex(i, k)
				ht[k][i][j] = y12h * (ee[i][l]*tensor.Eps[j][k][l] + ee[j][m]*tensor.Eps[i][k][m])
			}
		}
	}

	// Equation (A 2), line six.
	var m4 tensor.Ten4
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					m4[i][j][k][l] = 1.5*x12m*
						(ee[i][j]-tensor.Delta[i][j]/3)*
						(ee[k][l]-tensor.Delta[k][l]/3) +
						0.5*y12m*
							(ee[i][k]*tensor.Delta[j][l]+
								ee[j][k]*tensor.Delta[i][l]+
								ee[i][l]*tensor.Delta[j][k]+
								ee[j][l]*tensor.Delta[i][k]-
								4*ee[i][j]*ee[k][l]) +
						0.5*z12m*
							(tensor.Delta[i][k]*tensor.Delta[j][l]+
								tensor.Delta[j][k]*tensor.Delta[i][l]-
								tensor.Delta[i][j]*tensor.Delta[k][l]+
								ee[i][j]*tensor.Delta[k][l]+
								ee[k][l]*tensor.Delta[i][j]-
								ee[i][k]*tensor.Delta[j][l]-
								ee[j][k]*tensor.Delta[i][l]-
								ee[i][l]*tensor.Delta[j][k]-
								ee[j][l]*tensor.Delta[i][k]+
								ee[i][j]*ee[k][l])
				}
			}
		}
	}

	mobGT := projectRank3(gt)
	mobHT := projectRank3(ht)
	mobM := projectRank4(m4)

	// Block locations of this pair in the grand matrices.
	ph1 := 6 * p.i
	ph2 := 6 * p.j
	ph3 := ph1 + 3
	ph4 := ph2 + 3
	ph5 := 5 * p.i
	ph6 := 5 * p.j

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s.muf.Set(ph1+i, ph2+j, visc1*mobA[i][j])
			s.muf.Set(ph3+i, ph2+j, visc2*mobB[i][j])
			s.muf.Set(ph1+i, ph4+j, -visc2*mobB[j][i]) // mobB transpose
			s.muf.Set(ph3+i, ph4+j, visc3*mobC[i][j])

			s.muf.Set(ph2+i, ph1+j, visc1*mobA[j][i])
			s.muf.Set(ph4+i, ph1+j, visc2*mobB[j][i])
			s.muf.Set(ph2+i, ph3+j, -visc2*mobB[i][j]) // mobB transpose
			s.muf.Set(ph4+i, ph3+j, visc3*mobC[j][i])
		}

		for j := 0; j < 5; j++ {
			// The paragraph under (A 1) suggests the r^-3 scaling
			// (visc3) for the g coupling, but the r^-2 scaling
			// reproduces the published two-sphere results. Not
			// analytically verified; kept as a known fidelity risk.
			s.mus.Set(ph1+i, ph6+j, visc2*mobGT[i][j])
			s.mus.Set(ph2+i, ph5+j, -visc2*mobGT[i][j])

			// Same uncertainty for the h coupling exponent.
			s.mus.Set(ph3+i, ph6+j, visc3*mobHT[i][j])
			s.mus.Set(ph4+i, ph5+j, visc3*mobHT[i][j])
		}
	}

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			s.mes.Set(ph5+i, ph6+j, visc3*mobM[i][j])
			s.mes.Set(ph6+i, ph5+j, visc3*mobM[j][i])
		}
	}
}

// projectRank3 linearizes the last two (symmetric traceless) indices
// of a rank-3 tensor onto the 5-component basis: EV_1 = E_11 - E_33,
// EV_2 = 2 E_12, EV_3 = 2 E_13, EV_4 = 2 E_23, EV_5 = E_22 - E_33.
func projectRank3(t tensor.Ten3) tensor.Mat35 {
	var m tensor.Mat35
	for i := 0; i < 3; i++ {
		m[i][0] = t[i][0][0] - t[i][2][2]
		m[i][1] = 2 * t[i][0][1]
		m[i][2] = 2 * t[i][0][2]
		m[i][3] = 2 * t[i][1][2]
		m[i][4] = t[i][1][1] - t[i][2][2]
	}
	return m
}

// projectRank4 linearizes both symmetric traceless index pairs of a
// rank-4 tensor onto the 5-component basis, using the stresslet
// convention SV_1 = S_11, SV_2 = S_12, SV_3 = S_13, SV_4 = S_23,
// SV_5 = S_22 on the row side.
func projectRank4(m4 tensor.Ten4) tensor.Mat55 {
	var m tensor.Mat55
	for i := 0; i < 5; i++ {
		b0 := tensor.BasisIndex[0][i]
		b1 := tensor.BasisIndex[1][i]

		if i == 0 || i == 4 {
			m[i][0] = m4[b0][b0][0][0] - m4[b0][b0][2][2] -
				(m4[b1][b1][0][0] - m4[b1][b1][2][2])
			m[i][1] = 2 * (m4[b0][b0][0][1] - m4[b1][b1][0][1])
			m[i][2] = 2 * (m4[b0][b0][0][2] - m4[b1][b1][0][2])
			m[i][3] = 2 * (m4[b0][b0][1][2] - m4[b1][b1][1][2])
			m[i][4] = m4[b0][b0][1][1] - m4[b0][b0][2][2] -
				(m4[b1][b1][1][1] - m4[b1][b1][2][2])
		} else {
			m[i][0] = 2 * (m4[b0][b1][0][0] - m4[b0][b1][2][2])
			m[i][1] = 4 * m4[b0][b1][0][1]
			m[i][2] = 4 * m4[b0][b1][0][2]
			m[i][3] = 4 * m4[b0][b1][1][2]
			m[i][4] = 2 * (m4[b0][b1][1][1] - m4[b0][b1][2][2])
		}
	}
	return m
}
