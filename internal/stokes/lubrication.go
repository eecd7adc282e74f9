package stokes

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sdlab/stokesd/internal/tensor"
)

// lubSRCutoff is the scaled separation r/a12 beyond which a pair gets
// no lubrication correction; the pair-mobility terms cover that range.
const lubSRCutoff = 4.0

// lubNearCutoff separates the asymptotic gap expansion from the
// interpolation tables.
const lubNearCutoff = 2.1

// lubScratch holds the per-pair correction blocks before they are
// scattered into the resistance matrices. Layout follows the two-body
// resistance problem: 12x12 for forces/torques of both spheres, 12x10
// coupling to the two stresslets, 10x10 for the stresslets themselves.
type lubScratch struct {
	abc [12][12]float64
	ght [12][10]float64
	zm  [10][10]float64

	active bool
}

// lubricate adds short-range pair corrections to the resistance
// blocks produced by reduce. Block computation is per-pair independent
// and runs in parallel; the scatter accumulates into shared rows (two
// pairs touching the same particle add to the same diagonal block), so
// it stays serial.
func (s *Solver) lubricate(rfu, rfe, rse *mat.Dense, geo []pairRecord, radii []float64, flags Flags) {
	scratch := make([]lubScratch, s.nPair)

	s.backend.ParallelFor(s.nPair, minChunkPairs, func(start, end int) {
		for k := start; k < end; k++ {
			s.calcLub(s.pairs[k], geo[k], radii, flags, &scratch[k])
		}
	})

	for k := range scratch {
		sc := &scratch[k]
		if !sc.active {
			continue
		}
		p := s.pairs[k]

		ira := 6 * p.i
		jca := 6 * p.j
		irm := 5 * p.i
		jcm := 5 * p.j

		// Upper triangles of the two diagonal blocks, then the full
		// off-diagonal block. The caller mirrors afterwards.
		for jc := 0; jc < 6; jc++ {
			for ir := 0; ir <= jc; ir++ {
				rfu.Set(ira+ir, ira+jc, rfu.At(ira+ir, ira+jc)+sc.abc[ir][jc])
				rfu.Set(jca+ir, jca+jc, rfu.At(jca+ir, jca+jc)+sc.abc[ir+6][jc+6])
			}
		}
		for jc := 6; jc < 12; jc++ {
			for ir := 0; ir < 6; ir++ {
				rfu.Set(ira+ir, jca+jc-6, rfu.At(ira+ir, jca+jc-6)+sc.abc[ir][jc])
			}
		}

		if flags&FTS == 0 {
			continue
		}

		for jc := 0; jc < 5; jc++ {
			for ir := 0; ir < 6; ir++ {
				rfe.Set(ira+ir, irm+jc, rfe.At(ira+ir, irm+jc)+sc.ght[ir][jc])
				rfe.Set(jca+ir, jcm+jc, rfe.At(jca+ir, jcm+jc)+sc.ght[ir+6][jc+5])
				rfe.Set(ira+ir, jcm+jc, rfe.At(ira+ir, jcm+jc)+sc.ght[ir][jc+5])
				rfe.Set(jca+ir, irm+jc, rfe.At(jca+ir, irm+jc)+sc.ght[ir+6][jc])
			}
		}

		for jc := 0; jc < 5; jc++ {
			for ir := 0; ir <= jc; ir++ {
				rse.Set(irm+ir, irm+jc, rse.At(irm+ir, irm+jc)+sc.zm[ir][jc])
				rse.Set(jcm+ir, jcm+jc, rse.At(jcm+ir, jcm+jc)+sc.zm[ir+5][jc+5])
			}
		}
		for jc := 5; jc < 10; jc++ {
			for ir := 0; ir < 5; ir++ {
				rse.Set(irm+ir, jcm+jc-5, rse.At(irm+ir, jcm+jc-5)+sc.zm[ir][jc])
			}
		}
	}
}

// calcLub fills one pair's correction blocks. Compare the two-sphere
// resistance functions of Jeffrey & Onishi; the assembly below follows
// the published tabulated form with the mean-radius scaling for
// unequal spheres.
func (s *Solver) calcLub(p pairIndex, g pairRecord, radii []float64, flags Flags, sc *lubScratch) {
	a1 := radii[p.i]
	a2 := radii[p.j]
	a12 := 0.5 * (a1 + a2)

	sr := g.r / a12
	if sr >= lubSRCutoff {
		sc.active = false
		return
	}
	sc.active = true

	visc11_1 := 6 * math.Pi * s.eta * a1
	visc11_2 := visc11_1 * a1
	visc11_3 := visc11_2 * a1

	visc22_1 := 6 * math.Pi * s.eta * a2
	visc22_3 := visc22_1 * a2 * a2

	visc12_1 := 6 * math.Pi * s.eta * a12
	visc12_2 := visc12_1 * a12
	visc12_3 := visc12_2 * a12

	var lc lubCoeffs
	if sr <= lubNearCutoff {
		lc = nearCoeffs(sr)
	} else {
		lc = tableCoeffs(sr)
	}

	e := g.e
	ee := tensor.Outer(e, e)

	// force/torque block

	xmy11a := lc.x11a - lc.y11a
	xmy12a := lc.x12a - lc.y12a
	xmy11c := lc.x11c - lc.y11c
	xmy12c := lc.x12c - lc.y12c

	// upper half of a11
	tabc00 := xmy11a*ee[0][0] + lc.y11a
	tabc11 := xmy11a*ee[1][1] + lc.y11a
	tabc22 := xmy11a*ee[2][2] + lc.y11a
	tabc01 := xmy11a * ee[0][1]
	tabc02 := xmy11a * ee[0][2]
	tabc12 := xmy11a * ee[1][2]
	sc.abc[0][0] = visc11_1 * tabc00
	sc.abc[1][1] = visc11_1 * tabc11
	sc.abc[2][2] = visc11_1 * tabc22
	sc.abc[0][1] = visc11_1 * tabc01
	sc.abc[0][2] = visc11_1 * tabc02
	sc.abc[1][2] = visc11_1 * tabc12

	// a12
	sc.abc[0][6] = visc12_1 * (xmy12a*ee[0][0] + lc.y12a)
	sc.abc[1][7] = visc12_1 * (xmy12a*ee[1][1] + lc.y12a)
	sc.abc[2][8] = visc12_1 * (xmy12a*ee[2][2] + lc.y12a)
	sc.abc[0][7] = visc12_1 * xmy12a * ee[0][1]
	sc.abc[0][8] = visc12_1 * xmy12a * ee[0][2]
	sc.abc[1][8] = visc12_1 * xmy12a * ee[1][2]
	sc.abc[1][6] = sc.abc[0][7]
	sc.abc[2][6] = sc.abc[0][8]
	sc.abc[2][7] = sc.abc[1][8]

	// upper half of c11
	tabc33 := xmy11c*ee[0][0] + lc.y11c
	tabc44 := xmy11c*ee[1][1] + lc.y11c
	tabc55 := xmy11c*ee[2][2] + lc.y11c
	tabc34 := xmy11c * ee[0][1]
	tabc35 := xmy11c * ee[0][2]
	tabc45 := xmy11c * ee[1][2]
	sc.abc[3][3] = visc11_3 * tabc33
	sc.abc[4][4] = visc11_3 * tabc44
	sc.abc[5][5] = visc11_3 * tabc55
	sc.abc[3][4] = visc11_3 * tabc34
	sc.abc[3][5] = visc11_3 * tabc35
	sc.abc[4][5] = visc11_3 * tabc45

	// c12
	sc.abc[3][9] = visc12_3 * (xmy12c*ee[0][0] + lc.y12c)
	sc.abc[4][10] = visc12_3 * (xmy12c*ee[1][1] + lc.y12c)
	sc.abc[5][11] = visc12_3 * (xmy12c*ee[2][2] + lc.y12c)
	sc.abc[3][10] = visc12_3 * xmy12c * ee[0][1]
	sc.abc[3][11] = visc12_3 * xmy12c * ee[0][2]
	sc.abc[4][11] = visc12_3 * xmy12c * ee[1][2]
	sc.abc[4][9] = sc.abc[3][10]
	sc.abc[5][9] = sc.abc[3][11]
	sc.abc[5][10] = sc.abc[4][11]

	// upper half of a22 (same template as a11, scaled by a2)
	sc.abc[6][6] = visc22_1 * tabc00
	sc.abc[6][7] = visc22_1 * tabc01
	sc.abc[6][8] = visc22_1 * tabc02
	sc.abc[7][7] = visc22_1 * tabc11
	sc.abc[7][8] = visc22_1 * tabc12
	sc.abc[8][8] = visc22_1 * tabc22

	// upper half of c22 (same template as c11)
	sc.abc[9][9] = visc22_3 * tabc33
	sc.abc[9][10] = visc22_3 * tabc34
	sc.abc[9][11] = visc22_3 * tabc35
	sc.abc[10][10] = visc22_3 * tabc44
	sc.abc[10][11] = visc22_3 * tabc45
	sc.abc[11][11] = visc22_3 * tabc55

	// bt11
	sc.abc[0][3] = 0
	sc.abc[0][4] = -visc11_2 * lc.y11b * e[2]
	sc.abc[0][5] = visc11_2 * lc.y11b * e[1]
	sc.abc[1][4] = 0
	sc.abc[1][5] = -visc11_2 * lc.y11b * e[0]
	sc.abc[1][3] = -sc.abc[0][4]
	sc.abc[2][3] = -sc.abc[0][5]
	sc.abc[2][4] = -sc.abc[1][5]
	sc.abc[2][5] = 0

	// bt12
	sc.abc[0][9] = 0
	sc.abc[0][10] = visc12_2 * lc.y12b * e[2]
	sc.abc[0][11] = -visc12_2 * lc.y12b * e[1]
	sc.abc[1][10] = 0
	sc.abc[1][11] = visc12_2 * lc.y12b * e[0]
	sc.abc[1][9] = -sc.abc[0][10]
	sc.abc[2][9] = -sc.abc[0][11]
	sc.abc[2][10] = -sc.abc[1][11]
	sc.abc[2][11] = 0

	// b12 (=bt12) and bt22 (=-bt11)
	for j3 := 3; j3 < 6; j3++ {
		j6 := j3 + 3
		j9 := j3 + 6
		for i := 0; i < 3; i++ {
			sc.abc[i+3][j6] = sc.abc[i][j9]
			sc.abc[i+6][j9] = -sc.abc[i][j3]
		}
	}

	if flags&FTS == 0 {
		return
	}

	// shear coupling block

	// gt11
	c13x11g := lc.x11g / 3
	c2y11g := 2 * lc.y11g
	xm2y11g := lc.x11g - c2y11g
	comd11 := ee[0][0] * xm2y11g
	comd22 := ee[1][1] * xm2y11g
	comd33 := ee[2][2] * xm2y11g
	c2ymx11 := c2y11g - c13x11g
	con34 := comd11 - c13x11g
	con56 := comd11 + lc.y11g
	con712 := comd22 + lc.y11g
	con89 := comd33 + lc.y11g
	con1011 := comd22 - c13x11g

	sc.ght[0][0] = visc11_3 * e[0] * (comd11 + c2ymx11)
	sc.ght[0][1] = visc11_3 * e[1] * con56
	sc.ght[0][2] = visc11_3 * e[2] * con56
	sc.ght[0][3] = visc11_3 * e[0] * ee[1][2] * xm2y11g
	sc.ght[0][4] = visc11_3 * e[0] * con1011
	sc.ght[1][0] = visc11_3 * e[1] * con34
	sc.ght[1][1] = visc11_3 * e[0] * con712
	sc.ght[1][2] = sc.ght[0][3]
	sc.ght[1][3] = visc11_3 * e[2] * con712
	sc.ght[1][4] = visc11_3 * e[1] * (comd22 + c2ymx11)
	sc.ght[2][0] = visc11_3 * e[2] * con34
	sc.ght[2][1] = sc.ght[0][3]
	sc.ght[2][2] = visc11_3 * e[0] * con89
	sc.ght[2][3] = visc11_3 * e[1] * con89
	sc.ght[2][4] = visc11_3 * e[2] * con1011

	// gt21
	c13x12g := lc.x12g / 3
	c2y12g := 2 * lc.y12g
	xm2y12g := lc.x12g - c2y12g
	cumd11 := ee[0][0] * xm2y12g
	cumd22 := ee[1][1] * xm2y12g
	cumd33 := ee[2][2] * xm2y12g
	c2ymx12 := c2y12g - c13x12g
	cun34 := cumd11 - c13x12g
	cun56 := cumd11 + lc.y12g
	cun712 := cumd22 + lc.y12g
	cun89 := cumd33 + lc.y12g
	cun1011 := cumd22 - c13x12g

	sc.ght[6][0] = visc12_3 * e[0] * (cumd11 + c2ymx12)
	sc.ght[6][1] = visc12_3 * e[1] * cun56
	sc.ght[6][2] = visc12_3 * e[2] * cun56
	sc.ght[6][3] = visc12_3 * e[0] * ee[1][2] * xm2y12g
	sc.ght[6][4] = visc12_3 * e[0] * cun1011
	sc.ght[7][0] = visc12_3 * e[1] * cun34
	sc.ght[7][1] = visc12_3 * e[0] * cun712
	sc.ght[7][2] = sc.ght[6][3]
	sc.ght[7][3] = visc12_3 * e[2] * cun712
	sc.ght[7][4] = visc12_3 * e[1] * (cumd22 + c2ymx12)
	sc.ght[8][0] = visc12_3 * e[2] * cun34
	sc.ght[8][1] = sc.ght[6][3]
	sc.ght[8][2] = visc12_3 * e[0] * cun89
	sc.ght[8][3] = visc12_3 * e[1] * cun89
	sc.ght[8][4] = visc12_3 * e[2] * cun1011

	// ht11
	d11md22 := ee[0][0] - ee[1][1]
	d22md33 := ee[1][1] - ee[2][2]
	d33md11 := ee[2][2] - ee[0][0]
	y11hd12 := lc.y11h * ee[0][1]
	y11hd13 := lc.y11h * ee[0][2]
	y11hd23 := lc.y11h * ee[1][2]
	cyhd12a := 2 * y11hd12

	sc.ght[3][0] = 0
	sc.ght[3][1] = -visc11_3 * y11hd13
	sc.ght[3][2] = visc11_3 * y11hd12
	sc.ght[3][3] = visc11_3 * lc.y11h * d22md33
	sc.ght[3][4] = -visc11_3 * 2 * y11hd23
	sc.ght[4][0] = visc11_3 * 2 * y11hd13
	sc.ght[4][1] = visc11_3 * y11hd23
	sc.ght[4][2] = visc11_3 * lc.y11h * d33md11
	sc.ght[4][3] = -visc11_3 * y11hd12
	sc.ght[4][4] = 0
	sc.ght[5][0] = -visc11_3 * cyhd12a
	sc.ght[5][1] = visc11_3 * lc.y11h * d11md22
	sc.ght[5][2] = -visc11_3 * y11hd23
	sc.ght[5][3] = visc11_3 * y11hd13
	sc.ght[5][4] = visc11_3 * cyhd12a

	// ht12
	y12hd12 := lc.y12h * ee[0][1]
	y12hd13 := lc.y12h * ee[0][2]
	y12hd23 := lc.y12h * ee[1][2]
	cyhd12b := 2 * y12hd12

	sc.ght[3][5] = 0
	sc.ght[3][6] = -visc12_3 * y12hd13
	sc.ght[3][7] = visc12_3 * y12hd12
	sc.ght[3][8] = visc12_3 * lc.y12h * d22md33
	sc.ght[3][9] = -visc12_3 * 2 * y12hd23
	sc.ght[4][5] = visc12_3 * 2 * y12hd13
	sc.ght[4][6] = visc12_3 * y12hd23
	sc.ght[4][7] = visc12_3 * lc.y12h * d33md11
	sc.ght[4][8] = -visc12_3 * y12hd12
	sc.ght[4][9] = 0
	sc.ght[5][5] = -visc12_3 * cyhd12b
	sc.ght[5][6] = visc12_3 * lc.y12h * d11md22
	sc.ght[5][7] = -visc12_3 * y12hd23
	sc.ght[5][8] = visc12_3 * y12hd13
	sc.ght[5][9] = visc12_3 * cyhd12b

	// gt12 (=-gt21), gt22 (=-gt11), ht21 (=ht12), ht22 (=ht11)
	for i := 0; i < 3; i++ {
		for j := 0; j < 5; j++ {
			sc.ght[i][j+5] = -sc.ght[i+6][j]
			sc.ght[i+6][j+5] = -sc.ght[i][j]
			sc.ght[i+9][j] = sc.ght[i+3][j+5]
			sc.ght[i+9][j+5] = sc.ght[i+3][j]
		}
	}

	// stresslet block

	var m4 tensor.Ten4
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := k; l < 3; l++ {
					m4[i][j][k][l] = 1.5*lc.xm*
						(ee[i][j]-tensor.Delta[i][j]/3)*
						(ee[k][l]-tensor.Delta[k][l]/3) +
						0.5*lc.ym*
							(ee[i][k]*tensor.Delta[j][l]+
								ee[j][k]*tensor.Delta[i][l]+
								ee[i][l]*tensor.Delta[j][k]+
								ee[j][l]*tensor.Delta[i][k]-
								4*ee[i][j]*ee[k][l]) +
						0.5*lc.zm*
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

	// Project onto the 5-component basis. The basis pairs are ordered
	// so every lookup stays inside the (i<=j, k<=l) triangle filled
	// above.
	mm := projectRank4(m4)

	// The projected template is one m function: m11, m12 and m22 differ
	// only in the radius scaling.
	for j := 0; j < 5; j++ {
		for i := 0; i <= j; i++ {
			sc.zm[i][j+5] = visc12_3 * mm[i][j]
			sc.zm[i+5][j+5] = visc22_3 * mm[i][j]
		}
	}
	for i := 0; i < 5; i++ {
		for j := i + 1; j < 5; j++ {
			sc.zm[j][i+5] = sc.zm[i][j+5]
		}
	}
	for i := 0; i < 5; i++ {
		for j := i; j < 5; j++ {
			sc.zm[i][j] = visc11_3 * mm[i][j]
		}
	}
}

// lubCoeffs bundles the two-sphere resistance scalars at one scaled
// separation.
type lubCoeffs struct {
	x11a, x12a, y11a, y12a float64
	y11b, y12b             float64
	x11c, x12c, y11c, y12c float64
	x11g, x12g, y11g, y12g float64
	y11h, y12h             float64
	xm, ym, zm             float64
}

// nearCoeffs evaluates the asymptotic gap expansions. Valid for small
// gaps xi = sr - 2; the leading terms diverge like 1/xi and log(1/xi).
func nearCoeffs(sr float64) lubCoeffs {
	xi := sr - 2

	xi1 := 1 / xi
	dlx := math.Log(xi1)

	xdlx := xi * dlx
	dlx1 := dlx + xdlx

	csa1 := dlx / 6
	csa2 := xdlx / 6
	csa3 := dlx1 / 6
	csa4 := 0.25*xi1 + 0.225*dlx
	csa5 := dlx / 15

	var lc lubCoeffs

	lc.x11a = csa4 - 1.23041 + 3./112.*xdlx + 1.8918*xi
	lc.x12a = -lc.x11a + 0.00312 - 0.0011*xi
	lc.y11a = csa1 - 0.39394 + 0.95665*xi
	lc.y12a = -lc.y11a + 0.00463606 - 0.007049*xi

	lc.y11b = -csa1 + 0.408286 - xdlx/12 - 0.84055*xi
	lc.y12b = -lc.y11b + 0.00230818 - 0.007508*xi

	lc.x11c = 0.0479 - csa2 + 0.12494*xi
	lc.x12c = -0.031031 + csa2 - 0.174476*xi
	lc.y11c = 4*csa5 - 0.605434 + 94./375.*xdlx + 0.939139*xi
	lc.y12c = csa5 - 0.212032 + 31./375.*xdlx + 0.452843*xi

	csg1 := csa4 + 39./280.*xdlx
	csg2 := dlx/12 + xdlx/24

	lc.x11g = csg1 - 1.16897 + 1.47882*xi
	lc.x12g = -csg1 + 1.178967 - 1.480493*xi
	lc.y11g = csg2 - 0.2041 + 0.442226*xi
	lc.y12g = -csg2 + 0.216365 - 0.469830*xi

	lc.y11h = 0.5*csa5 - 0.143777 + 137./1500.*xdlx + 0.264207*xi
	lc.y12h = 2*csa5 - 0.298166 + 113./1500.*xdlx + 0.534123*xi

	lc.xm = xi1/3 + 0.3*dlx - 1.48163 + 0.335714*xdlx + 1.413604*xi
	lc.ym = csa3 - 0.423489 + 0.827286*xi
	lc.zm = 0.0129151 - 0.042284*xi

	return lc
}

func lerp(lo, hi, c float64) float64 { return lo + c*(hi-lo) }

// tableCoeffs linearly interpolates the tabulated resistance scalars.
// Only called for lubNearCutoff < sr < lubSRCutoff, which keeps every
// index below in range.
func tableCoeffs(sr float64) lubCoeffs {
	ida := int(20 * (sr - 2))
	ib := ida - 2
	ia := ib + 1

	c1 := (sr - lubGridABC[ib]) / (lubGridABC[ia] - lubGridABC[ib])

	var lc lubCoeffs

	lo, hi := &lubTabABC[ib], &lubTabABC[ia]
	lc.x11a = lerp(lo.x11a, hi.x11a, c1)
	lc.x12a = lerp(lo.x12a, hi.x12a, c1)
	lc.y11a = lerp(lo.y11a, hi.y11a, c1)
	lc.y12a = lerp(lo.y12a, hi.y12a, c1)

	lc.y11b = lerp(lo.y11b, hi.y11b, c1)
	lc.y12b = lerp(lo.y12b, hi.y12b, c1)

	lc.x11c = lerp(lo.x11c, hi.x11c, c1)
	lc.x12c = lerp(lo.x12c, hi.x12c, c1)
	lc.y11c = lerp(lo.y11c, hi.y11c, c1)
	lc.y12c = lerp(lo.y12c, hi.y12c, c1)

	// The g/h/m grid is finer near contact.
	if sr < 2.2 {
		ib = int(100*(sr-2)) - 10
	} else {
		ib = ida + 6
	}
	ia = ib + 1

	cgh := (sr - lubGridGHM[ib]) / (lubGridGHM[ia] - lubGridGHM[ib])

	lo, hi = &lubTabGHM[ib], &lubTabGHM[ia]
	lc.x11g = lerp(lo.x11g, hi.x11g, cgh)
	lc.x12g = lerp(lo.x12g, hi.x12g, cgh)
	lc.y11g = lerp(lo.y11g, hi.y11g, cgh)
	lc.y12g = lerp(lo.y12g, hi.y12g, cgh)

	lc.y11h = lerp(lo.y11h, hi.y11h, cgh)
	lc.y12h = lerp(lo.y12h, hi.y12h, cgh)

	lc.xm = lerp(lo.xm, hi.xm, cgh)
	lc.ym = lerp(lo.ym, hi.ym, cgh)
	lc.zm = lerp(lo.zm, hi.zm, cgh)

	return lc
}
