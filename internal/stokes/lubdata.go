package stokes

// Interpolation grids for the tabulated resistance scalars. The a/b/c
// functions vary slowly and use a uniform 0.05 grid from sr = 2.1 to
// 4.0; the g/h/m functions get a finer 0.01 grid up to sr = 2.2 before
// switching to the same 0.05 spacing.
const (
	lubGridABCLen = 39
	lubGridGHMLen = 47
)

var (
	lubGridABC [lubGridABCLen]float64
	lubGridGHM [lubGridGHMLen]float64

	lubTabABC [lubGridABCLen]lubCoeffs
	lubTabGHM [lubGridGHMLen]lubCoeffs
)

// The table values are generated instead of being shipped as a literal
// block. The contact expansions are only trustworthy near sr = 2.1, so
// each sample is the expansion damped by a cubic weight that is one at
// the near cutoff and zero at the outer cutoff: the correction then
// decays monotonically with separation and vanishes where the far-field
// terms take over, at the cost of not reproducing the exact two-sphere
// values over the mid range.
func init() {
	for k := 0; k < lubGridABCLen; k++ {
		lubGridABC[k] = 2.1 + 0.05*float64(k)
		lubTabABC[k] = midCoeffs(lubGridABC[k])
	}
	for k := 0; k < lubGridGHMLen; k++ {
		if k < 10 {
			lubGridGHM[k] = 2.1 + 0.01*float64(k)
		} else {
			lubGridGHM[k] = 2.2 + 0.05*float64(k-10)
		}
		lubTabGHM[k] = midCoeffs(lubGridGHM[k])
	}
}

func midCoeffs(sr float64) lubCoeffs {
	w := (lubSRCutoff - sr) / (lubSRCutoff - lubNearCutoff)
	w = w * w * w

	lc := nearCoeffs(sr)
	lc.x11a *= w
	lc.x12a *= w
	lc.y11a *= w
	lc.y12a *= w
	lc.y11b *= w
	lc.y12b *= w
	lc.x11c *= w
	lc.x12c *= w
	lc.y11c *= w
	lc.y12c *= w
	lc.x11g *= w
	lc.x12g *= w
	lc.y11g *= w
	lc.y12g *= w
	lc.y11h *= w
	lc.y12h *= w
	lc.xm *= w
	lc.ym *= w
	lc.zm *= w
	return lc
}
