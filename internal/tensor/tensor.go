// Package tensor provides the small fixed-size tensors used to build
// hydrodynamic coupling blocks: rank 2-4 arrays over 3-space plus the
// constant isotropic tensors of the theory.
package tensor

// Vec is a 3-vector.
type Vec [3]float64

// Mat is a 3x3 second-rank tensor.
type Mat [3][3]float64

// Mat35 holds a rank-3 tensor projected onto the 5-component
// symmetric/traceless basis.
type Mat35 [3][5]float64

// Mat55 holds a rank-4 tensor projected onto the 5-component basis on
// both index pairs.
type Mat55 [5][5]float64

// Ten3 is a 3x3x3 third-rank tensor.
type Ten3 [3][3][3]float64

// Ten4 is a 3x3x3x3 fourth-rank tensor.
type Ten4 [3][3][3][3]float64

// Delta is the Kronecker delta.
var Delta = Mat{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Eps is the fully antisymmetric Levi-Civita tensor.
var Eps = Ten3{
	{{0, 0, 0}, {0, 0, 1}, {0, -1, 0}},
	{{0, 0, -1}, {0, 0, 0}, {1, 0, 0}},
	{{0, 1, 0}, {-1, 0, 0}, {0, 0, 0}},
}

// BasisIndex maps each of the 5 independent components of a symmetric
// traceless 3x3 tensor (shear rate E, stresslet S) to the tensor index
// pair it linearizes: EV_1 = E_11-E_33, EV_2 = 2*E_12, EV_3 = 2*E_13,
// EV_4 = 2*E_23, EV_5 = E_22-E_33.
var BasisIndex = [2][5]int{
	{0, 0, 0, 1, 1},
	{2, 1, 2, 2, 2},
}

// Outer returns the outer product a_i * b_j.
func Outer(a, b Vec) Mat {
	var m Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = a[i] * b[j]
		}
	}
	return m
}
