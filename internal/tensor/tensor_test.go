package tensor

import "testing"

func TestOuter(t *testing.T) {
	a := Vec{1, 2, 3}
	b := Vec{4, 5, 6}

	m := Outer(a, b)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := a[i] * b[j]
			if m[i][j] != want {
				t.Errorf("Outer[%d][%d] = %g, want %g", i, j, m[i][j], want)
			}
		}
	}
}

func TestEpsAntisymmetry(t *testing.T) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				if Eps[i][j][k] != -Eps[j][i][k] {
					t.Errorf("Eps[%d][%d][%d] not antisymmetric in first pair", i, j, k)
				}
				if Eps[i][j][k] != -Eps[i][k][j] {
					t.Errorf("Eps[%d][%d][%d] not antisymmetric in second pair", i, j, k)
				}
			}
		}
	}

	if Eps[0][1][2] != 1 || Eps[1][2][0] != 1 || Eps[2][0][1] != 1 {
		t.Error("even permutations must be +1")
	}
	if Eps[0][2][1] != -1 || Eps[2][1][0] != -1 || Eps[1][0][2] != -1 {
		t.Error("odd permutations must be -1")
	}
}

func TestBasisIndex(t *testing.T) {
	want := [2][5]int{
		{0, 0, 0, 1, 1},
		{2, 1, 2, 2, 2},
	}
	if BasisIndex != want {
		t.Errorf("BasisIndex = %v, want %v", BasisIndex, want)
	}
	// every lookup built from these pairs must stay in the upper
	// triangle, matching how rank-4 tensors are filled
	for c := 0; c < 5; c++ {
		if BasisIndex[0][c] > BasisIndex[1][c] {
			t.Errorf("column %d pair (%d,%d) not in upper triangle",
				c, BasisIndex[0][c], BasisIndex[1][c])
		}
	}
}
