package modmat

import (
	"fmt"
	"math/big"

	hill "github.com/BackendStack21/hill-go"
)

// Determinant computes the exact integer determinant of a square matrix.
// It uses fraction-free Bareiss elimination on big integers, so the result is
// exact for any dimension and never drifts the way floating point would.
func Determinant(m hill.Matrix) (*big.Int, error) {
	if err := CheckSquare(m); err != nil {
		return nil, err
	}
	return bareiss(m), nil
}

// bareiss assumes m is square and non-empty.
func bareiss(m hill.Matrix) *big.Int {
	n := len(m)
	a := make([][]*big.Int, n)
	for i := range m {
		a[i] = make([]*big.Int, n)
		for j, v := range m[i] {
			a[i][j] = big.NewInt(int64(v))
		}
	}

	negate := false
	prev := big.NewInt(1)
	t1, t2 := new(big.Int), new(big.Int)

	for k := 0; k < n-1; k++ {
		if a[k][k].Sign() == 0 {
			pivot := -1
			for i := k + 1; i < n; i++ {
				if a[i][k].Sign() != 0 {
					pivot = i
					break
				}
			}
			if pivot < 0 {
				return new(big.Int)
			}
			a[k], a[pivot] = a[pivot], a[k]
			negate = !negate
		}
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				// a[i][j] = (a[i][j]*a[k][k] - a[i][k]*a[k][j]) / prev, exact division
				t1.Mul(a[i][j], a[k][k])
				t2.Mul(a[i][k], a[k][j])
				t1.Sub(t1, t2)
				a[i][j] = new(big.Int).Quo(t1, prev)
			}
		}
		prev = a[k][k]
	}

	det := new(big.Int).Set(a[n-1][n-1])
	if negate {
		det.Neg(det)
	}
	return det
}

// DeterminantMod returns the determinant reduced into [0, modulus).
func DeterminantMod(m hill.Matrix, modulus int) (int, error) {
	if err := checkModulus(modulus); err != nil {
		return 0, err
	}
	det, err := Determinant(m)
	if err != nil {
		return 0, err
	}
	return reduceBig(det, modulus), nil
}

// reduceBig returns x mod m in [0, m). big.Int.Mod is Euclidean, so the
// result is non-negative for positive m.
func reduceBig(x *big.Int, m int) int {
	return int(new(big.Int).Mod(x, big.NewInt(int64(m))).Int64())
}

// minor returns m with row r and column c removed.
func minor(m hill.Matrix, r, c int) hill.Matrix {
	n := len(m)
	out := make(hill.Matrix, 0, n-1)
	for i := 0; i < n; i++ {
		if i == r {
			continue
		}
		row := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != c {
				row = append(row, m[i][j])
			}
		}
		out = append(out, row)
	}
	return out
}

// Cofactor returns the cofactor matrix C[i][j] = (-1)^(i+j) * det(minor(i, j)),
// with every entry reduced into [0, modulus).
// A 1x1 matrix has the single cofactor 1.
func Cofactor(m hill.Matrix, modulus int) (hill.Matrix, error) {
	if err := checkModulus(modulus); err != nil {
		return nil, err
	}
	if err := CheckSquare(m); err != nil {
		return nil, err
	}
	n := len(m)
	out := make(hill.Matrix, n)
	if n == 1 {
		out[0] = []int{1}
		return out, nil
	}
	for i := 0; i < n; i++ {
		out[i] = make([]int, n)
		for j := 0; j < n; j++ {
			d := bareiss(minor(m, i, j))
			if (i+j)%2 == 1 {
				d.Neg(d)
			}
			out[i][j] = reduceBig(d, modulus)
		}
	}
	return out, nil
}

// Adjugate returns the transpose of the cofactor matrix, entries in [0, modulus).
func Adjugate(m hill.Matrix, modulus int) (hill.Matrix, error) {
	c, err := Cofactor(m, modulus)
	if err != nil {
		return nil, err
	}
	return Transpose(c), nil
}

// IsInvertible reports whether m has an inverse modulo modulus,
// i.e. gcd(det(m) mod modulus, modulus) == 1.
func IsInvertible(m hill.Matrix, modulus int) bool {
	det, err := DeterminantMod(m, modulus)
	if err != nil {
		return false
	}
	return gcd(det, modulus) == 1
}

// Inverse computes the modular inverse of a square matrix:
// K^(-1) = det(K)^(-1) * adj(K) mod modulus.
// Returns hill.ErrNonInvertibleKey when gcd(det(K) mod modulus, modulus) != 1.
func Inverse(m hill.Matrix, modulus int) (hill.Matrix, error) {
	det, err := DeterminantMod(m, modulus)
	if err != nil {
		return nil, err
	}
	if g := gcd(det, modulus); g != 1 {
		return nil, fmt.Errorf("%w: det mod %d = %d shares factor %d", hill.ErrNonInvertibleKey, modulus, det, g)
	}
	detInv, err := ModInverse(det, modulus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", hill.ErrNonInvertibleKey, err)
	}

	adj, err := Adjugate(m, modulus)
	if err != nil {
		return nil, err
	}
	for i := range adj {
		for j := range adj[i] {
			adj[i][j] = mod(int64(detInv)*int64(adj[i][j]), modulus)
		}
	}
	return adj, nil
}
