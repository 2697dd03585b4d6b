// Package modmat implements modular linear algebra over Z_m for hill-go:
// exact determinants, cofactors, adjugates, and matrix inverses modulo m.
// Every result is returned with entries in [0, m).
package modmat

import (
	"fmt"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/utils"
)

// mod returns x mod m, ensuring the result is always non-negative in [0, m).
func mod(x int64, m int) int {
	r := x % int64(m)
	if r < 0 {
		r += int64(m)
	}
	return int(r)
}

// Mod exposes the non-negative remainder to the other packages.
func Mod(x int64, m int) int {
	return mod(x, m)
}

// gcd returns the greatest common divisor of |a| and |b|.
func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// GCD returns the greatest common divisor of |a| and |b|.
func GCD(a, b int) int {
	return gcd(a, b)
}

// checkModulus keeps every product of two residues inside int64.
func checkModulus(m int) error {
	if m < 2 {
		return fmt.Errorf("%w: got %d", hill.ErrInvalidModulus, m)
	}
	if m > utils.MaxModulus {
		return fmt.Errorf("%w: %d exceeds %d", hill.ErrInvalidModulus, m, utils.MaxModulus)
	}
	return nil
}

// ModInverse computes the modular multiplicative inverse a^(-1) mod m
// using the extended Euclidean algorithm. a may be negative or exceed m.
// Returns hill.ErrNoInverseExists when gcd(a, m) != 1.
func ModInverse(a, m int) (int, error) {
	if err := checkModulus(m); err != nil {
		return 0, err
	}
	oldR, r := mod(int64(a), m), m
	oldS, s := 1, 0

	for r != 0 {
		q := oldR / r
		oldR, r = r, oldR-q*r
		oldS, s = s, oldS-q*s
	}
	if oldR != 1 {
		return 0, fmt.Errorf("%w: gcd(%d, %d) = %d", hill.ErrNoInverseExists, a, m, oldR)
	}
	return mod(int64(oldS), m), nil
}

// CheckSquare validates that m is a non-empty square matrix within size limits.
func CheckSquare(m hill.Matrix) error {
	n := len(m)
	if n == 0 {
		return fmt.Errorf("%w: empty matrix", hill.ErrShapeMismatch)
	}
	if n > utils.MaxDimension {
		return fmt.Errorf("%w: dimension %d exceeds %d", hill.ErrShapeMismatch, n, utils.MaxDimension)
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", hill.ErrShapeMismatch, i, len(row), n)
		}
	}
	return nil
}

// Identity returns the n x n identity matrix.
func Identity(n int) hill.Matrix {
	id := make(hill.Matrix, n)
	for i := range id {
		id[i] = make([]int, n)
		id[i][i] = 1
	}
	return id
}

// Clone returns a deep copy of m.
func Clone(m hill.Matrix) hill.Matrix {
	out := make(hill.Matrix, len(m))
	for i, row := range m {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Reduce returns a copy of m with every entry reduced into [0, modulus).
func Reduce(m hill.Matrix, modulus int) hill.Matrix {
	out := make(hill.Matrix, len(m))
	for i, row := range m {
		out[i] = make([]int, len(row))
		for j, v := range row {
			out[i][j] = mod(int64(v), modulus)
		}
	}
	return out
}

// Transpose returns the transpose of a rectangular matrix.
func Transpose(m hill.Matrix) hill.Matrix {
	if len(m) == 0 {
		return hill.Matrix{}
	}
	rows, cols := len(m), len(m[0])
	out := make(hill.Matrix, cols)
	for j := 0; j < cols; j++ {
		out[j] = make([]int, rows)
		for i := 0; i < rows; i++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// Equal reports whether a and b have the same shape and entries.
func Equal(a, b hill.Matrix) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// Mul computes the product a * b mod modulus. Operands need not be reduced.
func Mul(a, b hill.Matrix, modulus int) (hill.Matrix, error) {
	if err := checkModulus(modulus); err != nil {
		return nil, err
	}
	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("%w: empty operand", hill.ErrShapeMismatch)
	}
	inner := len(b)
	cols := len(b[0])
	for i, row := range a {
		if len(row) != inner {
			return nil, fmt.Errorf("%w: row %d of left operand has %d columns, want %d", hill.ErrShapeMismatch, i, len(row), inner)
		}
	}
	for i, row := range b {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d of right operand has %d columns, want %d", hill.ErrShapeMismatch, i, len(row), cols)
		}
	}

	out := make(hill.Matrix, len(a))
	for i := range a {
		out[i] = make([]int, cols)
		for j := 0; j < cols; j++ {
			var sum int64
			for k := 0; k < inner; k++ {
				sum += int64(mod(int64(a[i][k]), modulus)) * int64(mod(int64(b[k][j]), modulus))
				sum %= int64(modulus)
			}
			out[i][j] = mod(sum, modulus)
		}
	}
	return out, nil
}

// MulVec computes the matrix-vector product m * v mod modulus,
// treating v as a column vector.
func MulVec(m hill.Matrix, v []int, modulus int) ([]int, error) {
	out := make([]int, len(m))
	if err := MulVecInto(out, m, v, modulus); err != nil {
		return nil, err
	}
	return out, nil
}

// MulVecInto writes m * v mod modulus into dst, which must have len(m) entries.
// dst and v must not overlap.
func MulVecInto(dst []int, m hill.Matrix, v []int, modulus int) error {
	if err := checkModulus(modulus); err != nil {
		return err
	}
	if len(dst) != len(m) {
		return fmt.Errorf("%w: destination has %d entries, want %d", hill.ErrShapeMismatch, len(dst), len(m))
	}
	for i, row := range m {
		if len(row) != len(v) {
			return fmt.Errorf("%w: vector has %d entries, matrix has %d columns", hill.ErrShapeMismatch, len(v), len(row))
		}
		var sum int64
		for j, x := range row {
			sum += int64(mod(int64(x), modulus)) * int64(mod(int64(v[j]), modulus))
			sum %= int64(modulus)
		}
		dst[i] = mod(sum, modulus)
	}
	return nil
}
