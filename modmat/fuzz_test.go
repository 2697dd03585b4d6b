package modmat

import (
	"testing"

	hill "github.com/BackendStack21/hill-go"
)

// FuzzInverse2x2 checks K * K^-1 == I for every invertible 2x2 key it is fed.
func FuzzInverse2x2(f *testing.F) {
	f.Add(3, 3, 2, 5, 256)
	f.Add(2, 4, 1, 2, 8)
	f.Add(-9, 1, 7, 65535, 65536)

	f.Fuzz(func(t *testing.T, a, b, c, d, modulus int) {
		if modulus < 2 || modulus > 1<<16 {
			return
		}
		if a > 1<<20 || a < -1<<20 || b > 1<<20 || b < -1<<20 ||
			c > 1<<20 || c < -1<<20 || d > 1<<20 || d < -1<<20 {
			return
		}
		key := hill.Matrix{{a, b}, {c, d}}
		inv, err := Inverse(key, modulus)
		if err != nil {
			if IsInvertible(key, modulus) {
				t.Fatalf("Inverse failed for invertible key: %v", err)
			}
			return
		}
		prod, err := Mul(Reduce(key, modulus), inv, modulus)
		if err != nil {
			t.Fatal(err)
		}
		if !Equal(prod, Identity(2)) {
			t.Fatalf("K * K^-1 = %v", prod)
		}
	})
}
