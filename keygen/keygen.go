// Package keygen generates invertible Hill key matrices by rejection sampling.
package keygen

import (
	"errors"
	"fmt"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/core"
	"github.com/BackendStack21/hill-go/modmat"
	"github.com/BackendStack21/hill-go/utils"
)

const (
	// DomainKey separates the SHAKE256 stream of GenerateFromSeed from other
	// seeded streams, so a seed shared with the audio layer yields unrelated values.
	DomainKey = "hill-keygen-matrix-v1"

	// MaxAttempts bounds rejection sampling. For the supported moduli the
	// acceptance rate is well above 1/10, so hitting the cap means the
	// modulus makes invertible keys improbable.
	MaxAttempts = 1024
)

// Generate draws a random invertible n x n key modulo modulus from the
// operating system CSPRNG.
func Generate(n, modulus int) (hill.Matrix, error) {
	return GenerateWithSource(n, modulus, utils.SecureSource{})
}

// GenerateFromSeed draws a reproducible key: the same seed, dimension and
// modulus always yield the same matrix.
func GenerateFromSeed(n, modulus int, seed []byte) (hill.Matrix, error) {
	if len(seed) == 0 {
		return nil, errors.New("seed must not be empty")
	}
	return GenerateWithSource(n, modulus, utils.NewShakeSource(DomainKey, seed))
}

// GenerateWithSource repeatedly samples a matrix with entries uniform in
// [0, modulus) from src until gcd(det mod modulus, modulus) == 1.
// Returns hill.ErrKeyGenerationExhausted after MaxAttempts rejections.
func GenerateWithSource(n, modulus int, src utils.Source) (hill.Matrix, error) {
	if n < 1 || n > utils.MaxDimension {
		return nil, fmt.Errorf("%w: dimension %d outside [1, %d]", hill.ErrShapeMismatch, n, utils.MaxDimension)
	}
	if err := core.ValidateModulus(modulus); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New("nil random source")
	}

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		candidate, err := sampleMatrix(src, n, modulus)
		if err != nil {
			return nil, err
		}
		if modmat.IsInvertible(candidate, modulus) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%w: no invertible %dx%d matrix mod %d after %d attempts",
		hill.ErrKeyGenerationExhausted, n, n, modulus, MaxAttempts)
}

// sampleMatrix draws n*n entries in row-major order.
func sampleMatrix(src utils.Source, n, modulus int) (hill.Matrix, error) {
	m := make(hill.Matrix, n)
	for i := range m {
		m[i] = make([]int, n)
		for j := range m[i] {
			v, err := src.Intn(modulus)
			if err != nil {
				return nil, fmt.Errorf("sampling key entry: %w", err)
			}
			m[i][j] = v
		}
	}
	return m, nil
}

// ForDomain generates a random key with the domain's modulus and default dimension.
// A dimension of 0 selects the domain default.
func ForDomain(domain hill.Domain, dimension int) (hill.Matrix, error) {
	params, err := core.GetParams(domain)
	if err != nil {
		return nil, err
	}
	if dimension == 0 {
		dimension = params.Dimension
	}
	return Generate(dimension, params.Modulus)
}
