package hill

import "errors"

// Domain names a payload domain with its own modulus and pad symbol.
type Domain string

const (
	// DomainText is the 95-symbol printable alphabet.
	DomainText Domain = "text"
	// DomainUpper is the A-Z alphabet of the proof-of-concept scripts.
	DomainUpper Domain = "upper"
	// DomainMorse is the four-symbol Morse alphabet ".- /".
	DomainMorse Domain = "morse"
	// DomainBytes covers raw byte and 8-bit pixel streams.
	DomainBytes Domain = "bytes"
	// DomainAudio covers 16-bit PCM sample streams.
	DomainAudio Domain = "audio"
)

// Error kinds. Packages wrap these with context; match them with errors.Is.
var (
	// ErrNonInvertibleKey indicates the key determinant shares a factor with the modulus.
	ErrNonInvertibleKey = errors.New("key matrix is not invertible under modulus")

	// ErrShapeMismatch indicates a non-square key or a block/length disagreement.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrKeyGenerationExhausted indicates rejection sampling hit its attempt cap.
	ErrKeyGenerationExhausted = errors.New("key generation exhausted")

	// ErrNoInverseExists indicates a scalar has no inverse modulo m.
	ErrNoInverseExists = errors.New("no modular inverse exists")

	// ErrInvalidModulus indicates a modulus below 2 or above utils.MaxModulus.
	ErrInvalidModulus = errors.New("modulus out of range")
)

// =============================================================================
// Matrix Types
// =============================================================================

// Matrix is a row-major integer matrix. Key matrices are square with entries
// in [0, M). Operations never modify a Matrix passed to them.
type Matrix [][]int

// Dimension returns the number of rows.
func (m Matrix) Dimension() int {
	return len(m)
}

// =============================================================================
// Ciphertext Types
// =============================================================================

// Ciphertext is the output of a block transform.
// Symbols always holds a whole number of blocks; Length is the payload length
// before padding, so decoding can discard the padding again.
type Ciphertext struct {
	Symbols []int `json:"symbols" yaml:"symbols"`
	Length  int   `json:"length" yaml:"length"`
}
