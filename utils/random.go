package utils

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/sha3"
)

// RandReader feeds SecureRandomBytes. Tests may swap it for a deterministic reader.
var RandReader io.Reader = rand.Reader

// ErrInvalidBound is returned when a sampling bound is not positive.
var ErrInvalidBound = errors.New("max must be positive")

// Source produces uniform integers in [0, max).
// Key generation and the audio hardening layer take an explicit Source
// instead of reaching for a process-wide generator.
type Source interface {
	Intn(max int) (int, error)
}

// SecureRandomBytes generates n cryptographically secure random bytes.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := io.ReadFull(RandReader, buf)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// RandomInt generates a cryptographically secure random integer in [0, max).
// It uses rejection sampling to ensure a uniform distribution.
func RandomInt(max int) (int, error) {
	if max <= 0 {
		return 0, ErrInvalidBound
	}
	if max == 1 {
		return 0, nil
	}

	bitsNeeded := 0
	for m := max - 1; m > 0; m >>= 1 {
		bitsNeeded++
	}
	bytesNeeded := (bitsNeeded + 7) / 8
	mask := (1 << bitsNeeded) - 1

	for {
		bytes, err := SecureRandomBytes(bytesNeeded)
		if err != nil {
			return 0, err
		}

		var value int
		for i := 0; i < bytesNeeded; i++ {
			value = (value << 8) | int(bytes[i])
		}
		value &= mask

		if value < max {
			return value, nil
		}
	}
}

// SecureSource is a Source backed by RandReader.
type SecureSource struct{}

// Intn implements Source.
func (SecureSource) Intn(max int) (int, error) {
	return RandomInt(max)
}

// ShakeSource is a deterministic Source reading from a SHAKE256 stream.
// The same seed always yields the same sequence of values.
// A ShakeSource is not safe for concurrent use.
type ShakeSource struct {
	xof sha3.ShakeHash
	buf [4]byte
}

// NewShakeSource absorbs seed under the given domain and returns a source
// that squeezes the output stream on demand.
func NewShakeSource(domain string, seed []byte) *ShakeSource {
	xof := sha3.NewShake256()
	xof.Write(HashWithDomain(domain, seed))
	return &ShakeSource{xof: xof}
}

// NewShakeSourceInt64 is NewShakeSource for an integer seed.
func NewShakeSourceInt64(domain string, seed int64) *ShakeSource {
	return NewShakeSource(domain, Int64Bytes(seed))
}

// Uint32 returns the next 4 bytes of the stream as a little-endian integer.
func (s *ShakeSource) Uint32() uint32 {
	_, _ = s.xof.Read(s.buf[:])
	return binary.LittleEndian.Uint32(s.buf[:])
}

// Intn returns a uniform value in [0, max).
// Values above the largest multiple of max are rejected to keep the
// distribution unbiased.
func (s *ShakeSource) Intn(max int) (int, error) {
	if max <= 0 {
		return 0, ErrInvalidBound
	}
	if uint64(max) > 1<<32 {
		return 0, ErrExceedsLimit
	}
	if max == 1 {
		return 0, nil
	}
	q := uint64(max)
	threshold := (1 << 32) - ((1 << 32) % q)
	for {
		value := uint64(s.Uint32())
		if value < threshold {
			return int(value % q), nil
		}
	}
}

// MustIntn is Intn for callers that have already validated max.
func (s *ShakeSource) MustIntn(max int) int {
	v, err := s.Intn(max)
	if err != nil {
		panic(err)
	}
	return v
}
