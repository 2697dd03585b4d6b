// Package utils provides shared helpers for hill-go: SHAKE256 based seeded
// generators, secure randomness, and size guards.
// This file contains safe arithmetic and allocation helpers to prevent
// integer overflow and denial-of-service via large allocations.

package utils

import (
	"errors"
	"math"
)

// Maximum allowed sizes for caller-supplied inputs.
const (
	// MaxPayloadLength is the maximum number of symbols in one payload.
	MaxPayloadLength = 1 << 28

	// MaxDimension is the largest accepted key dimension.
	MaxDimension = 16

	// MaxModulus is the largest accepted modulus. Products of two residues
	// and their sums over a block stay inside int64.
	MaxModulus = 1 << 24
)

var (
	// ErrOverflow indicates an integer overflow occurred.
	ErrOverflow = errors.New("integer overflow")

	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("invalid length")
)

// SafeMultiply multiplies two non-negative integers and returns an error if overflow occurs.
func SafeMultiply(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, ErrInvalidLength
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxInt/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}

// CheckPositive validates that value is > 0.
func CheckPositive(value int, name string) error {
	if value <= 0 {
		return errors.New(name + " must be positive")
	}
	return nil
}
