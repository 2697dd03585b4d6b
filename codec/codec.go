// Package codec splits flat residue payloads into fixed-width blocks with
// deterministic padding, and reassembles them back to the original length.
package codec

import (
	"fmt"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/utils"
)

// PaddedLength returns the smallest multiple of n that is >= length.
func PaddedLength(length, n int) int {
	if n <= 0 {
		return length
	}
	if r := length % n; r != 0 {
		return length + n - r
	}
	return length
}

// Chunk splits payload into blocks of width n. If len(payload) is not a
// multiple of n, the last block is filled with pad. The payload length before
// padding is returned alongside the blocks. The payload is not modified.
func Chunk(payload []int, n, pad int) ([][]int, int, error) {
	if n < 1 {
		return nil, 0, fmt.Errorf("%w: block width %d", hill.ErrShapeMismatch, n)
	}
	if err := utils.CheckLength(len(payload), utils.MaxPayloadLength); err != nil {
		return nil, 0, fmt.Errorf("payload of %d symbols: %w", len(payload), err)
	}

	originalLength := len(payload)
	total := PaddedLength(originalLength, n)
	flat := make([]int, total)
	copy(flat, payload)
	for i := originalLength; i < total; i++ {
		flat[i] = pad
	}

	// Blocks are views into one backing array, capped so an append on one
	// block can never spill into its neighbour.
	blocks := make([][]int, total/n)
	for b := range blocks {
		blocks[b] = flat[b*n : (b+1)*n : (b+1)*n]
	}
	return blocks, originalLength, nil
}

// Flatten concatenates blocks in order.
func Flatten(blocks [][]int) []int {
	size := 0
	for _, b := range blocks {
		size += len(b)
	}
	out := make([]int, 0, size)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

// Reassemble flattens blocks in block order and truncates the result to
// originalLength, discarding trailing padding.
// All blocks must share one width, and originalLength must not exceed the
// flattened length.
func Reassemble(blocks [][]int, originalLength int) ([]int, error) {
	if err := checkUniform(blocks); err != nil {
		return nil, err
	}
	flat := Flatten(blocks)
	if originalLength < 0 || originalLength > len(flat) {
		return nil, fmt.Errorf("%w: original length %d outside [0, %d]", hill.ErrShapeMismatch, originalLength, len(flat))
	}
	return flat[:originalLength:originalLength], nil
}

// Split divides a flat sequence whose length is already a multiple of n into
// blocks without padding.
func Split(flat []int, n int) ([][]int, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: block width %d", hill.ErrShapeMismatch, n)
	}
	if len(flat)%n != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of block width %d", hill.ErrShapeMismatch, len(flat), n)
	}
	blocks, _, err := Chunk(flat, n, 0)
	return blocks, err
}

func checkUniform(blocks [][]int) error {
	if len(blocks) == 0 {
		return nil
	}
	n := len(blocks[0])
	for i, b := range blocks {
		if len(b) != n {
			return fmt.Errorf("%w: block %d has width %d, want %d", hill.ErrShapeMismatch, i, len(b), n)
		}
	}
	return nil
}
