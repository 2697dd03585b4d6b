// Package engine implements the Hill transform: every block b of a payload is
// replaced by K · b mod M, with b taken as a column vector. Decoding applies
// K^(-1) the same way. The transform is pure and deterministic.
package engine

import (
	"fmt"
	"sync"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/codec"
	"github.com/BackendStack21/hill-go/core"
	"github.com/BackendStack21/hill-go/modmat"
)

// Engine holds a key and its lazily computed inverse for one modulus.
// The key is copied on construction and never modified afterwards, so an
// Engine may be shared between goroutines.
type Engine struct {
	key     hill.Matrix
	modulus int

	invOnce sync.Once
	inv     hill.Matrix
	invErr  error
}

// New creates an engine for key under modulus. Key entries are reduced into
// [0, modulus). The key does not have to be invertible to encode; Decode
// reports hill.ErrNonInvertibleKey in that case.
func New(key hill.Matrix, modulus int) (*Engine, error) {
	if err := core.ValidateModulus(modulus); err != nil {
		return nil, err
	}
	if err := modmat.CheckSquare(key); err != nil {
		return nil, fmt.Errorf("key: %w", err)
	}
	return &Engine{
		key:     modmat.Reduce(key, modulus),
		modulus: modulus,
	}, nil
}

// Dimension returns the block width n.
func (e *Engine) Dimension() int {
	return len(e.key)
}

// Modulus returns the residue ring size.
func (e *Engine) Modulus() int {
	return e.modulus
}

// Key returns a copy of the reduced key.
func (e *Engine) Key() hill.Matrix {
	return modmat.Clone(e.key)
}

// Inverse returns a copy of the inverse key, computing it on first use.
func (e *Engine) Inverse() (hill.Matrix, error) {
	inv, err := e.inverse()
	if err != nil {
		return nil, err
	}
	return modmat.Clone(inv), nil
}

func (e *Engine) inverse() (hill.Matrix, error) {
	e.invOnce.Do(func() {
		e.inv, e.invErr = modmat.Inverse(e.key, e.modulus)
	})
	return e.inv, e.invErr
}

// EncodeBlocks applies the key to every block.
func (e *Engine) EncodeBlocks(blocks [][]int) ([][]int, error) {
	return e.apply(e.key, blocks)
}

// DecodeBlocks applies the inverse key to every block.
func (e *Engine) DecodeBlocks(blocks [][]int) ([][]int, error) {
	inv, err := e.inverse()
	if err != nil {
		return nil, err
	}
	return e.apply(inv, blocks)
}

// apply computes m · b mod M for each block b. Input symbols are normalized
// into [0, M) first so negative values behave like their residues.
func (e *Engine) apply(m hill.Matrix, blocks [][]int) ([][]int, error) {
	n := len(m)
	out := make([][]int, len(blocks))
	backing := make([]int, len(blocks)*n)
	col := make([]int, n)
	for i, b := range blocks {
		if len(b) != n {
			return nil, fmt.Errorf("%w: block %d has width %d, key dimension is %d", hill.ErrShapeMismatch, i, len(b), n)
		}
		for j, v := range b {
			col[j] = modmat.Mod(int64(v), e.modulus)
		}
		dst := backing[i*n : (i+1)*n : (i+1)*n]
		if err := modmat.MulVecInto(dst, m, col, e.modulus); err != nil {
			return nil, err
		}
		out[i] = dst
	}
	return out, nil
}

// Encode chunks payload (padding with pad), encrypts every block, and returns
// the full padded ciphertext together with the original payload length.
func (e *Engine) Encode(payload []int, pad int) (*hill.Ciphertext, error) {
	blocks, length, err := codec.Chunk(payload, e.Dimension(), pad)
	if err != nil {
		return nil, err
	}
	enc, err := e.EncodeBlocks(blocks)
	if err != nil {
		return nil, err
	}
	return &hill.Ciphertext{Symbols: codec.Flatten(enc), Length: length}, nil
}

// Decode decrypts a ciphertext produced by Encode and truncates the result to
// the recorded original length.
func (e *Engine) Decode(ct *hill.Ciphertext) ([]int, error) {
	blocks, err := e.splitCiphertext(ct)
	if err != nil {
		return nil, err
	}
	dec, err := e.DecodeBlocks(blocks)
	if err != nil {
		return nil, err
	}
	return codec.Reassemble(dec, ct.Length)
}

// splitCiphertext validates the ciphertext shape and cuts it into blocks.
func (e *Engine) splitCiphertext(ct *hill.Ciphertext) ([][]int, error) {
	if ct == nil {
		return nil, fmt.Errorf("%w: nil ciphertext", hill.ErrShapeMismatch)
	}
	n := e.Dimension()
	if err := CheckCiphertext(ct, n); err != nil {
		return nil, err
	}
	return codec.Split(ct.Symbols, n)
}

// CheckCiphertext validates that ct holds whole blocks of width n and that its
// recorded length could have produced that many blocks.
func CheckCiphertext(ct *hill.Ciphertext, n int) error {
	if len(ct.Symbols)%n != 0 {
		return fmt.Errorf("%w: ciphertext length %d is not a multiple of block width %d", hill.ErrShapeMismatch, len(ct.Symbols), n)
	}
	if ct.Length < 0 || ct.Length > len(ct.Symbols) || codec.PaddedLength(ct.Length, n) != len(ct.Symbols) {
		return fmt.Errorf("%w: original length %d does not match %d ciphertext symbols", hill.ErrShapeMismatch, ct.Length, len(ct.Symbols))
	}
	return nil
}

// Encode is a one-shot form of (*Engine).Encode.
func Encode(payload []int, key hill.Matrix, modulus, pad int) (*hill.Ciphertext, error) {
	e, err := New(key, modulus)
	if err != nil {
		return nil, err
	}
	return e.Encode(payload, pad)
}

// Decode is a one-shot form of (*Engine).Decode.
func Decode(ct *hill.Ciphertext, key hill.Matrix, modulus int) ([]int, error) {
	e, err := New(key, modulus)
	if err != nil {
		return nil, err
	}
	return e.Decode(ct)
}
