// Package audio hardens Hill encryption of 16-bit audio samples with two
// reversible layers on top of the block transform:
//
//	encode: RAW -> HILL_ENCRYPTED -> PERMUTED -> MASKED
//	decode: MASKED -> PERMUTED -> HILL_ENCRYPTED -> RAW
//
// The block permutation is drawn from a SHAKE256 stream seeded with seed, and
// the additive mask from an independent stream seeded with seed+1.
//
// Decoding with the wrong seed cannot be detected: it silently yields noise.
package audio

import (
	"encoding/binary"
	"fmt"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/codec"
	"github.com/BackendStack21/hill-go/core"
	"github.com/BackendStack21/hill-go/engine"
	"github.com/BackendStack21/hill-go/modmat"
	"github.com/BackendStack21/hill-go/utils"
)

// Hash domains for the values derived from a seed or key. Changing any of
// them changes every hardened output.
const (
	// DomainPermutation seeds the SHAKE256 stream the block permutation is drawn from.
	DomainPermutation = "hill-audio-permutation-v1"
	// DomainMask seeds the SHAKE256 stream the additive mask is read from.
	DomainMask = "hill-audio-mask-v1"
	// DomainSeed separates SeedFromKey digests from other key hashes.
	DomainSeed = "hill-audio-seed-v1"
)

// Modulus is the residue ring for 16-bit samples.
var Modulus = core.AudioParams.Modulus

// Layer applies the Hill transform, block permutation and additive mask.
type Layer struct {
	engine *engine.Engine
	seed   int64
}

// New creates a hardening layer for key and seed.
func New(key hill.Matrix, seed int64) (*Layer, error) {
	e, err := engine.New(key, Modulus)
	if err != nil {
		return nil, err
	}
	return &Layer{engine: e, seed: seed}, nil
}

// Seed returns the layer seed.
func (l *Layer) Seed() int64 {
	return l.seed
}

// Harden encrypts samples (residues in [0, 65536)). The output keeps the
// padded block-aligned length; Length records the sample count.
func (l *Layer) Harden(samples []int) (*hill.Ciphertext, error) {
	n := l.engine.Dimension()
	blocks, length, err := codec.Chunk(samples, n, core.AudioParams.PadSymbol)
	if err != nil {
		return nil, err
	}

	// RAW -> HILL_ENCRYPTED
	enc, err := l.engine.EncodeBlocks(blocks)
	if err != nil {
		return nil, err
	}

	// HILL_ENCRYPTED -> PERMUTED
	perm := Permutation(l.seed, len(enc))
	permuted, err := ApplyPermutation(enc, perm)
	if err != nil {
		return nil, err
	}

	// PERMUTED -> MASKED
	mask := Mask(l.seed+1, len(permuted)*n)
	addMask(permuted, mask, 1)

	return &hill.Ciphertext{Symbols: codec.Flatten(permuted), Length: length}, nil
}

// Unharden reverses Harden: remove the mask, undo the permutation, then
// apply the inverse key.
func (l *Layer) Unharden(ct *hill.Ciphertext) ([]int, error) {
	if ct == nil {
		return nil, fmt.Errorf("%w: nil ciphertext", hill.ErrShapeMismatch)
	}
	n := l.engine.Dimension()
	if err := engine.CheckCiphertext(ct, n); err != nil {
		return nil, err
	}
	blocks, err := codec.Split(ct.Symbols, n)
	if err != nil {
		return nil, err
	}

	// MASKED -> PERMUTED
	mask := Mask(l.seed+1, len(ct.Symbols))
	addMask(blocks, mask, -1)

	// PERMUTED -> HILL_ENCRYPTED
	inv, err := InversePermutation(Permutation(l.seed, len(blocks)))
	if err != nil {
		return nil, err
	}
	restored, err := ApplyPermutation(blocks, inv)
	if err != nil {
		return nil, err
	}

	// HILL_ENCRYPTED -> RAW
	dec, err := l.engine.DecodeBlocks(restored)
	if err != nil {
		return nil, err
	}
	return codec.Reassemble(dec, ct.Length)
}

// addMask adds sign*mask to the blocks in place, mod 65536. Values are
// normalized into [0, 65536) on the way.
func addMask(blocks [][]int, mask []int, sign int) {
	k := 0
	for _, b := range blocks {
		for j := range b {
			b[j] = modmat.Mod(int64(b[j])+int64(sign*mask[k]), Modulus)
			k++
		}
	}
}

// Permutation returns a uniformly shuffled ordering of {0 .. n-1} derived
// from seed with a Fisher-Yates shuffle. n <= 0 yields an empty permutation.
func Permutation(seed int64, n int) []int {
	if n < 0 {
		n = 0
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	src := utils.NewShakeSourceInt64(DomainPermutation, seed)
	for i := n - 1; i > 0; i-- {
		j := src.MustIntn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// InversePermutation returns inv with inv[perm[i]] == i, the argument-sort of perm.
// Returns hill.ErrShapeMismatch if perm is not a bijection on {0 .. len(perm)-1}.
func InversePermutation(perm []int) ([]int, error) {
	inv := make([]int, len(perm))
	seen := make([]bool, len(perm))
	for i, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return nil, fmt.Errorf("%w: index %d is not a permutation entry", hill.ErrShapeMismatch, p)
		}
		seen[p] = true
		inv[p] = i
	}
	return inv, nil
}

// ApplyPermutation returns out with out[i] = blocks[perm[i]].
func ApplyPermutation(blocks [][]int, perm []int) ([][]int, error) {
	if len(perm) != len(blocks) {
		return nil, fmt.Errorf("%w: permutation of %d entries for %d blocks", hill.ErrShapeMismatch, len(perm), len(blocks))
	}
	out := make([][]int, len(blocks))
	for i, p := range perm {
		if p < 0 || p >= len(blocks) {
			return nil, fmt.Errorf("%w: permutation entry %d out of range", hill.ErrShapeMismatch, p)
		}
		out[i] = append([]int(nil), blocks[p]...)
	}
	return out, nil
}

// Mask returns count values uniform in [0, 65536) derived from seed.
// The modulus is 2^16, so each pair of SHAKE256 output bytes is one value.
func Mask(seed int64, count int) []int {
	if count < 0 {
		count = 0
	}
	stream := utils.Shake256(utils.HashWithDomain(DomainMask, utils.Int64Bytes(seed)), 2*count)
	mask := make([]int, count)
	for i := range mask {
		mask[i] = int(binary.LittleEndian.Uint16(stream[2*i:]))
	}
	return mask
}

// SeedFromKey derives a seed from the key entries, for callers that want the
// key to be the only shared secret.
func SeedFromKey(key hill.Matrix) int64 {
	buf := make([]byte, 0, 4+4*len(key)*len(key))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(key)))
	for _, row := range key {
		for _, v := range row {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(modmat.Mod(int64(v), Modulus)))
		}
	}
	digest := utils.HashWithDomain(DomainSeed, buf)
	return int64(binary.LittleEndian.Uint64(digest[:8]))
}

// Harden is a one-shot form of (*Layer).Harden.
func Harden(samples []int, key hill.Matrix, seed int64) (*hill.Ciphertext, error) {
	l, err := New(key, seed)
	if err != nil {
		return nil, err
	}
	return l.Harden(samples)
}

// Unharden is a one-shot form of (*Layer).Unharden.
func Unharden(ct *hill.Ciphertext, key hill.Matrix, seed int64) ([]int, error) {
	l, err := New(key, seed)
	if err != nil {
		return nil, err
	}
	return l.Unharden(ct)
}
