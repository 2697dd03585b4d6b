// Package bytestream enciphers raw byte and 8-bit pixel streams with the Hill
// transform over modulus 256.
package bytestream

import (
	"fmt"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/core"
	"github.com/BackendStack21/hill-go/engine"
	"github.com/BackendStack21/hill-go/utils"
)

// DefaultKey is used when NewCipher is given a nil key. det = 9, invertible mod 256.
var DefaultKey = hill.Matrix{{3, 3}, {2, 5}}

// Cipher enciphers byte streams with one key.
type Cipher struct {
	engine *engine.Engine
}

// NewCipher creates a byte cipher. A nil key selects DefaultKey.
func NewCipher(key hill.Matrix) (*Cipher, error) {
	if key == nil {
		key = DefaultKey
	}
	e, err := engine.New(key, core.BytesParams.Modulus)
	if err != nil {
		return nil, err
	}
	return &Cipher{engine: e}, nil
}

// Key returns a copy of the cipher key.
func (c *Cipher) Key() hill.Matrix {
	return c.engine.Key()
}

// Encrypt enciphers data, padding the last block with zero bytes.
func (c *Cipher) Encrypt(data []byte) (*hill.Ciphertext, error) {
	return c.engine.Encode(BytesToResidues(data), core.BytesParams.PadSymbol)
}

// Decrypt reverses Encrypt and drops the padding.
func (c *Cipher) Decrypt(ct *hill.Ciphertext) ([]byte, error) {
	plain, err := c.engine.Decode(ct)
	if err != nil {
		return nil, err
	}
	return ResiduesToBytes(plain), nil
}

// EncryptImage enciphers an interleaved 8-bit pixel buffer of the given shape.
// Pixels are processed in row-major channel order.
func (c *Cipher) EncryptImage(pixels []byte, width, height, channels int) (*hill.Ciphertext, error) {
	if err := CheckImageShape(len(pixels), width, height, channels); err != nil {
		return nil, err
	}
	return c.Encrypt(pixels)
}

// DecryptImage reverses EncryptImage and checks the recovered buffer shape.
func (c *Cipher) DecryptImage(ct *hill.Ciphertext, width, height, channels int) ([]byte, error) {
	pixels, err := c.Decrypt(ct)
	if err != nil {
		return nil, err
	}
	if err := CheckImageShape(len(pixels), width, height, channels); err != nil {
		return nil, err
	}
	return pixels, nil
}

// CheckImageShape verifies that a buffer of size bytes holds exactly
// width*height*channels samples.
func CheckImageShape(size, width, height, channels int) error {
	if err := utils.CheckPositive(width, "width"); err != nil {
		return err
	}
	if err := utils.CheckPositive(height, "height"); err != nil {
		return err
	}
	if err := utils.CheckPositive(channels, "channels"); err != nil {
		return err
	}
	area, err := utils.SafeMultiply(width, height)
	if err != nil {
		return err
	}
	want, err := utils.SafeMultiply(area, channels)
	if err != nil {
		return err
	}
	if size != want {
		return fmt.Errorf("%w: %d bytes for a %dx%dx%d image", hill.ErrShapeMismatch, size, width, height, channels)
	}
	return nil
}

// BytesToResidues widens bytes to residues.
func BytesToResidues(data []byte) []int {
	out := make([]int, len(data))
	for i, b := range data {
		out[i] = int(b)
	}
	return out
}

// ResiduesToBytes narrows residues in [0, 256) to bytes.
func ResiduesToBytes(residues []int) []byte {
	out := make([]byte, len(residues))
	for i, r := range residues {
		out[i] = byte(r)
	}
	return out
}
