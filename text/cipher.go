package text

import (
	"fmt"
	"strings"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/engine"
)

// Cipher enciphers strings over one alphabet with one key.
type Cipher struct {
	alphabet *Alphabet
	engine   *engine.Engine
}

// NewCipher creates a cipher for alphabet and key. The key is reduced modulo
// the alphabet size.
func NewCipher(alphabet *Alphabet, key hill.Matrix) (*Cipher, error) {
	if alphabet == nil {
		return nil, fmt.Errorf("nil alphabet")
	}
	e, err := engine.New(key, alphabet.Modulus())
	if err != nil {
		return nil, err
	}
	return &Cipher{alphabet: alphabet, engine: e}, nil
}

// Alphabet returns the cipher alphabet.
func (c *Cipher) Alphabet() *Alphabet {
	return c.alphabet
}

// Engine returns the underlying block engine.
func (c *Cipher) Engine() *engine.Engine {
	return c.engine
}

// EncryptSymbols encrypts msg and keeps the original length alongside the
// symbols, so DecryptSymbols restores msg exactly (minus dropped characters).
func (c *Cipher) EncryptSymbols(msg string) (*hill.Ciphertext, error) {
	return c.engine.Encode(c.alphabet.Encode(msg), c.alphabet.PadIndex())
}

// DecryptSymbols reverses EncryptSymbols.
func (c *Cipher) DecryptSymbols(ct *hill.Ciphertext) (string, error) {
	plain, err := c.engine.Decode(ct)
	if err != nil {
		return "", err
	}
	return c.alphabet.Decode(plain)
}

// Encrypt enciphers msg. Characters outside the alphabet are dropped and the
// last block is filled with the pad symbol, so the result length is a
// multiple of the key dimension.
func (c *Cipher) Encrypt(msg string) (string, error) {
	ct, err := c.EncryptSymbols(msg)
	if err != nil {
		return "", err
	}
	return c.alphabet.Decode(ct.Symbols)
}

// Decrypt deciphers a string produced by Encrypt. A ragged final block is
// completed with the pad symbol, and trailing pad symbols are trimmed from
// the plaintext; a message that itself ended in pad symbols loses them.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	symbols := c.alphabet.Encode(ciphertext)
	n := c.engine.Dimension()
	for len(symbols)%n != 0 {
		symbols = append(symbols, c.alphabet.PadIndex())
	}
	plain, err := c.DecryptSymbols(&hill.Ciphertext{Symbols: symbols, Length: len(symbols)})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(plain, string(c.alphabet.PadSymbol())), nil
}

// Encrypt is a one-shot form of (*Cipher).Encrypt.
func Encrypt(alphabet *Alphabet, msg string, key hill.Matrix) (string, error) {
	c, err := NewCipher(alphabet, key)
	if err != nil {
		return "", err
	}
	return c.Encrypt(msg)
}

// Decrypt is a one-shot form of (*Cipher).Decrypt.
func Decrypt(alphabet *Alphabet, ciphertext string, key hill.Matrix) (string, error) {
	c, err := NewCipher(alphabet, key)
	if err != nil {
		return "", err
	}
	return c.Decrypt(ciphertext)
}
