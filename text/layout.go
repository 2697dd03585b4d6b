package text

import (
	"fmt"
	"strings"
	"unicode"

	hill "github.com/BackendStack21/hill-go"
)

// EncryptPreservingLayout enciphers only the ASCII letters of msg over the
// Upper alphabet and writes each result back into the position of the letter
// it replaces, in that letter's case. Everything else passes through.
// Padding letters needed to complete the last block are appended at the end.
//
// The output reveals the message length and the position of every
// non-letter character.
func EncryptPreservingLayout(msg string, key hill.Matrix) (string, error) {
	c, err := NewCipher(Upper, key)
	if err != nil {
		return "", err
	}
	runes := []rune(msg)
	letters := foldLetters(runes)
	ct, err := c.engine.Encode(letters, Upper.PadIndex())
	if err != nil {
		return "", err
	}
	return restoreLayout(runes, ct.Symbols)
}

// DecryptPreservingLayout reverses EncryptPreservingLayout. The letter count
// of ciphertext must be a multiple of the key dimension. Up to n-1 trailing
// upper-case 'X' letters are treated as padding and removed.
func DecryptPreservingLayout(ciphertext string, key hill.Matrix) (string, error) {
	c, err := NewCipher(Upper, key)
	if err != nil {
		return "", err
	}
	runes := []rune(ciphertext)
	letters := foldLetters(runes)
	n := c.engine.Dimension()
	if len(letters)%n != 0 {
		return "", fmt.Errorf("%w: %d letters for block width %d", hill.ErrShapeMismatch, len(letters), n)
	}
	plain, err := c.engine.Decode(&hill.Ciphertext{Symbols: letters, Length: len(letters)})
	if err != nil {
		return "", err
	}
	out, err := restoreLayout(runes, plain)
	if err != nil {
		return "", err
	}
	return trimPadding(out, Upper.PadSymbol(), n-1), nil
}

// foldLetters returns the Upper residues of the ASCII letters in runes.
func foldLetters(runes []rune) []int {
	letters := make([]int, 0, len(runes))
	for _, r := range runes {
		if isASCIILetter(r) {
			letters = append(letters, int(unicode.ToUpper(r)-'A'))
		}
	}
	return letters
}

// restoreLayout writes symbols into the letter positions of runes, keeping
// each position's case, and appends any remaining symbols in upper case.
func restoreLayout(runes []rune, symbols []int) (string, error) {
	var sb strings.Builder
	sb.Grow(len(runes) + len(symbols))
	k := 0
	for _, r := range runes {
		if !isASCIILetter(r) {
			sb.WriteRune(r)
			continue
		}
		s, err := Upper.Symbol(symbols[k])
		if err != nil {
			return "", err
		}
		if unicode.IsLower(r) {
			s = unicode.ToLower(s)
		}
		sb.WriteRune(s)
		k++
	}
	for ; k < len(symbols); k++ {
		s, err := Upper.Symbol(symbols[k])
		if err != nil {
			return "", err
		}
		sb.WriteRune(s)
	}
	return sb.String(), nil
}

func trimPadding(s string, pad rune, max int) string {
	for i := 0; i < max && strings.HasSuffix(s, string(pad)); i++ {
		s = s[:len(s)-len(string(pad))]
	}
	return s
}

func isASCIILetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}
