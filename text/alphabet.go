// Package text maps strings onto residue alphabets and enciphers them with
// the Hill transform.
//
// Three alphabets are built in:
//
//   - Printable: 95 printable ASCII symbols, padded with a space
//   - Upper: the letters A-Z, padded with 'X'
//   - MorseSymbols: the Morse symbols ".- /", padded with a space
//
// Characters outside an alphabet are dropped before encryption. MorseSymbols
// is no exception: a stray character in Morse input is removed, not read as
// a space.
package text

import (
	"errors"
	"fmt"
	"strings"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/core"
)

// ErrInvalidSymbol is returned when an index falls outside the alphabet.
var ErrInvalidSymbol = errors.New("symbol outside alphabet")

// Alphabet is an ordered set of distinct symbols; a symbol's position is its residue.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
	pad     int
}

// New builds an alphabet from symbols. pad must be one of the symbols.
func New(symbols string, pad rune) (*Alphabet, error) {
	runes := []rune(symbols)
	if len(runes) < 2 {
		return nil, fmt.Errorf("%w: alphabet has %d symbols", hill.ErrInvalidModulus, len(runes))
	}
	a := &Alphabet{
		symbols: runes,
		index:   make(map[rune]int, len(runes)),
		pad:     -1,
	}
	for i, r := range runes {
		if _, dup := a.index[r]; dup {
			return nil, fmt.Errorf("duplicate symbol %q in alphabet", r)
		}
		a.index[r] = i
		if r == pad {
			a.pad = i
		}
	}
	if a.pad < 0 {
		return nil, fmt.Errorf("pad symbol %q is not in the alphabet", pad)
	}
	return a, nil
}

func mustNew(symbols string, pad rune, params core.DomainParams) *Alphabet {
	a, err := New(symbols, pad)
	if err != nil {
		panic(err)
	}
	if a.Modulus() != params.Modulus || a.PadIndex() != params.PadSymbol {
		panic(fmt.Sprintf("text: alphabet does not match %s parameters", params.Domain))
	}
	return a
}

// Built-in alphabets.
var (
	Printable    = mustNew("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 .,!?;:'\"-()[]{}<>@#$%^&*_+=/\\|`~", ' ', core.TextParams)
	Upper        = mustNew("ABCDEFGHIJKLMNOPQRSTUVWXYZ", 'X', core.UpperParams)
	MorseSymbols = mustNew(".- /", ' ', core.MorseParams)
)

// ForDomain returns the built-in alphabet of a text domain.
func ForDomain(domain hill.Domain) (*Alphabet, error) {
	switch domain {
	case hill.DomainText:
		return Printable, nil
	case hill.DomainUpper:
		return Upper, nil
	case hill.DomainMorse:
		return MorseSymbols, nil
	default:
		return nil, fmt.Errorf("domain %s has no alphabet", domain)
	}
}

// Modulus returns the alphabet size.
func (a *Alphabet) Modulus() int {
	return len(a.symbols)
}

// PadIndex returns the residue of the pad symbol.
func (a *Alphabet) PadIndex() int {
	return a.pad
}

// PadSymbol returns the pad symbol.
func (a *Alphabet) PadSymbol() rune {
	return a.symbols[a.pad]
}

// Index returns the residue of r and whether r is in the alphabet.
func (a *Alphabet) Index(r rune) (int, bool) {
	i, ok := a.index[r]
	return i, ok
}

// Symbol returns the symbol at residue i.
func (a *Alphabet) Symbol(i int) (rune, error) {
	if i < 0 || i >= len(a.symbols) {
		return 0, fmt.Errorf("%w: index %d, alphabet size %d", ErrInvalidSymbol, i, len(a.symbols))
	}
	return a.symbols[i], nil
}

// Contains reports whether r is in the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Encode maps s to residues. Characters outside the alphabet are dropped.
func (a *Alphabet) Encode(s string) []int {
	out := make([]int, 0, len(s))
	for _, r := range s {
		if i, ok := a.index[r]; ok {
			out = append(out, i)
		}
	}
	return out
}

// Decode maps residues back to a string.
func (a *Alphabet) Decode(indices []int) (string, error) {
	var sb strings.Builder
	sb.Grow(len(indices))
	for _, i := range indices {
		r, err := a.Symbol(i)
		if err != nil {
			return "", err
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// String returns the symbols in residue order.
func (a *Alphabet) String() string {
	return string(a.symbols)
}
