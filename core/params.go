// Package core provides per-domain parameter sets and validation for hill-go.
package core

import (
	"errors"
	"fmt"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/utils"
)

// DomainParams describes the arithmetic of one payload domain.
type DomainParams struct {
	Domain    hill.Domain `json:"domain" yaml:"domain"`
	Modulus   int         `json:"modulus" yaml:"modulus"`       // Size of the residue ring
	PadSymbol int         `json:"pad_symbol" yaml:"pad_symbol"` // Residue appended to fill the last block
	Dimension int         `json:"dimension" yaml:"dimension"`   // Default key dimension
}

// TextParams is the 95-symbol printable alphabet. Padding is the space symbol (index 62).
var TextParams = DomainParams{
	Domain:    hill.DomainText,
	Modulus:   95,
	PadSymbol: 62,
	Dimension: 3,
}

// UpperParams is the A-Z alphabet. Padding is 'X'.
var UpperParams = DomainParams{
	Domain:    hill.DomainUpper,
	Modulus:   26,
	PadSymbol: 23,
	Dimension: 2,
}

// MorseParams is the ".- /" symbol alphabet. Padding is the letter separator.
var MorseParams = DomainParams{
	Domain:    hill.DomainMorse,
	Modulus:   4,
	PadSymbol: 2,
	Dimension: 2,
}

// BytesParams covers bytes and 8-bit pixel channels.
var BytesParams = DomainParams{
	Domain:    hill.DomainBytes,
	Modulus:   256,
	PadSymbol: 0,
	Dimension: 2,
}

// AudioParams covers 16-bit PCM samples.
var AudioParams = DomainParams{
	Domain:    hill.DomainAudio,
	Modulus:   65536,
	PadSymbol: 0,
	Dimension: 2,
}

// GetParams returns the parameter set for the given domain.
func GetParams(domain hill.Domain) (DomainParams, error) {
	switch domain {
	case hill.DomainText:
		return TextParams, nil
	case hill.DomainUpper:
		return UpperParams, nil
	case hill.DomainMorse:
		return MorseParams, nil
	case hill.DomainBytes:
		return BytesParams, nil
	case hill.DomainAudio:
		return AudioParams, nil
	default:
		return DomainParams{}, fmt.Errorf("unknown domain: %s", domain)
	}
}

// Domains lists every supported domain in a stable order.
func Domains() []hill.Domain {
	return []hill.Domain{hill.DomainText, hill.DomainUpper, hill.DomainMorse, hill.DomainBytes, hill.DomainAudio}
}

// ValidateParams validates a parameter set for consistency.
func ValidateParams(params DomainParams) error {
	if err := ValidateModulus(params.Modulus); err != nil {
		return err
	}
	if params.PadSymbol < 0 || params.PadSymbol >= params.Modulus {
		return errors.New("pad symbol must lie in [0, modulus)")
	}
	if params.Dimension < 1 || params.Dimension > utils.MaxDimension {
		return fmt.Errorf("dimension must lie in [1, %d]", utils.MaxDimension)
	}
	return nil
}

// ValidateModulus checks that m can serve as a residue ring for the engine.
func ValidateModulus(m int) error {
	if m < 2 {
		return fmt.Errorf("%w: got %d", hill.ErrInvalidModulus, m)
	}
	if m > utils.MaxModulus {
		return fmt.Errorf("%w: %d exceeds limit %d", hill.ErrInvalidModulus, m, utils.MaxModulus)
	}
	return nil
}
