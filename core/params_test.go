package core

import (
	"errors"
	"testing"

	hill "github.com/BackendStack21/hill-go"
)

func TestGetParams(t *testing.T) {
	cases := []struct {
		domain  hill.Domain
		modulus int
		pad     int
	}{
		{hill.DomainText, 95, 62},
		{hill.DomainUpper, 26, 23},
		{hill.DomainMorse, 4, 2},
		{hill.DomainBytes, 256, 0},
		{hill.DomainAudio, 65536, 0},
	}
	for _, tc := range cases {
		t.Run(string(tc.domain), func(t *testing.T) {
			p, err := GetParams(tc.domain)
			if err != nil {
				t.Fatalf("GetParams failed: %v", err)
			}
			if p.Modulus != tc.modulus {
				t.Errorf("Modulus = %d, want %d", p.Modulus, tc.modulus)
			}
			if p.PadSymbol != tc.pad {
				t.Errorf("PadSymbol = %d, want %d", p.PadSymbol, tc.pad)
			}
			if err := ValidateParams(p); err != nil {
				t.Errorf("built-in params failed validation: %v", err)
			}
		})
	}
}

func TestGetParams_Unknown(t *testing.T) {
	if _, err := GetParams("braille"); err == nil {
		t.Error("expected error for unknown domain")
	}
}

func TestDomains(t *testing.T) {
	for _, d := range Domains() {
		if _, err := GetParams(d); err != nil {
			t.Errorf("listed domain %s has no params: %v", d, err)
		}
	}
}

func TestValidateParams(t *testing.T) {
	bad := BytesParams
	bad.Modulus = 1
	if err := ValidateParams(bad); !errors.Is(err, hill.ErrInvalidModulus) {
		t.Errorf("modulus 1: error = %v, want ErrInvalidModulus", err)
	}

	bad = BytesParams
	bad.PadSymbol = 256
	if err := ValidateParams(bad); err == nil {
		t.Error("pad symbol outside ring should fail")
	}

	bad = BytesParams
	bad.Dimension = 0
	if err := ValidateParams(bad); err == nil {
		t.Error("zero dimension should fail")
	}

	bad = BytesParams
	bad.Modulus = 1 << 30
	if err := ValidateParams(bad); !errors.Is(err, hill.ErrInvalidModulus) {
		t.Errorf("oversized modulus: error = %v, want ErrInvalidModulus", err)
	}
}
