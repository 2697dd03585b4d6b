package engine

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/modmat"
)

var pofKey = hill.Matrix{{3, 3}, {2, 5}}

// HELLO as indices into the 95-symbol printable alphabet, padded with space (62).
func TestEncode_HelloPrintable(t *testing.T) {
	ct, err := Encode([]int{7, 4, 11, 11, 14}, pofKey, 95, 62)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []int{33, 34, 66, 77, 38, 53}
	if !reflect.DeepEqual(ct.Symbols, want) {
		t.Errorf("Symbols = %v, want %v", ct.Symbols, want)
	}
	if ct.Length != 5 {
		t.Errorf("Length = %d, want 5", ct.Length)
	}

	pt, err := Decode(ct, pofKey, 95)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(pt, []int{7, 4, 11, 11, 14}) {
		t.Errorf("Decode = %v", pt)
	}
}

// HELLO over A-Z padded with X, the classic proof-of-concept vector (HIOZHN).
func TestEncode_HelloUpper(t *testing.T) {
	ct, err := Encode([]int{7, 4, 11, 11, 14}, pofKey, 26, 23)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{7, 8, 14, 25, 7, 13}
	if !reflect.DeepEqual(ct.Symbols, want) {
		t.Errorf("Symbols = %v, want %v", ct.Symbols, want)
	}
}

func TestRoundTrip(t *testing.T) {
	keys := []struct {
		key     hill.Matrix
		modulus int
	}{
		{pofKey, 256},
		{pofKey, 65536},
		{hill.Matrix{{6, 24, 1}, {13, 16, 10}, {20, 17, 15}}, 26},
		{hill.Matrix{{1, 2, 3, 4}, {0, 1, 2, 3}, {0, 0, 1, 2}, {7, 0, 0, 1}}, 95},
		{hill.Matrix{{5}}, 256},
	}
	payloads := [][]int{
		{},
		{1},
		{0, 1, 2, 3, 4, 5, 6, 7, 8},
		{250, 251, 252, 253, 254, 255, 0},
	}
	for _, k := range keys {
		e, err := New(k.key, k.modulus)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		for _, p := range payloads {
			ct, err := e.Encode(p, 0)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if len(ct.Symbols)%e.Dimension() != 0 {
				t.Fatalf("ciphertext is not block aligned: %d symbols", len(ct.Symbols))
			}
			pt, err := e.Decode(ct)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(pt) != len(p) {
				t.Fatalf("length %d, want %d", len(pt), len(p))
			}
			for i := range p {
				if pt[i] != p[i]%k.modulus {
					t.Errorf("symbol %d = %d, want %d", i, pt[i], p[i]%k.modulus)
				}
			}
		}
	}
}

func TestEncode_NegativeSymbolsNormalized(t *testing.T) {
	a, err := Encode([]int{-1, -2}, pofKey, 256, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Encode([]int{255, 254}, pofKey, 256, 0)
	if !reflect.DeepEqual(a.Symbols, b.Symbols) {
		t.Errorf("negative symbols encode to %v, residues to %v", a.Symbols, b.Symbols)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(hill.Matrix{{1, 2, 3}, {4, 5, 6}}, 26); !errors.Is(err, hill.ErrShapeMismatch) {
		t.Errorf("non-square key: error = %v, want ErrShapeMismatch", err)
	}
	if _, err := New(pofKey, 1); !errors.Is(err, hill.ErrInvalidModulus) {
		t.Errorf("modulus 1: error = %v, want ErrInvalidModulus", err)
	}
}

func TestDecode_NonInvertible(t *testing.T) {
	e, err := New(hill.Matrix{{2, 4}, {1, 2}}, 8)
	if err != nil {
		t.Fatal(err)
	}
	ct, err := e.Encode([]int{1, 2}, 0)
	if err != nil {
		t.Fatalf("encoding with a singular key should still work: %v", err)
	}
	if _, err := e.Decode(ct); !errors.Is(err, hill.ErrNonInvertibleKey) {
		t.Errorf("Decode error = %v, want ErrNonInvertibleKey", err)
	}
	if _, err := e.Inverse(); !errors.Is(err, hill.ErrNonInvertibleKey) {
		t.Errorf("Inverse error = %v, want ErrNonInvertibleKey", err)
	}
}

func TestDecode_ShapeMismatch(t *testing.T) {
	e, _ := New(pofKey, 256)
	cases := []*hill.Ciphertext{
		nil,
		{Symbols: []int{1, 2, 3}, Length: 3},
		{Symbols: []int{1, 2}, Length: 3},
		{Symbols: []int{1, 2, 3, 4}, Length: 1},
		{Symbols: []int{1, 2}, Length: -1},
	}
	for i, ct := range cases {
		if _, err := e.Decode(ct); !errors.Is(err, hill.ErrShapeMismatch) {
			t.Errorf("case %d: error = %v, want ErrShapeMismatch", i, err)
		}
	}
	if _, err := e.EncodeBlocks([][]int{{1, 2, 3}}); !errors.Is(err, hill.ErrShapeMismatch) {
		t.Errorf("wide block: error = %v, want ErrShapeMismatch", err)
	}
}

func TestKeyIsolation(t *testing.T) {
	key := hill.Matrix{{3, 3}, {2, 5}}
	e, _ := New(key, 26)
	key[0][0] = 4
	if e.Key()[0][0] != 3 {
		t.Error("engine observed a mutation of the caller's key")
	}
	k := e.Key()
	k[1][1] = 0
	if e.Key()[1][1] != 5 {
		t.Error("Key() exposed internal storage")
	}
	inv, _ := e.Inverse()
	inv[0][0] = 0
	again, _ := e.Inverse()
	if again[0][0] == 0 {
		t.Error("Inverse() exposed the cached inverse")
	}
}

func TestInverseCachedOnce(t *testing.T) {
	e, _ := New(pofKey, 65536)
	var wg sync.WaitGroup
	results := make([]hill.Matrix, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.Inverse()
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		if !modmat.Equal(r, results[0]) {
			t.Fatal("concurrent Inverse calls disagree")
		}
	}
	prod, _ := modmat.Mul(pofKey, results[0], 65536)
	if !modmat.Equal(prod, modmat.Identity(2)) {
		t.Errorf("K * K^-1 = %v", prod)
	}
}

func BenchmarkEncodeBytes(b *testing.B) {
	e, _ := New(hill.Matrix{{6, 24, 1}, {13, 16, 10}, {20, 17, 15}}, 256)
	payload := make([]int, 64*1024)
	for i := range payload {
		payload[i] = i % 256
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Encode(payload, 0); err != nil {
			b.Fatal(err)
		}
	}
}
