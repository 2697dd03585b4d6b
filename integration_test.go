package hill_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/audio"
	"github.com/BackendStack21/hill-go/bytestream"
	"github.com/BackendStack21/hill-go/core"
	"github.com/BackendStack21/hill-go/engine"
	"github.com/BackendStack21/hill-go/keyfile"
	"github.com/BackendStack21/hill-go/keygen"
	"github.com/BackendStack21/hill-go/modmat"
	"github.com/BackendStack21/hill-go/text"
	"github.com/BackendStack21/hill-go/utils"
)

// TestRoundtripAllDomains encodes payloads of every length up to a few blocks
// in every domain and checks they decode unchanged.
func TestRoundtripAllDomains(t *testing.T) {
	for _, domain := range core.Domains() {
		t.Run(string(domain), func(t *testing.T) {
			params, err := core.GetParams(domain)
			if err != nil {
				t.Fatal(err)
			}
			key, err := keygen.GenerateFromSeed(params.Dimension, params.Modulus, []byte("integration-"+string(domain)))
			if err != nil {
				t.Fatalf("GenerateFromSeed failed: %v", err)
			}
			e, err := engine.New(key, params.Modulus)
			if err != nil {
				t.Fatal(err)
			}
			src := utils.NewShakeSource("integration-payload", []byte(domain))
			for n := 0; n <= 4*params.Dimension+1; n++ {
				payload := make([]int, n)
				for i := range payload {
					payload[i] = src.MustIntn(params.Modulus)
				}
				ct, err := e.Encode(payload, params.PadSymbol)
				if err != nil {
					t.Fatalf("Encode failed: %v", err)
				}
				if len(ct.Symbols)%params.Dimension != 0 {
					t.Fatalf("ciphertext of %d symbols not block aligned", len(ct.Symbols))
				}
				got, err := e.Decode(ct)
				if err != nil {
					t.Fatalf("Decode failed: %v", err)
				}
				if !reflect.DeepEqual(got, payload) {
					t.Fatalf("n=%d: round trip = %v, want %v", n, got, payload)
				}
			}
		})
	}
}

// TestKeyFileDrivesCipher stores a key, reads it back and uses it.
func TestKeyFileDrivesCipher(t *testing.T) {
	key, err := keygen.ForDomain(hill.DomainText, 0)
	if err != nil {
		t.Fatal(err)
	}
	kf, err := keyfile.New(hill.DomainText, key)
	if err != nil {
		t.Fatal(err)
	}
	data, err := keyfile.Marshal(kf)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := keyfile.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}

	msg := "Meet me at the usual place at 10:30 (bring the map)"
	ct, err := text.Encrypt(text.Printable, msg, key)
	if err != nil {
		t.Fatal(err)
	}
	pt, err := text.Decrypt(text.Printable, ct, loaded.Matrix())
	if err != nil {
		t.Fatal(err)
	}
	if pt != msg {
		t.Errorf("round trip = %q, want %q", pt, msg)
	}
}

// TestKeyStringCompatibility checks the "rows;cols" key form against the
// proof-of-concept vectors.
func TestKeyStringCompatibility(t *testing.T) {
	key, err := keyfile.ParseKeyString("3,3;2,5")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		alphabet *text.Alphabet
		want     string
	}{
		{text.Upper, "HIOZHN"},
		{text.Printable, "hi?}m1"},
	}
	for _, tt := range tests {
		got, err := text.Encrypt(tt.alphabet, "HELLO", key)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("mod %d: HELLO = %q, want %q", tt.alphabet.Modulus(), got, tt.want)
		}
	}
}

// TestAudioKeyFileSeed hardens with the seed stored in a key file.
func TestAudioKeyFileSeed(t *testing.T) {
	key, err := keygen.ForDomain(hill.DomainAudio, 3)
	if err != nil {
		t.Fatal(err)
	}
	kf, err := keyfile.NewWithSeed(hill.DomainAudio, key, audio.SeedFromKey(key))
	if err != nil {
		t.Fatal(err)
	}
	seed, ok := kf.AudioSeed()
	if !ok {
		t.Fatal("key file lost its seed")
	}
	samples := make([]int16, 2000)
	for i := range samples {
		samples[i] = int16(i*i - 1000)
	}
	ct, err := audio.Harden(audio.SamplesToResidues(samples), kf.Matrix(), seed)
	if err != nil {
		t.Fatal(err)
	}
	out, err := audio.Unharden(ct, kf.Matrix(), seed)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(audio.ResiduesToSamples(out), samples) {
		t.Error("audio round trip mismatch")
	}
}

// TestBytesAndImage exercises the byte cipher with a generated key.
func TestBytesAndImage(t *testing.T) {
	key, err := keygen.ForDomain(hill.DomainBytes, 4)
	if err != nil {
		t.Fatal(err)
	}
	c, err := bytestream.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	pixels := make([]byte, 7*3*4)
	for i := range pixels {
		pixels[i] = byte(255 - i)
	}
	ct, err := c.EncryptImage(pixels, 7, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.DecryptImage(ct, 7, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, pixels) {
		t.Error("image round trip mismatch")
	}
}

// TestKnownPlaintextRecoversKey shows the linear weakness: n aligned
// plaintext/ciphertext blocks with an invertible plaintext matrix give away
// the key as K = C · P^(-1).
func TestKnownPlaintextRecoversKey(t *testing.T) {
	key := hill.Matrix{{3, 3}, {2, 5}}
	plain := text.Upper.Encode("HELL")
	ct, err := engine.Encode(plain, key, 26, text.Upper.PadIndex())
	if err != nil {
		t.Fatal(err)
	}

	p := columns(plain, 2)
	c := columns(ct.Symbols, 2)
	pInv, err := modmat.Inverse(p, 26)
	if err != nil {
		t.Fatalf("plaintext matrix not invertible: %v", err)
	}
	recovered, err := modmat.Mul(c, pInv, 26)
	if err != nil {
		t.Fatal(err)
	}
	if !modmat.Equal(recovered, key) {
		t.Errorf("recovered key = %v, want %v", recovered, key)
	}
}

// columns arranges consecutive blocks of width n as the columns of a matrix.
func columns(symbols []int, n int) hill.Matrix {
	m := make(hill.Matrix, n)
	for r := range m {
		m[r] = make([]int, n)
		for c := 0; c < n; c++ {
			m[r][c] = symbols[c*n+r]
		}
	}
	return m
}

// TestErrorKinds checks that the shared error kinds surface through every layer.
func TestErrorKinds(t *testing.T) {
	singular := hill.Matrix{{2, 4}, {1, 2}}

	if _, err := text.Decrypt(text.Upper, "ABCD", singular); !errors.Is(err, hill.ErrNonInvertibleKey) {
		t.Errorf("text: error = %v", err)
	}
	c, _ := bytestream.NewCipher(singular)
	if _, err := c.Decrypt(&hill.Ciphertext{Symbols: []int{1, 2}, Length: 2}); !errors.Is(err, hill.ErrNonInvertibleKey) {
		t.Errorf("bytes: error = %v", err)
	}
	if _, err := audio.Unharden(&hill.Ciphertext{Symbols: []int{1, 2}, Length: 2}, singular, 0); !errors.Is(err, hill.ErrNonInvertibleKey) {
		t.Errorf("audio: error = %v", err)
	}
	if _, err := engine.New(hill.Matrix{{1, 2}}, 26); !errors.Is(err, hill.ErrShapeMismatch) {
		t.Errorf("engine: error = %v", err)
	}
	if _, err := modmat.ModInverse(13, 26); !errors.Is(err, hill.ErrNoInverseExists) {
		t.Errorf("modmat: error = %v", err)
	}
	if _, err := engine.New(hill.Matrix{{1}}, 1); !errors.Is(err, hill.ErrInvalidModulus) {
		t.Errorf("modulus: error = %v", err)
	}
}

func BenchmarkEncode(b *testing.B) {
	for _, domain := range core.Domains() {
		params, _ := core.GetParams(domain)
		key, err := keygen.GenerateFromSeed(params.Dimension, params.Modulus, []byte("bench"))
		if err != nil {
			b.Fatal(err)
		}
		e, _ := engine.New(key, params.Modulus)
		payload := make([]int, 1<<16)
		for i := range payload {
			payload[i] = i % params.Modulus
		}
		b.Run(fmt.Sprintf("%s-n%d", domain, params.Dimension), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := e.Encode(payload, params.PadSymbol); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
