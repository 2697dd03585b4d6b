// Package keyfile stores Hill keys on disk as YAML documents and converts keys
// to and from the compact "3,3;2,5" string form.
package keyfile

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/core"
	"github.com/BackendStack21/hill-go/modmat"
	"github.com/BackendStack21/hill-go/utils"
)

// DomainChecksum separates key file checksums from other SHA3 uses.
const DomainChecksum = "hill-keyfile-checksum-v1"

// ErrChecksumMismatch is returned when a key file was altered after it was written.
// The checksum detects accidental corruption only; it is not authenticated.
var ErrChecksumMismatch = errors.New("key file checksum mismatch")

// KeyFile is the on-disk form of a key.
type KeyFile struct {
	ID        string      `yaml:"id"`
	Domain    hill.Domain `yaml:"domain"`
	Modulus   int         `yaml:"modulus"`
	CreatedAt string      `yaml:"created_at"`
	Seed      *int64      `yaml:"seed,omitempty"` // audio permutation/mask seed; nil when unset
	Key       hill.Matrix `yaml:"key,flow"`
	Checksum  string      `yaml:"checksum"`
}

// New wraps key for domain. The key is reduced into the domain modulus.
func New(domain hill.Domain, key hill.Matrix) (*KeyFile, error) {
	params, err := core.GetParams(domain)
	if err != nil {
		return nil, err
	}
	if err := modmat.CheckSquare(key); err != nil {
		return nil, fmt.Errorf("key: %w", err)
	}
	kf := &KeyFile{
		ID:        uuid.NewString(),
		Domain:    domain,
		Modulus:   params.Modulus,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Key:       modmat.Reduce(key, params.Modulus),
	}
	kf.Checksum = kf.computeChecksum()
	return kf, nil
}

// NewWithSeed is New with an audio seed stored alongside the key. Any value,
// zero included, is kept.
func NewWithSeed(domain hill.Domain, key hill.Matrix, seed int64) (*KeyFile, error) {
	kf, err := New(domain, key)
	if err != nil {
		return nil, err
	}
	kf.Seed = &seed
	kf.Checksum = kf.computeChecksum()
	return kf, nil
}

// AudioSeed returns the stored seed and whether one was recorded.
func (kf *KeyFile) AudioSeed() (int64, bool) {
	if kf.Seed == nil {
		return 0, false
	}
	return *kf.Seed, true
}

func (kf *KeyFile) computeChecksum() string {
	seed := "-"
	if kf.Seed != nil {
		seed = strconv.FormatInt(*kf.Seed, 10)
	}
	canonical := fmt.Sprintf("%s|%s|%d|%s|%s", kf.ID, kf.Domain, kf.Modulus, seed, FormatKeyString(kf.Key))
	return hex.EncodeToString(utils.HashWithDomain(DomainChecksum, []byte(canonical)))
}

// Verify checks the checksum, the key shape and that the entries lie in
// [0, Modulus) for the recorded domain.
func (kf *KeyFile) Verify() error {
	if kf.Checksum != kf.computeChecksum() {
		return ErrChecksumMismatch
	}
	params, err := core.GetParams(kf.Domain)
	if err != nil {
		return err
	}
	if kf.Modulus != params.Modulus {
		return fmt.Errorf("modulus %d does not match domain %s (%d)", kf.Modulus, kf.Domain, params.Modulus)
	}
	if err := modmat.CheckSquare(kf.Key); err != nil {
		return fmt.Errorf("key: %w", err)
	}
	for i, row := range kf.Key {
		for j, v := range row {
			if v < 0 || v >= kf.Modulus {
				return fmt.Errorf("key entry (%d,%d) = %d outside [0, %d)", i, j, v, kf.Modulus)
			}
		}
	}
	return nil
}

// Matrix returns a copy of the key.
func (kf *KeyFile) Matrix() hill.Matrix {
	return modmat.Clone(kf.Key)
}

// Marshal encodes kf as YAML.
func Marshal(kf *KeyFile) ([]byte, error) {
	data, err := yaml.Marshal(kf)
	if err != nil {
		return nil, fmt.Errorf("marshal key file: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and verifies a YAML key file.
func Unmarshal(data []byte) (*KeyFile, error) {
	var kf KeyFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	if err := kf.Verify(); err != nil {
		return nil, err
	}
	return &kf, nil
}

// Save writes kf to path, readable and writable by the owner only.
func Save(path string, kf *KeyFile) error {
	data, err := Marshal(kf)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create key file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	// Enforce permissions even if the file already existed.
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("set key file permissions: %w", err)
	}
	return nil
}

// Load reads and verifies the key file at path.
func Load(path string) (*KeyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return Unmarshal(data)
}

// ParseKeyString parses a key written as rows separated by ';' and values
// separated by ',', e.g. "3,3;2,5". The result must be square.
func ParseKeyString(s string) (hill.Matrix, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty key", hill.ErrShapeMismatch)
	}
	rows := strings.Split(s, ";")
	key := make(hill.Matrix, len(rows))
	for i, row := range rows {
		fields := strings.Split(row, ",")
		key[i] = make([]int, len(fields))
		for j, f := range fields {
			v, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("key entry (%d,%d): %w", i, j, err)
			}
			key[i][j] = v
		}
	}
	if err := modmat.CheckSquare(key); err != nil {
		return nil, err
	}
	return key, nil
}

// FormatKeyString is the inverse of ParseKeyString.
func FormatKeyString(key hill.Matrix) string {
	rows := make([]string, len(key))
	for i, row := range key {
		vals := make([]string, len(row))
		for j, v := range row {
			vals[j] = strconv.Itoa(v)
		}
		rows[i] = strings.Join(vals, ",")
	}
	return strings.Join(rows, ";")
}
