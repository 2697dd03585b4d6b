package utils

import (
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/sha3"
)

var shake256Pool = sync.Pool{
	New: func() interface{} {
		return sha3.NewShake256()
	},
}

// Shake256 squeezes outputLen bytes of SHAKE256 over input in one call.
// The audio mask reads its whole stream this way.
func Shake256(input []byte, outputLen int) []byte {
	h := shake256Pool.Get().(sha3.ShakeHash)
	defer func() {
		h.Reset()
		shake256Pool.Put(h)
	}()

	h.Write(input)
	output := make([]byte, outputLen)
	_, _ = h.Read(output)
	return output
}

// SHA3256 computes the SHA3-256 hash of the input. HashWithDomain builds on it.
func SHA3256(input []byte) []byte {
	h := sha3.New256()
	h.Write(input)
	return h.Sum(nil)
}

// HashWithDomain computes a domain-separated SHA3-256 hash.
// It prefixes the data with the length of the domain string and the domain string itself,
// so seeds derived for different purposes never collide.
// Panics if domain is longer than 255 bytes.
func HashWithDomain(domain string, data []byte) []byte {
	if len(domain) > 255 {
		panic("domain string must be at most 255 bytes")
	}
	buf := make([]byte, 0, 1+len(domain)+len(data))
	buf = append(buf, byte(len(domain)))
	buf = append(buf, domain...)
	buf = append(buf, data...)
	return SHA3256(buf)
}

// Int64Bytes encodes v as 8 little-endian bytes.
func Int64Bytes(v int64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, uint64(v))
	return out
}
