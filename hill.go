// Package hill implements a generalized Hill cipher engine.
// This package holds the shared types and error kinds; the algorithms live in
// sub-packages that can be imported directly:
//
//   - modmat: modular matrix arithmetic (determinant, adjugate, inverse)
//   - codec: block chunking, padding and reassembly
//   - engine: the Hill transform (key · column block mod M)
//   - keygen: random and seeded invertible key generation
//   - audio: permutation + additive mask hardening for 16-bit audio
//   - text, bytestream: alphabet text and byte/pixel payload domains
//   - keyfile, config: key persistence and CLI configuration
//
// WARNING: the Hill cipher is linear and falls to a known-plaintext attack.
// It is NOT suitable for protecting sensitive data.
package hill

// Version of the hill-go implementation.
const Version = "1.0.0"

// API summary:
//
// Matrices:
//   - modmat.Inverse(key, m) - Modular inverse of a key matrix
//   - modmat.Determinant(key) - Exact integer determinant
//   - modmat.ModInverse(a, m) - Scalar inverse via extended Euclid
//
// Cipher:
//   - engine.Encode(payload, key, m, pad) - Encrypt a residue payload
//   - engine.Decode(ct, key, m) - Decrypt a ciphertext
//   - audio.Harden(samples, key, seed) - Hill + permutation + mask
//   - audio.Unharden(ct, key, seed) - Reverse of Harden
//
// Keys:
//   - keygen.Generate(n, m) - Random invertible key
//   - keygen.GenerateFromSeed(n, m, seed) - Reproducible key
