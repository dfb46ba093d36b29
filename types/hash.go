package types

import (
	"golang.org/x/crypto/sha3"
)

// Keccak256 computes the Keccak-256 digest of the given data.
// This is the legacy (pre-NIST) Keccak used by Ethereum, not SHA3-256.
func Keccak256(data []byte) Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// Keccak256Concat computes the Keccak-256 digest of the concatenation of
// the given byte slices.
func Keccak256Concat(parts ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}
