// Package types provides the core data types for the stakesim consensus
// simulator: addresses, hashes, transactions, and blocks.
package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address is a checksummed, 0x-prefixed hex rendering of a 20-byte identity.
type Address string

// AddressSize is the size of the raw address payload in bytes.
const AddressSize = 20

// GenesisProposer is the sentinel proposer identity of the genesis block.
const GenesisProposer Address = "SYSTEM_GENESIS"

// String returns the address as a string.
func (a Address) String() string {
	return string(a)
}

// Short returns the last few characters of the address for compact logging.
func (a Address) Short() string {
	s := string(a)
	if len(s) <= 8 {
		return s
	}
	return s[len(s)-8:]
}

// IsEmpty returns true if the address is empty.
func (a Address) IsEmpty() bool {
	return a == ""
}

// Valid returns true if the address is the genesis sentinel or a well-formed
// 0x-prefixed 40-character hex string.
func (a Address) Valid() bool {
	if a == GenesisProposer {
		return true
	}
	s := string(a)
	if !strings.HasPrefix(s, "0x") || len(s) != 2+AddressSize*2 {
		return false
	}
	_, err := hex.DecodeString(strings.ToLower(s[2:]))
	return err == nil
}

// Hash represents a Keccak-256 content digest.
type Hash []byte

// HashSize is the size of a Keccak-256 hash in bytes.
const HashSize = 32

// ZeroHash returns the all-zero sentinel digest used as the genesis
// block's previous hash.
func ZeroHash() Hash {
	return make(Hash, HashSize)
}

// String returns the hash as a hexadecimal string.
func (h Hash) String() string {
	return hex.EncodeToString(h)
}

// Short returns the last few hex characters of the hash for compact logging.
func (h Hash) Short() string {
	s := h.String()
	if len(s) <= 6 {
		return s
	}
	return s[len(s)-6:]
}

// Bytes returns the raw bytes of the hash.
func (h Hash) Bytes() []byte {
	return []byte(h)
}

// IsEmpty returns true if the hash is nil or zero-length.
func (h Hash) IsEmpty() bool {
	return len(h) == 0
}

// Equal returns true if the hashes are equal.
func (h Hash) Equal(other Hash) bool {
	if len(h) != len(other) {
		return false
	}
	for i := range h {
		if h[i] != other[i] {
			return false
		}
	}
	return true
}

// HashFromHex parses a hexadecimal string into a Hash.
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	return Hash(b), nil
}
