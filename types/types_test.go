package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroHash(t *testing.T) {
	h := ZeroHash()
	require.Len(t, h, HashSize)
	require.Equal(t, strings.Repeat("0", HashSize*2), h.String())
	require.False(t, h.IsEmpty())
}

func TestHashEqual(t *testing.T) {
	a := Keccak256([]byte("hello"))
	b := Keccak256([]byte("hello"))
	c := Keccak256([]byte("world"))

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(a[:16]))
}

func TestHashFromHex(t *testing.T) {
	h := Keccak256([]byte("round trip"))
	parsed, err := HashFromHex(h.String())
	require.NoError(t, err)
	require.True(t, h.Equal(parsed))

	_, err = HashFromHex("not hex")
	require.Error(t, err)
}

func TestKeccak256(t *testing.T) {
	// Known vector: legacy Keccak-256 of the empty string.
	h := Keccak256(nil)
	require.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", h.String())
	require.Len(t, h, HashSize)

	require.True(t, Keccak256Concat([]byte("ab"), []byte("cd")).Equal(Keccak256([]byte("abcd"))))
}

func TestAddressValid(t *testing.T) {
	t.Run("genesis sentinel", func(t *testing.T) {
		require.True(t, GenesisProposer.Valid())
	})

	t.Run("well-formed hex", func(t *testing.T) {
		addr := Address("0x" + strings.Repeat("ab", AddressSize))
		require.True(t, addr.Valid())
	})

	t.Run("rejects malformed", func(t *testing.T) {
		require.False(t, Address("").Valid())
		require.False(t, Address("0x1234").Valid())
		require.False(t, Address(strings.Repeat("ab", AddressSize+1)).Valid())
		require.False(t, Address("0x"+strings.Repeat("zz", AddressSize)).Valid())
	})
}

func TestAddressShort(t *testing.T) {
	addr := Address("0x0123456789abcdef0123456789abcdef01234567")
	require.Equal(t, "01234567", addr.Short())
	require.Equal(t, "0x12", Address("0x12").Short())
}
