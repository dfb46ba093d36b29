package identity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/popzeka/stakesim/types"
)

func TestNewAddress(t *testing.T) {
	gen := NewGenerator(42)

	t.Run("well formed", func(t *testing.T) {
		addr := gen.NewAddress()
		require.True(t, addr.Valid())
		require.True(t, VerifyChecksum(addr))
	})

	t.Run("distinct draws", func(t *testing.T) {
		seen := make(map[types.Address]bool)
		for i := 0; i < 100; i++ {
			addr := gen.NewAddress()
			require.False(t, seen[addr])
			seen[addr] = true
		}
	})

	t.Run("deterministic under seed", func(t *testing.T) {
		a := NewGenerator(7).NewAddress()
		b := NewGenerator(7).NewAddress()
		require.Equal(t, a, b)
	})
}

func TestChecksum(t *testing.T) {
	// Known EIP-55 vector.
	raw, err := types.HashFromHex("5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	addr := Checksum(raw.Bytes())
	require.Equal(t, types.Address("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"), addr)
	require.True(t, VerifyChecksum(addr))
}

func TestVerifyChecksum(t *testing.T) {
	require.True(t, VerifyChecksum(types.GenesisProposer))
	require.False(t, VerifyChecksum(types.Address("0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED")))
	require.False(t, VerifyChecksum(types.Address("nonsense")))
}
