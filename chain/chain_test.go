package chain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/popzeka/stakesim/types"
)

func testAddr(fill string) types.Address {
	return types.Address("0x" + strings.Repeat(fill, types.AddressSize))
}

func testTx(t *testing.T) *types.Transaction {
	t.Helper()
	tx, err := types.NewTransaction(testAddr("11"), testAddr("22"), 1.5, nil)
	require.NoError(t, err)
	return tx
}

func nextBlock(c *Chain, txs []*types.Transaction) *types.Block {
	tip := c.Tip()
	return types.NewBlock(tip.Index+1, txs, tip.Hash, testAddr("aa"))
}

func TestGenesisInvariant(t *testing.T) {
	c := New()

	require.Equal(t, 1, c.Len())
	genesis := c.Tip()
	require.Equal(t, uint64(0), genesis.Index)
	require.Empty(t, genesis.Transactions)
	require.True(t, genesis.PrevHash.Equal(types.ZeroHash()))
	require.Equal(t, types.GenesisProposer, genesis.Proposer)
	require.True(t, genesis.Hash.Equal(genesis.ComputeHash()))
}

func TestCheckBlock(t *testing.T) {
	c := New()
	tip := c.Tip()

	t.Run("valid successor", func(t *testing.T) {
		b := nextBlock(c, []*types.Transaction{testTx(t)})
		require.NoError(t, CheckBlock(b, tip))
		require.True(t, IsValid(b, tip))
	})

	t.Run("bad index", func(t *testing.T) {
		b := types.NewBlock(tip.Index+2, nil, tip.Hash, testAddr("aa"))
		require.ErrorIs(t, CheckBlock(b, tip), types.ErrBadIndex)
	})

	t.Run("bad previous hash", func(t *testing.T) {
		b := types.NewBlock(tip.Index+1, nil, types.Keccak256([]byte("wrong")), testAddr("aa"))
		require.ErrorIs(t, CheckBlock(b, tip), types.ErrBadPrevHash)
	})

	t.Run("bad content hash", func(t *testing.T) {
		b := nextBlock(c, nil)
		b.Hash = types.Keccak256([]byte("tampered"))
		require.ErrorIs(t, CheckBlock(b, tip), types.ErrBadHash)
		require.False(t, IsValid(b, tip))
	})

	t.Run("tampered transaction breaks integrity", func(t *testing.T) {
		b := nextBlock(c, []*types.Transaction{testTx(t)})
		b.Transactions[0].Amount += 1
		require.ErrorIs(t, CheckBlock(b, tip), types.ErrBadHash)
	})
}

func TestAppendGate(t *testing.T) {
	c := New()

	t.Run("valid block appends", func(t *testing.T) {
		b := nextBlock(c, []*types.Transaction{testTx(t)})
		require.True(t, c.Append(b))
		require.Equal(t, 2, c.Len())
		require.Equal(t, b, c.Tip())
	})

	t.Run("invalid block leaves chain unchanged", func(t *testing.T) {
		stale := types.NewBlock(1, nil, types.ZeroHash(), testAddr("aa"))
		require.False(t, c.Append(stale))
		require.Equal(t, 2, c.Len())
	})

	t.Run("stale candidate rejected after advance", func(t *testing.T) {
		// Proposed against the old tip, then the chain advances.
		stale := nextBlock(c, nil)
		require.True(t, c.Append(nextBlock(c, []*types.Transaction{testTx(t)})))
		require.False(t, c.Append(stale))
	})
}

func TestLinkageInvariant(t *testing.T) {
	c := New()
	for i := 0; i < 10; i++ {
		require.True(t, c.Append(nextBlock(c, []*types.Transaction{testTx(t)})))
	}

	blocks := c.Blocks()
	require.Len(t, blocks, 11)
	for i := 1; i < len(blocks); i++ {
		require.Equal(t, blocks[i-1].Index+1, blocks[i].Index)
		require.True(t, blocks[i].PrevHash.Equal(blocks[i-1].Hash))
	}
	require.Equal(t, uint64(10), c.Height())
	require.NoError(t, c.Verify())
}

func TestBlocksSnapshot(t *testing.T) {
	c := New()
	snapshot := c.Blocks()
	require.True(t, c.Append(nextBlock(c, nil)))

	// The earlier snapshot must not see the later append.
	require.Len(t, snapshot, 1)
	require.Len(t, c.Blocks(), 2)
}
