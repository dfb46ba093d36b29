// Package chain implements the append-only block chain and its single
// authoritative validation routine.
package chain

import (
	"fmt"
	"sync"

	"github.com/popzeka/stakesim/types"
)

// Chain is an append-only ordered sequence of blocks seeded with a fixed
// genesis block. History never shrinks, reorders, or rewrites; Append is the
// only mutation path. Safe for concurrent use under a single-writer,
// many-reader discipline: readers always observe a consistent tip.
type Chain struct {
	blocks []*types.Block
	mu     sync.RWMutex
}

// New creates a chain holding exactly the genesis block.
func New() *Chain {
	return &Chain{
		blocks: []*types.Block{Genesis()},
	}
}

// Genesis returns a freshly constructed genesis block: index 0, no
// transactions, all-zero previous hash, sentinel proposer.
func Genesis() *types.Block {
	return types.NewBlock(0, nil, types.ZeroHash(), types.GenesisProposer)
}

// Tip returns the most recently appended block.
func (c *Chain) Tip() *types.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1]
}

// Len returns the number of blocks in the chain, genesis included.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// Height returns the index of the tip.
func (c *Chain) Height() uint64 {
	return c.Tip().Index
}

// Blocks returns a snapshot copy of the chain's block sequence.
// The blocks themselves are shared; they are immutable once appended.
func (c *Chain) Blocks() []*types.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*types.Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// CheckBlock is the single authoritative validation routine. It checks, in
// order: sequential indexing, previous-hash linkage, and hash integrity,
// short-circuiting on the first failure. Each failure maps to a distinct
// sentinel error so callers can log the failing criterion.
func CheckBlock(candidate, prev *types.Block) error {
	if candidate.Index != prev.Index+1 {
		return fmt.Errorf("%w: expected %d, got %d", types.ErrBadIndex, prev.Index+1, candidate.Index)
	}
	if !candidate.PrevHash.Equal(prev.Hash) {
		return fmt.Errorf("%w: block #%d", types.ErrBadPrevHash, candidate.Index)
	}
	if !candidate.Hash.Equal(candidate.ComputeHash()) {
		return fmt.Errorf("%w: block #%d", types.ErrBadHash, candidate.Index)
	}
	return nil
}

// IsValid is the boolean form of CheckBlock.
func IsValid(candidate, prev *types.Block) bool {
	return CheckBlock(candidate, prev) == nil
}

// Append re-validates the candidate against the current tip and appends it
// on success. On failure the chain is left unchanged and false is returned.
func (c *Chain) Append(candidate *types.Block) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	tip := c.blocks[len(c.blocks)-1]
	if CheckBlock(candidate, tip) != nil {
		return false
	}
	c.blocks = append(c.blocks, candidate)
	return true
}

// Verify re-validates every adjacent pair in the chain plus the genesis
// block's own integrity. Returns the first violation found, or nil.
func (c *Chain) Verify() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	genesis := c.blocks[0]
	if !genesis.Hash.Equal(genesis.ComputeHash()) {
		return fmt.Errorf("%w: genesis", types.ErrBadHash)
	}
	for i := 1; i < len(c.blocks); i++ {
		if err := CheckBlock(c.blocks[i], c.blocks[i-1]); err != nil {
			return err
		}
	}
	return nil
}
