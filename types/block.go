package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Block is an immutable, content-addressed bundle of transactions. The hash
// is computed once at construction and never recomputed in place; validation
// recomputes it from the canonical encoding and compares.
type Block struct {
	Index        uint64
	Timestamp    int64 // unix nanoseconds at construction
	Transactions []*Transaction
	PrevHash     Hash
	Proposer     Address
	Hash         Hash
}

// NewBlock constructs a block and seals it with its content hash.
func NewBlock(index uint64, txs []*Transaction, prevHash Hash, proposer Address) *Block {
	b := &Block{
		Index:        index,
		Timestamp:    time.Now().UnixNano(),
		Transactions: txs,
		PrevHash:     prevHash,
		Proposer:     proposer,
	}
	b.Hash = b.ComputeHash()
	return b
}

// blockRecord is the hashing form of a block. Fields are declared in
// sorted-key order; transactions keep their stored (insertion) order.
type blockRecord struct {
	Index        uint64     `json:"index"`
	PrevHash     string     `json:"previous_hash"`
	Proposer     string     `json:"proposer"`
	Timestamp    int64      `json:"timestamp"`
	Transactions []txRecord `json:"transactions"`
}

// ComputeHash returns the Keccak-256 digest of the block's canonical
// encoding. Deterministic: identical field values always produce the same
// digest. It does not modify the block.
func (b *Block) ComputeHash() Hash {
	txs := make([]txRecord, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = tx.record()
	}
	rec := blockRecord{
		Index:        b.Index,
		PrevHash:     b.PrevHash.String(),
		Proposer:     string(b.Proposer),
		Timestamp:    b.Timestamp,
		Transactions: txs,
	}
	// Marshaling a fixed struct cannot fail for these field types.
	data, err := json.Marshal(rec)
	if err != nil {
		panic(fmt.Sprintf("block canonical encoding: %v", err))
	}
	return Keccak256(data)
}

// IsGenesis returns true for the chain's first block.
func (b *Block) IsGenesis() bool {
	return b.Index == 0 && b.Proposer == GenesisProposer
}

// String renders the block for logs.
func (b *Block) String() string {
	return fmt.Sprintf("Block(#%d | proposer: %s | txs: %d | hash: %s)",
		b.Index, b.Proposer.Short(), len(b.Transactions), b.Hash.Short())
}
