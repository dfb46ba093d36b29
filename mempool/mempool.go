// Package mempool provides the pending-transaction pool for the simulator.
package mempool

import (
	"errors"
	"sync"

	"github.com/popzeka/stakesim/types"
)

// Common mempool errors.
var (
	ErrNilTx    = errors.New("nil transaction")
	ErrPoolFull = errors.New("mempool is full")
)

// Pool is an ordered FIFO pool of pending transactions. Transactions are
// appended by the sourcing collaborator and removed in FIFO batches once
// included in an appended block. Safe for concurrent use.
type Pool struct {
	txs    []*types.Transaction
	maxTxs int

	mu sync.RWMutex
}

// New creates a pool. maxTxs of zero means unbounded.
func New(maxTxs int) *Pool {
	return &Pool{
		txs:    make([]*types.Transaction, 0),
		maxTxs: maxTxs,
	}
}

// Add appends a transaction to the pool.
func (p *Pool) Add(tx *types.Transaction) error {
	if tx == nil {
		return ErrNilTx
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxTxs > 0 && len(p.txs) >= p.maxTxs {
		return ErrPoolFull
	}
	p.txs = append(p.txs, tx)
	return nil
}

// AddBatch appends transactions in order, stopping at the first failure.
// Returns the number of transactions added.
func (p *Pool) AddBatch(txs []*types.Transaction) (int, error) {
	for i, tx := range txs {
		if err := p.Add(tx); err != nil {
			return i, err
		}
	}
	return len(txs), nil
}

// PeekN returns up to n transactions in pool (oldest-first) order without
// removing them. The returned slice is a copy; the transactions are shared
// and treated as immutable.
func (p *Pool) PeekN(n int) []*types.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if n > len(p.txs) {
		n = len(p.txs)
	}
	out := make([]*types.Transaction, n)
	copy(out, p.txs[:n])
	return out
}

// DropN removes the first n transactions from the pool. Returns the number
// actually removed.
func (p *Pool) DropN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n > len(p.txs) {
		n = len(p.txs)
	}
	p.txs = append(p.txs[:0:0], p.txs[n:]...)
	return n
}

// Size returns the number of pending transactions.
func (p *Pool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.txs)
}

// Snapshot returns a copy of the pool contents in order.
func (p *Pool) Snapshot() []*types.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*types.Transaction, len(p.txs))
	copy(out, p.txs)
	return out
}

// Flush removes all transactions from the pool.
func (p *Pool) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs = p.txs[:0]
}
