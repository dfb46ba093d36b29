// Package txsource supplies transactions to the simulator's mempool, either
// from a remote HTTP endpoint or from a local synthetic generator.
package txsource

import (
	"context"

	"github.com/popzeka/stakesim/types"
)

// Source produces transaction batches for the mempool. The consensus core
// does not depend on any particular implementation.
type Source interface {
	// Fetch returns up to n transactions, or an error if the source is
	// unavailable. Implementations must honor ctx cancellation.
	Fetch(ctx context.Context, n int) ([]*types.Transaction, error)
}
