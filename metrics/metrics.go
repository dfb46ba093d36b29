// Package metrics defines the simulator's metrics interface with Prometheus
// and no-op implementations.
package metrics

import "time"

// Metrics is the instrumentation interface for the simulator.
// Implementations must be safe for concurrent use.
type Metrics interface {
	// SetChainHeight records the current chain tip index.
	SetChainHeight(height uint64)

	// IncBlocksProposed counts proposed blocks, committed or not.
	IncBlocksProposed()

	// IncRoundsCommitted counts rounds that ended in a commit.
	IncRoundsCommitted()

	// IncRoundsRejected counts rejected rounds by reason.
	IncRoundsRejected(reason string)

	// ObserveRoundDuration records the wall time of one full round.
	ObserveRoundDuration(d time.Duration)

	// SetMempoolSize records the pending-transaction count.
	SetMempoolSize(size int)

	// IncTxsFetched counts transactions pulled into the pool by source.
	IncTxsFetched(source string, count int)

	// IncTxsCommitted counts transactions included in committed blocks.
	IncTxsCommitted(count int)

	// IncLeaderElections counts leader selections per validator.
	IncLeaderElections(address string)

	// SetTotalStake records the validator set's total stake.
	SetTotalStake(stake float64)
}
