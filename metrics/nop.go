package metrics

import "time"

// NopMetrics is a no-op implementation of the Metrics interface.
// Use this when metrics collection is disabled.
type NopMetrics struct{}

// NewNopMetrics creates a new NopMetrics instance.
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

func (m *NopMetrics) SetChainHeight(height uint64)             {}
func (m *NopMetrics) IncBlocksProposed()                       {}
func (m *NopMetrics) IncRoundsCommitted()                      {}
func (m *NopMetrics) IncRoundsRejected(reason string)          {}
func (m *NopMetrics) ObserveRoundDuration(d time.Duration)     {}
func (m *NopMetrics) SetMempoolSize(size int)                  {}
func (m *NopMetrics) IncTxsFetched(source string, count int)   {}
func (m *NopMetrics) IncTxsCommitted(count int)                {}
func (m *NopMetrics) IncLeaderElections(address string)        {}
func (m *NopMetrics) SetTotalStake(stake float64)              {}

// Verify interface compliance.
var _ Metrics = (*NopMetrics)(nil)
