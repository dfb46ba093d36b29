package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics implements the Metrics interface using Prometheus.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	chainHeight     prometheus.Gauge
	blocksProposed  prometheus.Counter
	roundsCommitted prometheus.Counter
	roundsRejected  *prometheus.CounterVec
	roundDuration   prometheus.Histogram
	mempoolSize     prometheus.Gauge
	txsFetched      *prometheus.CounterVec
	txsCommitted    prometheus.Counter
	leaderElections *prometheus.CounterVec
	totalStake      prometheus.Gauge
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance.
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	m := &PrometheusMetrics{
		registry: registry,

		chainHeight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "chain_height",
				Help:      "Current chain tip index",
			},
		),
		blocksProposed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "blocks_proposed_total",
				Help:      "Total number of blocks proposed by round leaders",
			},
		),
		roundsCommitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rounds_committed_total",
				Help:      "Total number of rounds that committed a block",
			},
		),
		roundsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rounds_rejected_total",
				Help:      "Total number of rejected rounds",
			},
			[]string{"reason"},
		),
		roundDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "round_duration_seconds",
				Help:      "Wall time of a full consensus round",
				Buckets:   prometheus.DefBuckets,
			},
		),
		mempoolSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mempool_size",
				Help:      "Number of pending transactions",
			},
		),
		txsFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "txs_fetched_total",
				Help:      "Total number of transactions pulled into the pool",
			},
			[]string{"source"},
		),
		txsCommitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "txs_committed_total",
				Help:      "Total number of transactions included in committed blocks",
			},
		),
		leaderElections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "leader_elections_total",
				Help:      "Total number of leader selections per validator",
			},
			[]string{"address"},
		),
		totalStake: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "total_stake",
				Help:      "Total stake of the validator set",
			},
		),
	}

	registry.MustRegister(
		m.chainHeight,
		m.blocksProposed,
		m.roundsCommitted,
		m.roundsRejected,
		m.roundDuration,
		m.mempoolSize,
		m.txsFetched,
		m.txsCommitted,
		m.leaderElections,
		m.totalStake,
	)

	return m
}

// Handler returns an http.Handler serving the metrics registry.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PrometheusMetrics) SetChainHeight(height uint64) {
	m.chainHeight.Set(float64(height))
}

func (m *PrometheusMetrics) IncBlocksProposed() {
	m.blocksProposed.Inc()
}

func (m *PrometheusMetrics) IncRoundsCommitted() {
	m.roundsCommitted.Inc()
}

func (m *PrometheusMetrics) IncRoundsRejected(reason string) {
	m.roundsRejected.WithLabelValues(reason).Inc()
}

func (m *PrometheusMetrics) ObserveRoundDuration(d time.Duration) {
	m.roundDuration.Observe(d.Seconds())
}

func (m *PrometheusMetrics) SetMempoolSize(size int) {
	m.mempoolSize.Set(float64(size))
}

func (m *PrometheusMetrics) IncTxsFetched(source string, count int) {
	m.txsFetched.WithLabelValues(source).Add(float64(count))
}

func (m *PrometheusMetrics) IncTxsCommitted(count int) {
	m.txsCommitted.Add(float64(count))
}

func (m *PrometheusMetrics) IncLeaderElections(address string) {
	m.leaderElections.WithLabelValues(address).Inc()
}

func (m *PrometheusMetrics) SetTotalStake(stake float64) {
	m.totalStake.Set(stake)
}

// Verify interface compliance.
var _ Metrics = (*PrometheusMetrics)(nil)
