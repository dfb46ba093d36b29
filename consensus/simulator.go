package consensus

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/popzeka/stakesim/chain"
	"github.com/popzeka/stakesim/config"
	"github.com/popzeka/stakesim/events"
	"github.com/popzeka/stakesim/identity"
	"github.com/popzeka/stakesim/logging"
	"github.com/popzeka/stakesim/mempool"
	"github.com/popzeka/stakesim/metrics"
	"github.com/popzeka/stakesim/txsource"
	"github.com/popzeka/stakesim/types"
)

// Stake jitter bounds around the configured base stake.
const (
	stakeJitterMin = 0.8
	stakeJitterMax = 1.5
)

// Simulator owns one authoritative in-process view of the chain and drives
// consensus round by round. All chain and pool mutations happen on the
// caller's goroutine; rounds never overlap.
type Simulator struct {
	cfg        config.SimulatorConfig
	chain      *chain.Chain
	pool       *mempool.Pool
	voters     []Voter
	totalStake float64
	source     txsource.Source
	rng        *rand.Rand
	logger     *logging.Logger
	metrics    metrics.Metrics
	bus        *events.Bus

	voterFactory func(*chain.Chain) []Voter

	fetchMin int
	fetchMax int
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger. Defaults to a nop logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithMetrics sets the metrics sink. Defaults to no-op metrics.
func WithMetrics(m metrics.Metrics) Option {
	return func(s *Simulator) { s.metrics = m }
}

// WithBus sets the event bus round lifecycle events are published to.
// Defaults to an idle bus that discards events.
func WithBus(b *events.Bus) Option {
	return func(s *Simulator) { s.bus = b }
}

// WithSource sets the transaction source. Defaults to a local synthetic
// generator.
func WithSource(src txsource.Source) Option {
	return func(s *Simulator) { s.source = src }
}

// WithVoters replaces the generated validator set with an explicit one.
func WithVoters(voters []Voter) Option {
	return func(s *Simulator) { s.voters = voters }
}

// WithVoterFactory replaces the generated validator set with one built
// against the simulator's chain view. Useful when voters need the shared
// chain, which does not exist until the simulator is constructed.
func WithVoterFactory(f func(*chain.Chain) []Voter) Option {
	return func(s *Simulator) { s.voterFactory = f }
}

// WithFetchRange bounds the number of transactions requested per pool
// refill. Defaults to [5, 10].
func WithFetchRange(min, max int) Option {
	return func(s *Simulator) {
		s.fetchMin = min
		s.fetchMax = max
	}
}

// New creates a Simulator from the given configuration. Unless replaced via
// WithVoters, the validator set is generated: each validator gets a fresh
// checksummed address and a stake jittered uniformly around the base stake.
func New(cfg config.SimulatorConfig, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simulator config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Simulator{
		cfg:      cfg,
		chain:    chain.New(),
		pool:     mempool.New(0),
		rng:      rand.New(rand.NewSource(seed)),
		fetchMin: 5,
		fetchMax: 10,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	s.logger = s.logger.WithComponent("consensus")
	if s.metrics == nil {
		s.metrics = metrics.NewNopMetrics()
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}
	if s.source == nil {
		s.source = txsource.NewSynthetic(s.rng.Int63())
	}
	if s.fetchMin <= 0 || s.fetchMin > s.fetchMax {
		return nil, fmt.Errorf("invalid fetch range [%d, %d]", s.fetchMin, s.fetchMax)
	}

	if s.voters == nil && s.voterFactory != nil {
		s.voters = s.voterFactory(s.chain)
	}
	if s.voters == nil {
		voters, err := s.generateValidators(seed)
		if err != nil {
			return nil, err
		}
		s.voters = voters
	}
	if len(s.voters) == 0 {
		return nil, fmt.Errorf("simulator requires at least one voter")
	}

	// Summed once; stakes are fixed for the simulation's lifetime.
	for _, v := range s.voters {
		s.totalStake += v.Stake()
	}
	s.metrics.SetTotalStake(s.totalStake)
	s.metrics.SetChainHeight(s.chain.Height())

	return s, nil
}

// NewSimulator creates a Simulator with the given validator count and base
// stake and defaults for everything else.
func NewSimulator(validatorCount int, baseStake float64, opts ...Option) (*Simulator, error) {
	cfg := config.DefaultConfig().Simulator
	cfg.Validators = validatorCount
	cfg.BaseStake = baseStake
	return New(cfg, opts...)
}

func (s *Simulator) generateValidators(seed int64) ([]Voter, error) {
	gen := identity.NewGenerator(seed)
	voters := make([]Voter, 0, s.cfg.Validators)
	for i := 0; i < s.cfg.Validators; i++ {
		stake := s.cfg.BaseStake * (stakeJitterMin + s.rng.Float64()*(stakeJitterMax-stakeJitterMin))
		v, err := NewValidator(gen.NewAddress(), stake, s.chain, s.logger)
		if err != nil {
			return nil, fmt.Errorf("creating validator %d: %w", i, err)
		}
		s.logger.Info("validator initialized",
			logging.Validator(v.Address()),
			logging.Stake(v.Stake()),
		)
		voters = append(voters, v)
	}
	return voters, nil
}

// RunRound executes one full consensus round: pool refill, leader
// selection, proposal, stake-weighted voting, and conditional append. The
// round always reaches a terminal state; expected failures (empty pool,
// consensus not reached) are reported in the Result, not as errors. The
// only error conditions are context cancellation during the external fetch
// and the fatal ErrChainConsistency.
func (s *Simulator) RunRound(ctx context.Context) (*Result, error) {
	start := time.Now()
	height := s.chain.Height() + 1
	logger := s.logger.With(logging.Height(height))

	logger.Info("starting consensus round")
	s.bus.Publish(events.Event{Type: events.TypeRoundStarted, Height: height})

	// Pooling.
	if err := s.refillPool(ctx); err != nil {
		return nil, err
	}
	if s.pool.Size() == 0 {
		logger.Warn("mempool is empty, skipping round")
		return s.reject(logger, &Result{
			Height:     height,
			TotalStake: s.totalStake,
			Reason:     ReasonEmptyPool,
		}, start), nil
	}

	// Leader selection.
	leader := selectLeader(s.rng, s.voters)
	logger.Info("leader selected",
		logging.Proposer(leader.Address()),
		logging.Stake(leader.Stake()),
	)
	s.metrics.IncLeaderElections(leader.Address().String())
	s.bus.Publish(events.Event{
		Type:   events.TypeLeaderSelected,
		Height: height,
		Leader: leader.Address(),
		Stake:  leader.Stake(),
	})

	// Proposal: the first batch of pooled transactions, oldest first.
	batch := s.pool.PeekN(s.cfg.BatchSize)
	block := leader.Propose(batch)
	s.metrics.IncBlocksProposed()
	s.bus.Publish(events.Event{
		Type:   events.TypeBlockProposed,
		Height: height,
		Leader: leader.Address(),
		Block:  block,
	})

	// Voting.
	approving := s.tallyVotes(leader, block)
	ratio := approving / s.totalStake
	logger.Info("consensus check",
		logging.Stake(approving),
		logging.ApprovalRatio(ratio),
	)

	result := &Result{
		Height:         height,
		Leader:         leader.Address(),
		ApprovingStake: approving,
		TotalStake:     s.totalStake,
	}

	if !meetsThreshold(approving, s.totalStake, s.cfg.Threshold) {
		logger.Warn("consensus failed, block discarded",
			logging.BlockHash(block.Hash),
			logging.ApprovalRatio(ratio),
		)
		result.Reason = ReasonConsensusNotReached
		return s.reject(logger, result, start), nil
	}

	// Commit. The append gate re-runs the same validation the voters used,
	// so a failure here means the engine itself is broken.
	if !s.chain.Append(block) {
		logger.Error("block failed final validation despite consensus",
			logging.BlockHash(block.Hash),
		)
		return nil, fmt.Errorf("%w: block #%d", ErrChainConsistency, block.Index)
	}
	s.pool.DropN(len(batch))

	result.State = StateCommitted
	result.Block = block
	logger.Info("consensus reached, block committed",
		logging.BlockHash(block.Hash),
		logging.BatchSize(len(batch)),
	)

	s.metrics.IncRoundsCommitted()
	s.metrics.SetChainHeight(s.chain.Height())
	s.metrics.IncTxsCommitted(len(batch))
	s.metrics.SetMempoolSize(s.pool.Size())
	s.metrics.ObserveRoundDuration(time.Since(start))
	s.bus.Publish(events.Event{
		Type:           events.TypeBlockCommitted,
		Height:         height,
		Leader:         leader.Address(),
		Block:          block,
		ApprovingStake: approving,
		TotalStake:     s.totalStake,
	})

	return result, nil
}

// refillPool tops up the mempool from the transaction source when it falls
// below the low watermark. Source failures are logged and masked; only
// context cancellation propagates.
func (s *Simulator) refillPool(ctx context.Context) error {
	if s.pool.Size() >= s.cfg.LowWatermark {
		return nil
	}

	n := s.fetchMin
	if s.fetchMax > s.fetchMin {
		n += s.rng.Intn(s.fetchMax - s.fetchMin + 1)
	}
	s.logger.Info("fetching transactions", logging.Count(n))

	txs, err := s.source.Fetch(ctx, n)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("transaction fetch failed", logging.Error(err))
		return nil
	}

	added, err := s.pool.AddBatch(txs)
	if err != nil {
		s.logger.Warn("mempool refused transactions", logging.Error(err), logging.Count(added))
	}
	s.metrics.IncTxsFetched("source", added)
	s.metrics.SetMempoolSize(s.pool.Size())
	return nil
}

// tallyVotes sums the approving stake for a candidate block. The leader's
// stake approves automatically without a self-validation call; every other
// voter contributes its full stake iff Validate returns true. Auto-approval
// mirrors the leader never second-guessing itself, a liveness/safety
// tradeoff that would not survive an adversarial setting.
func (s *Simulator) tallyVotes(leader Voter, block *types.Block) float64 {
	var approving float64
	for _, v := range s.voters {
		if v.Address() == leader.Address() || v.Validate(block) {
			approving += v.Stake()
		}
	}
	return approving
}

func (s *Simulator) reject(logger *logging.Logger, result *Result, start time.Time) *Result {
	result.State = StateRejected
	s.metrics.IncRoundsRejected(result.Reason)
	s.metrics.ObserveRoundDuration(time.Since(start))
	s.bus.Publish(events.Event{
		Type:           events.TypeRoundRejected,
		Height:         result.Height,
		Leader:         result.Leader,
		ApprovingStake: result.ApprovingStake,
		TotalStake:     result.TotalStake,
		Reason:         result.Reason,
	})
	return result
}

// Height returns the current chain tip index.
func (s *Simulator) Height() uint64 {
	return s.chain.Height()
}

// Snapshot returns a read-only copy of the chain's block sequence.
func (s *Simulator) Snapshot() []*types.Block {
	return s.chain.Blocks()
}

// PoolSize returns the number of pending transactions.
func (s *Simulator) PoolSize() int {
	return s.pool.Size()
}

// Pending returns a snapshot of the pending transactions in pool order.
func (s *Simulator) Pending() []*types.Transaction {
	return s.pool.Snapshot()
}

// TotalStake returns the validator set's total stake.
func (s *Simulator) TotalStake() float64 {
	return s.totalStake
}

// Voters returns the validator set.
func (s *Simulator) Voters() []Voter {
	out := make([]Voter, len(s.voters))
	copy(out, s.voters)
	return out
}
