// Package consensus implements the stake-weighted consensus engine: the
// validator set, leader selection, and the per-round state machine.
package consensus

import (
	"errors"
	"fmt"

	"github.com/popzeka/stakesim/chain"
	"github.com/popzeka/stakesim/logging"
	"github.com/popzeka/stakesim/types"
)

// Common validator errors.
var (
	ErrInvalidStake   = errors.New("validator stake must be positive")
	ErrInvalidAddress = errors.New("validator address is malformed")
	ErrNilChain       = errors.New("validator requires a chain")
)

// Voter is one consensus participant as seen by a round: an identity, a
// stake weight, and the ability to propose and validate candidate blocks.
type Voter interface {
	// Address returns the participant's stable identity.
	Address() types.Address

	// Stake returns the participant's voting weight. Positive and fixed
	// for the participant's lifetime.
	Stake() float64

	// Propose constructs a block extending the current chain tip with the
	// given batch. The batch is passed through untouched.
	Propose(txs []*types.Transaction) *types.Block

	// Validate independently re-validates a candidate against the current
	// chain tip.
	Validate(candidate *types.Block) bool
}

// Validator is a consensus participant bound to a shared chain view.
// It reads the chain but never mutates it.
type Validator struct {
	addr   types.Address
	stake  float64
	chain  *chain.Chain
	logger *logging.Logger
}

// NewValidator creates a validator with the given identity and stake.
func NewValidator(addr types.Address, stake float64, c *chain.Chain, logger *logging.Logger) (*Validator, error) {
	if stake <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStake, stake)
	}
	if !addr.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	if c == nil {
		return nil, ErrNilChain
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Validator{
		addr:   addr,
		stake:  stake,
		chain:  c,
		logger: logger.WithComponent("validator").WithValidator(addr),
	}, nil
}

// Address returns the validator's identity.
func (v *Validator) Address() types.Address {
	return v.addr
}

// Stake returns the validator's stake weight.
func (v *Validator) Stake() float64 {
	return v.stake
}

// Propose constructs a block extending the current tip. It has no side
// effect on the chain itself.
func (v *Validator) Propose(txs []*types.Transaction) *types.Block {
	tip := v.chain.Tip()
	block := types.NewBlock(tip.Index+1, txs, tip.Hash, v.addr)
	v.logger.Info("proposing block",
		logging.Height(block.Index),
		logging.BatchSize(len(txs)),
		logging.BlockHash(block.Hash),
	)
	return block
}

// Validate delegates to the chain's authoritative check against the current
// tip. If the chain advanced between proposal and vote the candidate is
// correctly rejected.
func (v *Validator) Validate(candidate *types.Block) bool {
	err := chain.CheckBlock(candidate, v.chain.Tip())
	if err != nil {
		v.logger.Warn("voting no",
			logging.Height(candidate.Index),
			logging.Error(err),
		)
		return false
	}
	v.logger.Debug("voting yes", logging.Height(candidate.Index))
	return true
}

// Verify interface compliance.
var _ Voter = (*Validator)(nil)
