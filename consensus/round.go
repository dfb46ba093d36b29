package consensus

import (
	"errors"

	"github.com/popzeka/stakesim/types"
)

// State is a round's position in its lifecycle.
type State string

// Round states. Every round runs Pooling through Voted and terminates in
// exactly one of Committed or Rejected.
const (
	StatePooling        State = "pooling"
	StateLeaderSelected State = "leader_selected"
	StateProposed       State = "proposed"
	StateVoted          State = "voted"
	StateCommitted      State = "committed"
	StateRejected       State = "rejected"
)

// Rejection reasons carried in a Result.
const (
	// ReasonEmptyPool marks a no-op round: the pool was still empty after
	// the refill attempt.
	ReasonEmptyPool = "empty_pool"

	// ReasonConsensusNotReached marks a round whose approving stake fell
	// below the threshold.
	ReasonConsensusNotReached = "consensus_not_reached"
)

// ErrChainConsistency reports a block that passed the pre-commit validation
// check but failed the chain's own append-time re-validation. The two paths
// share one routine, so this indicates a programming-invariant violation
// and is surfaced loudly rather than swallowed.
var ErrChainConsistency = errors.New("committed block failed append-time validation")

// Result describes the outcome of one consensus round.
type Result struct {
	// State is the terminal state: StateCommitted or StateRejected.
	State State

	// Height is the chain height the round tried to extend to.
	Height uint64

	// Leader is the validator selected to propose, when the round got
	// that far.
	Leader types.Address

	// Block is the committed block on success, nil otherwise.
	Block *types.Block

	// ApprovingStake and TotalStake hold the vote tally.
	ApprovingStake float64
	TotalStake     float64

	// Reason explains a rejection.
	Reason string
}

// Committed returns true if the round appended a block.
func (r *Result) Committed() bool {
	return r.State == StateCommitted
}

// meetsThreshold reports whether the approving stake clears the consensus
// threshold. A tally exactly at the threshold commits.
func meetsThreshold(approving, total, threshold float64) bool {
	return approving/total >= threshold
}
