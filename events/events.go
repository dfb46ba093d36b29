// Package events provides an in-memory pub/sub bus for round lifecycle
// events, so observers (the CLI narrative, tests) can follow a simulation
// without being wired into the consensus engine.
package events

import (
	"time"

	"github.com/popzeka/stakesim/types"
)

// Type identifies a kind of simulation event.
type Type string

// Event types emitted over a simulation's lifetime.
const (
	TypeRoundStarted   Type = "round_started"
	TypeLeaderSelected Type = "leader_selected"
	TypeBlockProposed  Type = "block_proposed"
	TypeBlockCommitted Type = "block_committed"
	TypeRoundRejected  Type = "round_rejected"
)

// Event is a single simulation event. Fields beyond Type and Time are
// populated per event type.
type Event struct {
	Type Type
	Time time.Time

	// Height is the chain height the round is trying to extend to.
	Height uint64

	// Leader is the validator selected to propose, when known.
	Leader types.Address

	// Stake is the leader's stake for leader_selected events.
	Stake float64

	// Block is the proposed or committed block, when present.
	Block *types.Block

	// ApprovingStake and TotalStake carry the vote tally for terminal events.
	ApprovingStake float64
	TotalStake     float64

	// Reason explains a rejection.
	Reason string
}
