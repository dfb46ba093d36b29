package consensus

import (
	"math/rand"
	"sort"
)

// selectLeader draws one voter with probability proportional to its stake:
// a cumulative stake table, a single uniform draw in [0, totalStake), and a
// binary search. One weighted draw per round, never reshuffled per
// candidate, so over many rounds selection frequency converges to
// stake/totalStake.
func selectLeader(rng *rand.Rand, voters []Voter) Voter {
	if len(voters) == 0 {
		return nil
	}

	cumulative := make([]float64, len(voters))
	var total float64
	for i, v := range voters {
		total += v.Stake()
		cumulative[i] = total
	}

	draw := rng.Float64() * total
	idx := sort.SearchFloat64s(cumulative, draw)
	if idx == len(voters) {
		idx = len(voters) - 1
	}
	return voters[idx]
}
