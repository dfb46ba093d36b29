package consensus

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/popzeka/stakesim/chain"
	"github.com/popzeka/stakesim/types"
)

// stubVoter is a rigged consensus participant for tests. Its vote is
// scripted instead of derived from chain state.
type stubVoter struct {
	addr       types.Address
	stake      float64
	chain      *chain.Chain
	validateFn func(*types.Block) bool
}

func (s *stubVoter) Address() types.Address { return s.addr }
func (s *stubVoter) Stake() float64         { return s.stake }

func (s *stubVoter) Propose(txs []*types.Transaction) *types.Block {
	tip := s.chain.Tip()
	return types.NewBlock(tip.Index+1, txs, tip.Hash, s.addr)
}

func (s *stubVoter) Validate(b *types.Block) bool {
	if s.validateFn != nil {
		return s.validateFn(b)
	}
	return false
}

func TestSelectLeader(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("empty set", func(t *testing.T) {
		require.Nil(t, selectLeader(rng, nil))
	})

	t.Run("single voter always wins", func(t *testing.T) {
		only := &stubVoter{addr: testAddr("aa"), stake: 5}
		for i := 0; i < 100; i++ {
			require.Same(t, only, selectLeader(rng, []Voter{only}))
		}
	})
}

func TestWeightedLeaderSelection(t *testing.T) {
	// Stakes 1, 2, 3 of a total 6: selection frequency must converge to
	// the stake ratio within a small statistical tolerance.
	voters := []Voter{
		&stubVoter{addr: testAddr("aa"), stake: 1},
		&stubVoter{addr: testAddr("bb"), stake: 2},
		&stubVoter{addr: testAddr("cc"), stake: 3},
	}

	const draws = 30000
	rng := rand.New(rand.NewSource(42))
	counts := make(map[types.Address]int)
	for i := 0; i < draws; i++ {
		counts[selectLeader(rng, voters).Address()]++
	}

	for _, v := range voters {
		expected := v.Stake() / 6.0
		observed := float64(counts[v.Address()]) / draws
		require.InDelta(t, expected, observed, 0.02,
			"voter with stake %v: expected %v, observed %v", v.Stake(), expected, observed)
	}
}
