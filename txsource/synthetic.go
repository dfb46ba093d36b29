package txsource

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/popzeka/stakesim/identity"
	"github.com/popzeka/stakesim/types"
)

// Amount distribution for generated transactions.
const (
	minAmount = 0.1
	maxAmount = 10.0
)

// Synthetic generates transactions locally with randomized parties and an
// amount drawn uniformly from [0.1, 10.0], rounded to 4 decimal places.
// It never fails, which makes it the fallback of choice for the remote
// source. Safe for concurrent use.
type Synthetic struct {
	ids *identity.Generator
	rng *rand.Rand
	mu  sync.Mutex
}

// NewSynthetic creates a synthetic source seeded with the given value.
func NewSynthetic(seed int64) *Synthetic {
	return &Synthetic{
		ids: identity.NewGenerator(seed),
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Fetch generates n transactions.
func (s *Synthetic) Fetch(_ context.Context, n int) ([]*types.Transaction, error) {
	txs := make([]*types.Transaction, 0, n)
	for i := 0; i < n; i++ {
		tx, err := types.NewTransaction(s.ids.NewAddress(), s.ids.NewAddress(), s.amount(), nil)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (s *Synthetic) amount() float64 {
	s.mu.Lock()
	v := minAmount + s.rng.Float64()*(maxAmount-minAmount)
	s.mu.Unlock()
	return roundTo(v, 4)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
