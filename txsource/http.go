package txsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/popzeka/stakesim/identity"
	"github.com/popzeka/stakesim/types"
)

// post is the shape of a record returned by the remote feed.
type post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// HTTPSource fetches transaction-shaped records from a JSON endpoint and
// turns each into a transaction with generated parties. The remote feed only
// contributes metadata; amounts and identities are drawn locally.
type HTTPSource struct {
	endpoint string
	client   *http.Client
	ids      *identity.Generator
	rng      *rand.Rand
	mu       sync.Mutex
}

// NewHTTPSource creates an HTTP source for the given endpoint. The timeout
// bounds every fetch.
func NewHTTPSource(endpoint string, timeout time.Duration, seed int64) *HTTPSource {
	return &HTTPSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		ids:      identity.NewGenerator(seed),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Fetch requests n records from the endpoint and maps them to transactions.
func (s *HTTPSource) Fetch(ctx context.Context, n int) ([]*types.Transaction, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("_limit", strconv.Itoa(n))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching transactions: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var posts []post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	txs := make([]*types.Transaction, 0, len(posts))
	for _, p := range posts {
		title := p.Title
		if title == "" {
			title = "N/A"
		}
		tx, err := types.NewTransaction(
			s.ids.NewAddress(),
			s.ids.NewAddress(),
			s.amount(),
			map[string]string{"api_title": title},
		)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (s *HTTPSource) amount() float64 {
	s.mu.Lock()
	v := minAmount + s.rng.Float64()*(maxAmount-minAmount)
	s.mu.Unlock()
	return roundTo(v, 4)
}
