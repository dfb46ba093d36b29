package txsource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/popzeka/stakesim/types"
)

func TestSyntheticFetch(t *testing.T) {
	src := NewSynthetic(42)

	txs, err := src.Fetch(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, txs, 50)

	for _, tx := range txs {
		require.True(t, tx.Sender.Valid())
		require.True(t, tx.Receiver.Valid())
		require.GreaterOrEqual(t, tx.Amount, 0.1)
		require.LessOrEqual(t, tx.Amount, 10.0)
	}
}

func TestHTTPSourceFetch(t *testing.T) {
	t.Run("maps records to transactions", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "3", r.URL.Query().Get("_limit"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":1,"title":"first"},{"id":2,"title":"second"},{"id":3,"title":""}]`))
		}))
		defer srv.Close()

		src := NewHTTPSource(srv.URL, time.Second, 1)
		txs, err := src.Fetch(context.Background(), 3)
		require.NoError(t, err)
		require.Len(t, txs, 3)
		require.Equal(t, "first", txs[0].Metadata["api_title"])
		require.Equal(t, "N/A", txs[2].Metadata["api_title"])
		for _, tx := range txs {
			require.True(t, tx.Sender.Valid())
			require.GreaterOrEqual(t, tx.Amount, 0.1)
			require.LessOrEqual(t, tx.Amount, 10.0)
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		src := NewHTTPSource(srv.URL, time.Second, 1)
		_, err := src.Fetch(context.Background(), 3)
		require.Error(t, err)
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		src := NewHTTPSource(srv.URL, time.Second, 1)
		_, err := src.Fetch(context.Background(), 3)
		require.Error(t, err)
	})

	t.Run("unreachable endpoint is an error", func(t *testing.T) {
		src := NewHTTPSource("http://127.0.0.1:1", 200*time.Millisecond, 1)
		_, err := src.Fetch(context.Background(), 3)
		require.Error(t, err)
	})
}

// failingSource always errors.
type failingSource struct{}

func (failingSource) Fetch(context.Context, int) ([]*types.Transaction, error) {
	return nil, errors.New("feed down")
}

func TestFallback(t *testing.T) {
	t.Run("primary success passes through", func(t *testing.T) {
		src := WithFallback(NewSynthetic(1), failingSource{}, nil)
		txs, err := src.Fetch(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, txs, 2)
	})

	t.Run("primary failure masked by secondary", func(t *testing.T) {
		src := WithFallback(failingSource{}, NewSynthetic(1), nil)
		txs, err := src.Fetch(context.Background(), 4)
		require.NoError(t, err)
		require.Len(t, txs, 4)
	})

	t.Run("both failing propagates error", func(t *testing.T) {
		src := WithFallback(failingSource{}, failingSource{}, nil)
		_, err := src.Fetch(context.Background(), 1)
		require.Error(t, err)
	})
}
