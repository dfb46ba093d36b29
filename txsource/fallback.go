package txsource

import (
	"context"

	"github.com/popzeka/stakesim/logging"
	"github.com/popzeka/stakesim/types"
)

// Fallback masks failures of a primary source by retrying the fetch against
// a secondary one. With a Synthetic secondary a fetch never fails, so source
// outages never propagate past the pooling step.
type Fallback struct {
	primary   Source
	secondary Source
	logger    *logging.Logger
}

// WithFallback wraps primary so that on error the fetch is served by
// secondary instead. A nil logger disables logging.
func WithFallback(primary, secondary Source, logger *logging.Logger) *Fallback {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		logger:    logger.WithComponent("txsource"),
	}
}

// Fetch tries the primary source and falls back on failure.
func (f *Fallback) Fetch(ctx context.Context, n int) ([]*types.Transaction, error) {
	txs, err := f.primary.Fetch(ctx, n)
	if err == nil {
		return txs, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	f.logger.Warn("primary source failed, generating locally",
		"error", err, "count", n)
	return f.secondary.Fetch(ctx, n)
}
