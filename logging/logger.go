// Package logging provides structured logging for the simulator.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/popzeka/stakesim/types"
)

// Logger is a structured logger for stakesim.
// It wraps slog.Logger with convenience methods for common logging patterns.
type Logger struct {
	*slog.Logger
}

// New creates a new Logger with the given handler.
func New(handler slog.Handler) *Logger {
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a new Logger with text output format.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: false,
	}
	return New(slog.NewTextHandler(w, opts))
}

// NewJSONLogger creates a new Logger with JSON output format.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: false,
	}
	return New(slog.NewJSONHandler(w, opts))
}

// NewDevelopmentLogger creates a logger suitable for development.
// Uses text format with debug level output to stderr.
func NewDevelopmentLogger() *Logger {
	return NewTextLogger(os.Stderr, slog.LevelDebug)
}

// NewNopLogger creates a logger that discards all output.
func NewNopLogger() *Logger {
	return New(nopHandler{})
}

// With returns a new Logger with the given attributes added to every log entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// WithComponent returns a new Logger with a component attribute.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With(Component(name))
}

// WithValidator returns a new Logger with a validator address attribute.
func (l *Logger) WithValidator(addr types.Address) *Logger {
	return l.With(Validator(addr))
}

// Common attribute constructors for simulator-specific fields.

// Component creates a component attribute for identifying the source module.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Height creates a block height attribute.
func Height(h uint64) slog.Attr {
	return slog.Uint64("height", h)
}

// BlockHash creates a block hash attribute (hex-encoded).
func BlockHash(h types.Hash) slog.Attr {
	return slog.String("block_hash", h.String())
}

// Validator creates a validator address attribute.
func Validator(addr types.Address) slog.Attr {
	return slog.String("validator", addr.Short())
}

// Proposer creates a proposer address attribute.
func Proposer(addr types.Address) slog.Attr {
	return slog.String("proposer", addr.Short())
}

// Stake creates a stake weight attribute.
func Stake(s float64) slog.Attr {
	return slog.Float64("stake", s)
}

// ApprovalRatio creates an approving-over-total stake ratio attribute.
func ApprovalRatio(r float64) slog.Attr {
	return slog.Float64("approval_ratio", r)
}

// State creates a round state attribute.
func State(s string) slog.Attr {
	return slog.String("state", s)
}

// Reason creates a reason attribute.
func Reason(r string) slog.Attr {
	return slog.String("reason", r)
}

// Count creates a count attribute.
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// BatchSize creates a batch size attribute.
func BatchSize(n int) slog.Attr {
	return slog.Int("batch_size", n)
}

// Duration creates a duration attribute in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64("duration_ms", float64(d.Nanoseconds())/1e6)
}

// Error creates an error attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// nopHandler is a slog.Handler that discards all logs.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
