package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popzeka/stakesim/types"
)

func TestNewTextLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTextLogger(buf, slog.LevelInfo)
	require.NotNil(t, logger)

	logger.Info("test message", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "key=value")
}

func TestNewJSONLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewJSONLogger(buf, slog.LevelInfo)
	require.NotNil(t, logger)

	logger.Info("test message", "key", "value")

	output := buf.String()
	assert.Contains(t, output, `"msg":"test message"`)

	// Verify it's valid JSON
	var parsed map[string]any
	err := json.Unmarshal([]byte(output), &parsed)
	require.NoError(t, err)
	assert.Equal(t, "test message", parsed["msg"])
	assert.Equal(t, "value", parsed["key"])
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	require.NotNil(t, logger)

	// NopLogger should not panic and should discard all output
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
}

func TestLoggerWith(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTextLogger(buf, slog.LevelInfo)

	logger.WithComponent("consensus").Info("hello")
	assert.Contains(t, buf.String(), "component=consensus")

	buf.Reset()
	addr := types.Address("0x" + strings.Repeat("ab", types.AddressSize))
	logger.WithValidator(addr).Info("hello")
	assert.Contains(t, buf.String(), addr.Short())
}

func TestAttributeConstructors(t *testing.T) {
	assert.Equal(t, "height", Height(5).Key)
	assert.Equal(t, uint64(5), Height(5).Value.Uint64())

	h := types.Keccak256([]byte("block"))
	assert.Equal(t, h.String(), BlockHash(h).Value.String())

	assert.Equal(t, 0.75, ApprovalRatio(0.75).Value.Float64())
	assert.Equal(t, "rejected", State("rejected").Value.String())
	assert.Equal(t, "empty pool", Reason("empty pool").Value.String())
	assert.Equal(t, int64(3), Count(3).Value.Int64())
	assert.InDelta(t, 1500.0, Duration(1500*time.Millisecond).Value.Float64(), 0.001)

	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
	assert.True(t, Error(nil).Equal(slog.Attr{}))
}
