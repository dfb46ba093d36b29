package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 10, cfg.Simulator.Validators)
	require.Equal(t, 5, cfg.Simulator.BatchSize)
	require.Equal(t, 2.0/3.0, cfg.Simulator.Threshold)
	require.Equal(t, 2*time.Second, cfg.Simulator.RoundInterval.Duration())
}

func TestLoadConfig(t *testing.T) {
	t.Run("loads and overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[simulator]
validators = 4
base_stake = 250.0
rounds = 3
round_interval = "500ms"

[logging]
level = "debug"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 4, cfg.Simulator.Validators)
		require.Equal(t, 250.0, cfg.Simulator.BaseStake)
		require.Equal(t, 500*time.Millisecond, cfg.Simulator.RoundInterval.Duration())
		require.Equal(t, "debug", cfg.Logging.Level)
		// Untouched sections keep their defaults.
		require.Equal(t, 5, cfg.Simulator.BatchSize)
		require.Equal(t, "stakesim", cfg.Metrics.Namespace)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[simulator]\nvalidators = 0\n"), 0o644))
		_, err := LoadConfig(path)
		require.ErrorIs(t, err, ErrInvalidValidators)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Simulator.Seed = 42

	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero validators", func(c *Config) { c.Simulator.Validators = 0 }, ErrInvalidValidators},
		{"negative stake", func(c *Config) { c.Simulator.BaseStake = -1 }, ErrInvalidBaseStake},
		{"threshold above one", func(c *Config) { c.Simulator.Threshold = 1.5 }, ErrInvalidThreshold},
		{"threshold zero", func(c *Config) { c.Simulator.Threshold = 0 }, ErrInvalidThreshold},
		{"zero batch", func(c *Config) { c.Simulator.BatchSize = 0 }, ErrInvalidBatchSize},
		{"zero watermark", func(c *Config) { c.Simulator.LowWatermark = 0 }, ErrInvalidLowWatermark},
		{"negative rounds", func(c *Config) { c.Simulator.Rounds = -1 }, ErrInvalidRounds},
		{"zero fetch timeout", func(c *Config) { c.TxSource.FetchTimeout = 0 }, ErrInvalidFetchTimeout},
		{"fetch bounds inverted", func(c *Config) { c.TxSource.MinFetch = 20 }, ErrInvalidFetchBounds},
		{"metrics namespace", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Namespace = "" }, ErrEmptyMetricsNS},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, ErrInvalidLogLevel},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
		{"log output", func(c *Config) { c.Logging.Output = "/dev/null" }, ErrInvalidLogOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}
