// Package config provides TOML configuration for the stakesim simulator.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the main configuration for a stakesim run.
type Config struct {
	Simulator SimulatorConfig `toml:"simulator"`
	TxSource  TxSourceConfig  `toml:"txsource"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Logging   LoggingConfig   `toml:"logging"`
}

// SimulatorConfig contains the consensus engine parameters.
type SimulatorConfig struct {
	// Validators is the number of validators in the set.
	Validators int `toml:"validators"`

	// BaseStake is the base stake weight per validator. Each validator's
	// actual stake is jittered around this value for more realistic
	// leader selection.
	BaseStake float64 `toml:"base_stake"`

	// Threshold is the fraction of total stake that must approve a block
	// for it to commit. A tally exactly at the threshold commits.
	Threshold float64 `toml:"threshold"`

	// BatchSize is the number of pooled transactions a leader proposes
	// per block.
	BatchSize int `toml:"batch_size"`

	// LowWatermark is the pool size below which more transactions are
	// fetched before a round proceeds.
	LowWatermark int `toml:"low_watermark"`

	// Rounds is the number of consensus rounds the CLI driver runs.
	Rounds int `toml:"rounds"`

	// RoundInterval is the delay between rounds.
	RoundInterval Duration `toml:"round_interval"`

	// Seed seeds the simulator's random source. Zero means derive a seed
	// from the current time.
	Seed int64 `toml:"seed"`
}

// TxSourceConfig contains the external transaction source configuration.
type TxSourceConfig struct {
	// URL is the HTTP endpoint the simulator fetches transaction records
	// from. An empty URL disables the remote source entirely.
	URL string `toml:"url"`

	// FetchTimeout bounds a single fetch from the remote source.
	FetchTimeout Duration `toml:"fetch_timeout"`

	// MinFetch and MaxFetch bound the number of transactions requested
	// per refill.
	MinFetch int `toml:"min_fetch"`
	MaxFetch int `toml:"max_fetch"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Enabled determines whether metrics collection is active.
	Enabled bool `toml:"enabled"`

	// Namespace is the Prometheus metrics namespace prefix.
	Namespace string `toml:"namespace"`

	// ListenAddr is the address to serve metrics on (e.g., ":9090").
	ListenAddr string `toml:"listen_addr"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `toml:"level"`

	// Format is the log output format ("text" or "json").
	Format string `toml:"format"`

	// Output is the log output destination ("stdout" or "stderr").
	Output string `toml:"output"`
}

// Duration is a wrapper around time.Duration for TOML unmarshaling.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler for Duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Simulator: SimulatorConfig{
			Validators:    10,
			BaseStake:     1000.0,
			Threshold:     2.0 / 3.0,
			BatchSize:     5,
			LowWatermark:  5,
			Rounds:        5,
			RoundInterval: Duration(2 * time.Second),
			Seed:          0,
		},
		TxSource: TxSourceConfig{
			URL:          "https://jsonplaceholder.typicode.com/posts",
			FetchTimeout: Duration(5 * time.Second),
			MinFetch:     5,
			MaxFetch:     10,
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			Namespace:  "stakesim",
			ListenAddr: ":9090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// LoadConfig loads configuration from a TOML file.
// Missing values are filled with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a TOML file.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Validation errors.
var (
	ErrInvalidValidators    = errors.New("validators must be positive")
	ErrInvalidBaseStake     = errors.New("base_stake must be positive")
	ErrInvalidThreshold     = errors.New("threshold must be in (0, 1]")
	ErrInvalidBatchSize     = errors.New("batch_size must be positive")
	ErrInvalidLowWatermark  = errors.New("low_watermark must be positive")
	ErrInvalidRounds        = errors.New("rounds must be non-negative")
	ErrInvalidRoundInterval = errors.New("round_interval must be non-negative")
	ErrInvalidFetchTimeout  = errors.New("fetch_timeout must be positive when url is set")
	ErrInvalidFetchBounds   = errors.New("min_fetch must be positive and not exceed max_fetch")
	ErrEmptyMetricsNS       = errors.New("metrics namespace cannot be empty when enabled")
	ErrEmptyMetricsAddr     = errors.New("metrics listen_addr cannot be empty when enabled")
	ErrInvalidLogLevel      = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("log format must be 'text' or 'json'")
	ErrInvalidLogOutput     = errors.New("log output must be 'stdout' or 'stderr'")
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Simulator.Validate(); err != nil {
		return fmt.Errorf("simulator config: %w", err)
	}
	if err := c.TxSource.Validate(); err != nil {
		return fmt.Errorf("txsource config: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate checks the simulator configuration.
func (c *SimulatorConfig) Validate() error {
	if c.Validators <= 0 {
		return ErrInvalidValidators
	}
	if c.BaseStake <= 0 {
		return ErrInvalidBaseStake
	}
	if c.Threshold <= 0 || c.Threshold > 1 {
		return ErrInvalidThreshold
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.LowWatermark <= 0 {
		return ErrInvalidLowWatermark
	}
	if c.Rounds < 0 {
		return ErrInvalidRounds
	}
	if c.RoundInterval < 0 {
		return ErrInvalidRoundInterval
	}
	return nil
}

// Validate checks the transaction source configuration.
func (c *TxSourceConfig) Validate() error {
	if c.URL != "" && c.FetchTimeout <= 0 {
		return ErrInvalidFetchTimeout
	}
	if c.MinFetch <= 0 || c.MinFetch > c.MaxFetch {
		return ErrInvalidFetchBounds
	}
	return nil
}

// Validate checks the metrics configuration.
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Namespace == "" {
		return ErrEmptyMetricsNS
	}
	if c.ListenAddr == "" {
		return ErrEmptyMetricsAddr
	}
	return nil
}

// Validate checks the logging configuration.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch c.Format {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}
	switch c.Output {
	case "stdout", "stderr":
	default:
		return ErrInvalidLogOutput
	}
	return nil
}
