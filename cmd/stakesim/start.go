package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/popzeka/stakesim/config"
	"github.com/popzeka/stakesim/consensus"
	"github.com/popzeka/stakesim/events"
	"github.com/popzeka/stakesim/logging"
	"github.com/popzeka/stakesim/metrics"
	"github.com/popzeka/stakesim/txsource"
)

var (
	startRounds int
	startSeed   int64
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the consensus simulation",
	Long: `Run the proof-of-stake consensus simulation with the specified
configuration.

The simulation runs the configured number of rounds (0 runs until
interrupted) and prints a chain summary when it finishes.

Example:
  stakesim start --config config.toml
  stakesim start --rounds 20 --seed 42`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().IntVar(&startRounds, "rounds", -1, "number of rounds to run (overrides config; 0 runs forever)")
	startCmd.Flags().Int64Var(&startSeed, "seed", 0, "random seed (overrides config)")
}

func runStart(cmd *cobra.Command, args []string) error {
	// Load configuration, falling back to defaults when no file exists.
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = config.DefaultConfig()
	}
	if startRounds >= 0 {
		cfg.Simulator.Rounds = startRounds
	}
	if startSeed != 0 {
		cfg.Simulator.Seed = startSeed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := createLogger(cfg.Logging)

	logger.Info("starting simulation",
		"validators", cfg.Simulator.Validators,
		"threshold", cfg.Simulator.Threshold,
		"rounds", cfg.Simulator.Rounds,
		"version", Version,
	)

	// Metrics.
	var sink metrics.Metrics = metrics.NewNopMetrics()
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheusMetrics(cfg.Metrics.Namespace)
		sink = prom

		mux := http.NewServeMux()
		mux.Handle("/metrics", prom.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
		go func() {
			logger.Info("serving metrics", "addr", cfg.Metrics.ListenAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", logging.Error(err))
			}
		}()
	}

	// Transaction source: remote feed with a local synthetic fallback, or
	// pure synthetic when no URL is configured.
	seed := cfg.Simulator.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var source txsource.Source = txsource.NewSynthetic(seed)
	if cfg.TxSource.URL != "" {
		remote := txsource.NewHTTPSource(cfg.TxSource.URL, cfg.TxSource.FetchTimeout.Duration(), seed)
		source = txsource.WithFallback(remote, txsource.NewSynthetic(seed), logger)
	}

	// Event bus: one CLI subscriber narrating rounds on stdout.
	bus := events.NewBus()
	bus.Start()
	ch, err := bus.Subscribe("cli")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	var narration sync.WaitGroup
	narration.Add(1)
	go func() {
		defer narration.Done()
		narrateRounds(ch)
	}()

	sim, err := consensus.New(cfg.Simulator,
		consensus.WithLogger(logger),
		consensus.WithMetrics(sink),
		consensus.WithBus(bus),
		consensus.WithSource(source),
		consensus.WithFetchRange(cfg.TxSource.MinFetch, cfg.TxSource.MaxFetch),
	)
	if err != nil {
		return fmt.Errorf("creating simulator: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	committed, rejected := 0, 0
	interval := cfg.Simulator.RoundInterval.Duration()

loop:
	for round := 1; cfg.Simulator.Rounds == 0 || round <= cfg.Simulator.Rounds; round++ {
		result, err := sim.RunRound(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("received signal, shutting down")
				break loop
			}
			return fmt.Errorf("round %d: %w", round, err)
		}
		if result.Committed() {
			committed++
		} else {
			rejected++
		}

		if interval > 0 && (cfg.Simulator.Rounds == 0 || round < cfg.Simulator.Rounds) {
			select {
			case <-ctx.Done():
				logger.Info("received signal, shutting down")
				break loop
			case <-time.After(interval):
			}
		}
	}

	bus.Stop()
	narration.Wait()

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", logging.Error(err))
		}
	}

	printSummary(sim, committed, rejected)
	return nil
}

// narrateRounds prints a human-readable line per round lifecycle event
// until the bus closes the channel.
func narrateRounds(ch <-chan events.Event) {
	for ev := range ch {
		switch ev.Type {
		case events.TypeRoundStarted:
			fmt.Printf("--- round for block #%d ---\n", ev.Height)
		case events.TypeLeaderSelected:
			fmt.Printf("leader %s (stake %.2f)\n", ev.Leader.Short(), ev.Stake)
		case events.TypeBlockProposed:
			fmt.Printf("proposed block #%d with %d tx(s)\n", ev.Height, len(ev.Block.Transactions))
		case events.TypeBlockCommitted:
			fmt.Printf("COMMITTED block #%d (%s) with %.2f/%.2f stake\n",
				ev.Height, ev.Block.Hash.Short(), ev.ApprovingStake, ev.TotalStake)
		case events.TypeRoundRejected:
			fmt.Printf("REJECTED round for block #%d: %s\n", ev.Height, ev.Reason)
		}
	}
}

func printSummary(sim *consensus.Simulator, committed, rejected int) {
	blocks := sim.Snapshot()

	fmt.Println()
	fmt.Println("Chain Summary")
	fmt.Println("=============")
	fmt.Printf("Height:          %d\n", sim.Height())
	fmt.Printf("Rounds:          %d committed, %d rejected\n", committed, rejected)
	fmt.Printf("Total stake:     %.2f\n", sim.TotalStake())
	fmt.Printf("Pending txs:     %d\n", sim.PoolSize())
	fmt.Println()
	for _, b := range blocks {
		fmt.Printf("  #%-4d %s  proposer=%s  txs=%d\n",
			b.Index, b.Hash.Short(), b.Proposer.Short(), len(b.Transactions))
	}
}

// createLogger creates a logger based on configuration.
func createLogger(cfg config.LoggingConfig) *logging.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	var w = os.Stderr
	if strings.ToLower(cfg.Output) == "stdout" {
		w = os.Stdout
	}

	if strings.ToLower(cfg.Format) == "json" {
		return logging.NewJSONLogger(w, level)
	}
	return logging.NewTextLogger(w, level)
}
