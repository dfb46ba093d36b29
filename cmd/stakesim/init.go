package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/popzeka/stakesim/config"
)

var (
	initDir      string
	initOverride bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Initialize a stakesim working directory with a default config.toml.

Edit the file to tune the validator set, stake threshold, transaction
source, and metrics before running the simulation.

Example:
  stakesim init --dir ./mysim`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initDir, "dir", ".", "directory for the configuration file")
	initCmd.Flags().BoolVar(&initOverride, "force", false, "override an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := initDir
	if dir == "" {
		dir = "."
	}

	configPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(configPath); err == nil && !initOverride {
		return fmt.Errorf("config.toml already exists; use --force to override")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("Initialized stakesim\n")
	fmt.Printf("  Config:      %s\n", configPath)
	fmt.Printf("  Validators:  %d\n", cfg.Simulator.Validators)
	fmt.Printf("  Base stake:  %.1f\n", cfg.Simulator.BaseStake)
	fmt.Printf("  Threshold:   %.4f\n", cfg.Simulator.Threshold)
	fmt.Printf("  Rounds:      %d\n", cfg.Simulator.Rounds)

	return nil
}
