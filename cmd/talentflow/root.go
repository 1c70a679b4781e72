package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/garnizeh/talentflow/internal/config"
	"github.com/garnizeh/talentflow/internal/db"
	"github.com/garnizeh/talentflow/internal/seed"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "talentflow",
	Short:         "TalentFlow hiring API",
	Long:          "TalentFlow serves jobs, candidates and assessments over a JSON API backed by a single SQLite file.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML file")
}

// loadConfig reads and validates the configuration and builds the process
// logger at the configured level.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return cfg, logger, nil
}

func openDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.DB, error) {
	d, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}
	return d, nil
}

func seedOptions(cfg *config.Config) seed.Options {
	return seed.Options{
		Jobs:               cfg.Seed.Jobs,
		Candidates:         cfg.Seed.Candidates,
		Assessments:        cfg.Seed.Assessments,
		TimelineCandidates: cfg.Seed.TimelineCandidates,
		RandomSeed:         cfg.Seed.RandomSeed,
	}
}
