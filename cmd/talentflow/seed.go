package main

import (
	"fmt"

	"github.com/spf13/cobra"

	dbfs "github.com/garnizeh/talentflow/db"
	"github.com/garnizeh/talentflow/internal/db"
	"github.com/garnizeh/talentflow/internal/repository/sqlite"
	"github.com/garnizeh/talentflow/internal/seed"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo data",
	Long:  `Migrate the database and seed it when it has no jobs. With --force every existing row is deleted first.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Delete existing data and reseed")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	database, err := openDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	if !seedForce {
		seeded, err := seed.Bootstrap(ctx, database, seedOptions(cfg), logger)
		if err != nil {
			return err
		}
		if !seeded {
			fmt.Fprintln(cmd.OutOrStdout(), "Database already has data; use --force to reseed.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database seeded.")
		return nil
	}

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	sum, err := seed.Reseed(ctx, sqlite.New(database, logger), seedOptions(cfg), logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database reseeded: %d jobs, %d candidates, %d assessments, %d timeline events.\n",
		sum.Jobs, sum.Candidates, sum.Assessments, sum.TimelineEvents)
	return nil
}
