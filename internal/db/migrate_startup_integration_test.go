package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/garnizeh/talentflow/internal/config"
	"github.com/garnizeh/talentflow/internal/db"
	"github.com/garnizeh/talentflow/internal/seed"
)

// TestBootstrapOnStart_TempDB runs the startup sequence against a file
// database described by a config file, then restarts it to check that a
// populated store is left alone.
func TestBootstrapOnStart_TempDB(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "talentflow.db")

	cfgY := "addr: \":0\"\n" +
		"database_path: '" + dbPath + "'\n" +
		"migrate_on_start: true\n" +
		"seed_on_start: true\n" +
		"simulation:\n  enabled: false\n" +
		"seed:\n  jobs: 4\n  candidates: 20\n  assessments: 1\n  timeline_candidates: 5\n  random_seed: 11\n"

	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfgY), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}

	opts := seed.Options{
		Jobs:               cfg.Seed.Jobs,
		Candidates:         cfg.Seed.Candidates,
		Assessments:        cfg.Seed.Assessments,
		TimelineCandidates: cfg.Seed.TimelineCandidates,
		RandomSeed:         cfg.Seed.RandomSeed,
	}

	for run, wantSeeded := range []bool{true, false} {
		dbCtx, dbCancel := context.WithTimeout(ctx, cfg.APITimeout)
		d, err := db.New(dbCtx, cfg.DatabasePath, nil)
		if err != nil {
			dbCancel()
			t.Fatalf("run %d: open db: %v", run, err)
		}

		seeded, err := seed.Bootstrap(dbCtx, d, opts, nil)
		if err != nil {
			t.Fatalf("run %d: bootstrap failed: %v", run, err)
		}
		if seeded != wantSeeded {
			t.Fatalf("run %d: expected seeded=%v, got %v", run, wantSeeded, seeded)
		}

		var migrations, jobs int
		if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&migrations); err != nil {
			t.Fatalf("scan schema_migrations count: %v", err)
		}
		if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM jobs`).Scan(&jobs); err != nil {
			t.Fatalf("scan jobs count: %v", err)
		}
		if migrations != 4 || jobs != 4 {
			t.Fatalf("run %d: expected 4 migrations and 4 jobs, got %d and %d", run, migrations, jobs)
		}

		_ = d.Close()
		dbCancel()
	}
}
