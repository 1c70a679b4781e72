package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	dbfs "github.com/garnizeh/talentflow/db"
	"github.com/garnizeh/talentflow/internal/db"
)

func TestBackupAndRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "talentflow.db")
	backup := filepath.Join(dir, "talentflow.db.bak")

	d, err := db.New(ctx, path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := d.Exec(ctx, `INSERT INTO jobs (title, slug) VALUES ('Before', 'before')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := db.Backup(ctx, d, backup); err != nil {
		t.Fatalf("backup: %v", err)
	}
	if err := db.Backup(ctx, d, backup); err == nil {
		t.Fatalf("expected error when backup target exists")
	}

	if _, err := d.Exec(ctx, `INSERT INTO jobs (title, slug) VALUES ('After', 'after')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := db.Restore(backup, path); err != nil {
		t.Fatalf("restore: %v", err)
	}

	d, err = db.New(ctx, path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()
	var n int
	if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected the backed up row only, got %d rows", n)
	}
}

func TestRestore_RejectsNonSQLite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	dst := filepath.Join(dir, "talentflow.db")
	if err := os.WriteFile(src, []byte("definitely not a database"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(dst, []byte("original"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := db.Restore(src, dst); err == nil {
		t.Fatalf("expected restore of a non-SQLite file to fail")
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "original" {
		t.Fatalf("failed restore must leave the target untouched, got %q", got)
	}
	if err := db.Restore(filepath.Join(dir, "missing.bak"), dst); err == nil {
		t.Fatalf("expected error for missing backup")
	}
}
