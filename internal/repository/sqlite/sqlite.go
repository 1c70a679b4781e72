package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/garnizeh/talentflow/internal/db"
	"github.com/garnizeh/talentflow/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
// A repo returned by RunInTx routes every statement through the transaction.
type SQLiteRepo struct {
	conn   *db.DB
	q      db.Querier
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.JobRepo = (*SQLiteRepo)(nil)
var _ repository.CandidateRepo = (*SQLiteRepo)(nil)
var _ repository.TimelineRepo = (*SQLiteRepo)(nil)
var _ repository.AssessmentRepo = (*SQLiteRepo)(nil)
var _ repository.ResponseRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &SQLiteRepo{conn: conn, q: conn.GetConn(), logger: logger}
}

// RunInTx calls fn with a repo bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise. Nested calls reuse the
// outer transaction.
func (r *SQLiteRepo) RunInTx(ctx context.Context, fn func(tx *SQLiteRepo) error) error {
	if _, inTx := r.q.(*sql.Tx); inTx {
		return fn(r)
	}
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(&SQLiteRepo{conn: r.conn, q: tx, logger: r.logger})
	})
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrSlugTaken) {
			level = slog.LevelDebug
		}
		r.logger.Log(ctx, level, "transaction rolled back", "error", err)
	}
	return err
}

func now() time.Time {
	return time.Now().UTC()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func marshalText(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var tables = []string{"assessment_responses", "timeline_events", "assessments", "candidates", "jobs"}

// Clear deletes every row and resets the id sequences.
func (r *SQLiteRepo) Clear(ctx context.Context) error {
	return r.RunInTx(ctx, func(tx *SQLiteRepo) error {
		for _, t := range tables {
			if _, err := tx.q.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
			if _, err := tx.q.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = ?`, t); err != nil {
				return fmt.Errorf("reset %s sequence: %w", t, err)
			}
		}
		return nil
	})
}
