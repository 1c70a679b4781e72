package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/talentflow/pkg/models"
)

const candidateColumns = `id, name, email, stage, job_id`

func scanCandidate(s rowScanner) (*models.Candidate, error) {
	var c models.Candidate
	if err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Stage, &c.JobID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteRepo) CreateCandidate(ctx context.Context, c *models.Candidate) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("candidate is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO candidates (name, email, stage, job_id) VALUES (?, ?, ?, ?)`, c.Name, c.Email, c.Stage, c.JobID)
	if err != nil {
		return 0, fmt.Errorf("insert candidate: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

func (r *SQLiteRepo) GetCandidate(ctx context.Context, id int64) (*models.Candidate, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id)
	c, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate %d: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepo) listCandidates(ctx context.Context, q string, args ...any) ([]models.Candidate, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	out := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) ListCandidates(ctx context.Context, stage models.Stage) ([]models.Candidate, error) {
	if stage == "" {
		return r.listCandidates(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY id`)
	}
	return r.listCandidates(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE stage = ? ORDER BY id`, stage)
}

func (r *SQLiteRepo) ListCandidatesByJob(ctx context.Context, jobID int64) ([]models.Candidate, error) {
	return r.listCandidates(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE job_id = ? ORDER BY id`, jobID)
}

func (r *SQLiteRepo) UpdateCandidateStage(ctx context.Context, id int64, stage models.Stage) error {
	res, err := r.q.ExecContext(ctx, `UPDATE candidates SET stage = ? WHERE id = ?`, stage, id)
	if err != nil {
		return fmt.Errorf("update candidate %d stage: %w", id, err)
	}
	return affectedOrNotFound(res)
}

// CountCandidatesByStage returns a count for every stage, zero included.
func (r *SQLiteRepo) CountCandidatesByStage(ctx context.Context) (map[models.Stage]int64, error) {
	out := make(map[models.Stage]int64, len(models.Stages))
	for _, st := range models.Stages {
		out[st] = 0
	}

	rows, err := r.q.QueryContext(ctx, `SELECT stage, COUNT(*) FROM candidates GROUP BY stage`)
	if err != nil {
		return nil, fmt.Errorf("count candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			st models.Stage
			n  int64
		)
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan stage count: %w", err)
		}
		out[st] = n
	}
	return out, rows.Err()
}
