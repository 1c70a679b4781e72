package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/garnizeh/talentflow/pkg/models"
)

func scanAssessment(s rowScanner) (*models.Assessment, error) {
	var (
		a     models.Assessment
		state string
	)
	if err := s.Scan(&a.ID, &a.JobID, &state); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(state), &a.BuilderState); err != nil {
		return nil, fmt.Errorf("decode builder state for assessment %d: %w", a.ID, err)
	}
	if a.BuilderState.Sections == nil {
		a.BuilderState.Sections = []models.Section{}
	}
	return &a, nil
}

func (r *SQLiteRepo) CreateAssessment(ctx context.Context, a *models.Assessment) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("assessment is nil")
	}
	state, err := marshalText(a.BuilderState)
	if err != nil {
		return 0, fmt.Errorf("encode builder state: %w", err)
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO assessments (job_id, builder_state) VALUES (?, ?)`, a.JobID, state)
	if err != nil {
		return 0, fmt.Errorf("insert assessment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.ID = id
	return id, nil
}

func (r *SQLiteRepo) GetAssessment(ctx context.Context, id int64) (*models.Assessment, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, job_id, builder_state FROM assessments WHERE id = ?`, id)
	a, err := scanAssessment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %d: %w", id, err)
	}
	return a, nil
}

func (r *SQLiteRepo) GetAssessmentByJob(ctx context.Context, jobID int64) (*models.Assessment, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, job_id, builder_state FROM assessments WHERE job_id = ? ORDER BY id LIMIT 1`, jobID)
	a, err := scanAssessment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment for job %d: %w", jobID, err)
	}
	return a, nil
}

func (r *SQLiteRepo) ListAssessments(ctx context.Context) ([]models.Assessment, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, job_id, builder_state FROM assessments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	out := []models.Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateBuilderState(ctx context.Context, id int64, state models.BuilderState) error {
	raw, err := marshalText(state)
	if err != nil {
		return fmt.Errorf("encode builder state: %w", err)
	}
	res, err := r.q.ExecContext(ctx, `UPDATE assessments SET builder_state = ? WHERE id = ?`, raw, id)
	if err != nil {
		return fmt.Errorf("update assessment %d: %w", id, err)
	}
	return affectedOrNotFound(res)
}

func (r *SQLiteRepo) DeleteAssessment(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM assessments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete assessment %d: %w", id, err)
	}
	return affectedOrNotFound(res)
}

func (r *SQLiteRepo) CountAssessments(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM assessments`)
}
