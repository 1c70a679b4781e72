package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/garnizeh/talentflow/pkg/models"
)

func scanResponse(s rowScanner) (*models.AssessmentResponse, error) {
	var (
		resp      models.AssessmentResponse
		data      string
		submitted int64
	)
	if err := s.Scan(&resp.ID, &resp.JobID, &data, &submitted); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &resp.ResponseData); err != nil {
		return nil, fmt.Errorf("decode response data for response %d: %w", resp.ID, err)
	}
	resp.SubmittedAt = fromMillis(submitted)
	return &resp, nil
}

// CreateResponse stores resp. A zero SubmittedAt is set to the current time.
func (r *SQLiteRepo) CreateResponse(ctx context.Context, resp *models.AssessmentResponse) (int64, error) {
	if resp == nil {
		return 0, fmt.Errorf("response is nil")
	}
	if resp.SubmittedAt.IsZero() {
		resp.SubmittedAt = now()
	}
	data, err := marshalText(resp.ResponseData)
	if err != nil {
		return 0, fmt.Errorf("encode response data: %w", err)
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO assessment_responses (job_id, response_data, submitted_at) VALUES (?, ?, ?)`,
		resp.JobID, data, toMillis(resp.SubmittedAt))
	if err != nil {
		return 0, fmt.Errorf("insert assessment response: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	resp.ID = id
	resp.SubmittedAt = fromMillis(toMillis(resp.SubmittedAt))
	return id, nil
}

func (r *SQLiteRepo) GetResponse(ctx context.Context, id int64) (*models.AssessmentResponse, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, job_id, response_data, submitted_at FROM assessment_responses WHERE id = ?`, id)
	resp, err := scanResponse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment response %d: %w", id, err)
	}
	return resp, nil
}

func (r *SQLiteRepo) ListResponsesByJob(ctx context.Context, jobID int64) ([]models.AssessmentResponse, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, job_id, response_data, submitted_at FROM assessment_responses WHERE job_id = ? ORDER BY submitted_at DESC, id DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list assessment responses: %w", err)
	}
	defer rows.Close()

	out := []models.AssessmentResponse{}
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment response: %w", err)
		}
		out = append(out, *resp)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountResponses(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM assessment_responses`)
}
