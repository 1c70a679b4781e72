package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/talentflow/pkg/models"
)

func scanEvent(s rowScanner) (*models.TimelineEvent, error) {
	var (
		e  models.TimelineEvent
		ts int64
	)
	if err := s.Scan(&e.ID, &e.CandidateID, &ts, &e.Type, &e.Content); err != nil {
		return nil, err
	}
	e.Timestamp = fromMillis(ts)
	return &e, nil
}

// AppendEvent stores e. A zero Timestamp is set to the current time.
func (r *SQLiteRepo) AppendEvent(ctx context.Context, e *models.TimelineEvent) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("event is nil")
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = now()
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO timeline_events (candidate_id, timestamp, type, content) VALUES (?, ?, ?, ?)`,
		e.CandidateID, toMillis(e.Timestamp), e.Type, e.Content)
	if err != nil {
		return 0, fmt.Errorf("insert timeline event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	e.ID = id
	e.Timestamp = fromMillis(toMillis(e.Timestamp))
	return id, nil
}

func (r *SQLiteRepo) GetEvent(ctx context.Context, id int64) (*models.TimelineEvent, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, candidate_id, timestamp, type, content FROM timeline_events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get timeline event %d: %w", id, err)
	}
	return e, nil
}

func (r *SQLiteRepo) ListEvents(ctx context.Context, candidateID int64) ([]models.TimelineEvent, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, candidate_id, timestamp, type, content FROM timeline_events WHERE candidate_id = ? ORDER BY timestamp DESC, id DESC`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list timeline events: %w", err)
	}
	defer rows.Close()

	out := []models.TimelineEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
