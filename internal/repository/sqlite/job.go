package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/garnizeh/talentflow/internal/query"
	"github.com/garnizeh/talentflow/pkg/models"
	"github.com/garnizeh/talentflow/pkg/repository"
)

const jobColumns = `id, title, slug, status, tags, sort_order, description, location, type, key_requirements, date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(s rowScanner) (*models.Job, error) {
	var (
		j    models.Job
		tags string
		date sql.NullInt64
	)
	if err := s.Scan(&j.ID, &j.Title, &j.Slug, &j.Status, &tags, &j.Order, &j.Description, &j.Location, &j.Type, &j.KeyRequirements, &date); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &j.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for job %d: %w", j.ID, err)
	}
	if j.Tags == nil {
		j.Tags = []string{}
	}
	if date.Valid {
		t := fromMillis(date.Int64)
		j.Date = &t
	}
	return &j, nil
}

func nullableMillis(j *models.Job) any {
	if j.Date == nil {
		return nil
	}
	return toMillis(*j.Date)
}

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}
	if j.Tags == nil {
		j.Tags = []string{}
	}
	tags, err := marshalText(j.Tags)
	if err != nil {
		return 0, fmt.Errorf("encode tags: %w", err)
	}

	q := `INSERT INTO jobs (title, slug, status, tags, sort_order, description, location, type, key_requirements, date) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, j.Title, j.Slug, j.Status, tags, j.Order, j.Description, j.Location, j.Type, j.KeyRequirements, nullableMillis(j))
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	j.ID = id
	return id, nil
}

func (r *SQLiteRepo) AddJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}
	var id int64
	err := r.RunInTx(ctx, func(tx *SQLiteRepo) error {
		existing, err := tx.GetJobBySlug(ctx, j.Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			return repository.ErrSlugTaken
		}

		max, found, err := tx.MaxJobOrder(ctx)
		if err != nil {
			return err
		}
		j.Order = 0
		if found {
			j.Order = max + 1
		}

		id, err = tx.CreateJob(ctx, j)
		return err
	})
	return id, err
}

func (r *SQLiteRepo) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return j, nil
}

func (r *SQLiteRepo) GetJobBySlug(ctx context.Context, slug string) (*models.Job, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE slug = ? ORDER BY id LIMIT 1`, slug)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job by slug: %w", err)
	}
	return j, nil
}

func (r *SQLiteRepo) ListJobs(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs`
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY id`

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

// PatchJob applies the non-nil fields of p. The statement is built from the
// fields present so untouched columns are never rewritten.
func (r *SQLiteRepo) PatchJob(ctx context.Context, id int64, p models.JobPatch) error {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Slug != nil {
		add("slug", *p.Slug)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.Tags != nil {
		tags, err := marshalText(p.Tags)
		if err != nil {
			return fmt.Errorf("encode tags: %w", err)
		}
		add("tags", tags)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.Type != nil {
		add("type", *p.Type)
	}
	if p.KeyRequirements != nil {
		add("key_requirements", *p.KeyRequirements)
	}
	if p.Date != nil {
		add("date", toMillis(*p.Date))
	}

	if len(sets) == 0 {
		existing, err := r.GetJob(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return repository.ErrNotFound
		}
		return nil
	}

	q := `UPDATE jobs SET `
	for i, s := range sets {
		if i > 0 {
			q += ", "
		}
		q += s
	}
	q += ` WHERE id = ?`
	args = append(args, id)

	res, err := r.q.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("patch job %d: %w", id, err)
	}
	return affectedOrNotFound(res)
}

func (r *SQLiteRepo) EditJob(ctx context.Context, id int64, p models.JobPatch) error {
	return r.RunInTx(ctx, func(tx *SQLiteRepo) error {
		current, err := tx.GetJob(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return repository.ErrNotFound
		}
		if p.Slug != nil {
			existing, err := tx.GetJobBySlug(ctx, *p.Slug)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != id {
				return repository.ErrSlugTaken
			}
		}
		return tx.PatchJob(ctx, id, p)
	})
}

func (r *SQLiteRepo) DeleteJob(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete job %d: %w", id, err)
	}
	return affectedOrNotFound(res)
}

func (r *SQLiteRepo) MaxJobOrder(ctx context.Context) (int, bool, error) {
	var max sql.NullInt64
	if err := r.q.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM jobs`).Scan(&max); err != nil {
		return 0, false, fmt.Errorf("max job order: %w", err)
	}
	if !max.Valid {
		return 0, false, nil
	}
	return int(max.Int64), true, nil
}

// ReorderJobs loads every job by order, moves activeID to the position held
// by overID and rewrites each order to its index. All of it happens in one
// transaction; an unknown id returns ErrNotFound and nothing changes.
func (r *SQLiteRepo) ReorderJobs(ctx context.Context, activeID, overID int64) error {
	return r.RunInTx(ctx, func(tx *SQLiteRepo) error {
		jobs, err := tx.ListJobs(ctx, "")
		if err != nil {
			return err
		}
		query.SortByOrder(jobs)

		from, to := -1, -1
		for i, j := range jobs {
			if j.ID == activeID {
				from = i
			}
			if j.ID == overID {
				to = i
			}
		}
		if from < 0 || to < 0 {
			return repository.ErrNotFound
		}

		for i, j := range query.Move(jobs, from, to) {
			if _, err := tx.q.ExecContext(ctx, `UPDATE jobs SET sort_order = ? WHERE id = ?`, i, j.ID); err != nil {
				return fmt.Errorf("rewrite order of job %d: %w", j.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepo) CountJobs(ctx context.Context, status models.JobStatus) (int64, error) {
	if status == "" {
		return r.count(ctx, `SELECT COUNT(*) FROM jobs`)
	}
	return r.count(ctx, `SELECT COUNT(*) FROM jobs WHERE status = ?`, status)
}
