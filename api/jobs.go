package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/garnizeh/talentflow/internal/query"
	"github.com/garnizeh/talentflow/pkg/models"
	"github.com/garnizeh/talentflow/pkg/repository"
)

const errSlugTaken = "Job title must be unique (slug already exists)"

type JobsHandler struct {
	jobs repository.JobRepo
}

func NewJobsHandler(jr repository.JobRepo) *JobsHandler {
	return &JobsHandler{jobs: jr}
}

// jobRequest is the body of create and full edit. Optional text fields left
// out of an edit keep their stored value.
type jobRequest struct {
	Title           string           `json:"title" validate:"required,max=200"`
	Status          models.JobStatus `json:"status" validate:"omitempty,oneof=active archived"`
	Tags            []string         `json:"tags" validate:"max=20,dive,max=50"`
	Description     *string          `json:"description" validate:"omitempty,max=20000"`
	Location        *string          `json:"location" validate:"omitempty,max=200"`
	Type            models.JobType   `json:"type" validate:"omitempty,oneof=Full-time Part-time Contract"`
	KeyRequirements *string          `json:"keyRequirements" validate:"omitempty,max=20000"`
	Date            string           `json:"date"`
}

type statusRequest struct {
	Status models.JobStatus `json:"status" validate:"required,oneof=active archived"`
}

type reorderRequest struct {
	ActiveID int64 `json:"activeId" validate:"required"`
	OverID   int64 `json:"overId" validate:"required"`
}

type reorderResponse struct {
	Success bool `json:"success"`
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// decodeJob decodes and validates a job body and derives its slug.
func decodeJob(w http.ResponseWriter, r *http.Request) (jobRequest, string, *time.Time, bool) {
	var req jobRequest
	if !decodeAndValidate(w, r, &req, func() { req.Title = strings.TrimSpace(req.Title) }) {
		return req, "", nil, false
	}
	slug := models.Slugify(req.Title)
	if slug == "" {
		http.Error(w, "Title must contain letters or digits", http.StatusBadRequest)
		return req, "", nil, false
	}
	date, ok := parseDate(req.Date)
	if !ok {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return req, "", nil, false
	}
	return req, slug, date, true
}

// ListJobs serves GET /jobs with search, status, tag and page filters.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := query.ParseJobQuery(r.URL.Query())

	jobs, err := h.jobs.ListJobs(r.Context(), q.StatusFilter())
	if err != nil {
		internalError(w, r, "list jobs", err)
		return
	}

	writeJSON(w, q.Apply(jobs), http.StatusOK)
}

func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Job")
	if !ok {
		return
	}

	job, err := h.jobs.GetJob(r.Context(), id)
	if err != nil {
		internalError(w, r, "get job", err)
		return
	}
	if job == nil {
		notFound(w, "Job")
		return
	}

	writeJSON(w, job, http.StatusOK)
}

func (h *JobsHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	req, slug, date, ok := decodeJob(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	job := &models.Job{
		Title:           req.Title,
		Slug:            slug,
		Status:          req.Status,
		Tags:            query.DedupeTags(req.Tags),
		Description:     deref(req.Description),
		Location:        deref(req.Location),
		Type:            req.Type,
		KeyRequirements: deref(req.KeyRequirements),
		Date:            date,
	}
	if job.Status == "" {
		job.Status = models.JobStatusActive
	}
	if job.Type == "" {
		job.Type = models.JobTypeFullTime
	}

	id, err := h.jobs.AddJob(ctx, job)
	if errors.Is(err, repository.ErrSlugTaken) {
		http.Error(w, errSlugTaken, http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, r, "create job", err)
		return
	}
	created, err := h.jobs.GetJob(ctx, id)
	if err != nil || created == nil {
		internalError(w, r, "reload created job", err)
		return
	}

	logger.Info("job created", "id", id, "slug", slug)
	writeJSON(w, created, http.StatusCreated)
}

// UpdateJob serves the full edit. The order is never changed here.
func (h *JobsHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Job")
	if !ok {
		return
	}
	req, slug, date, ok := decodeJob(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	patch := models.JobPatch{
		Title:           &req.Title,
		Slug:            &slug,
		Description:     req.Description,
		Location:        req.Location,
		KeyRequirements: req.KeyRequirements,
		Date:            date,
	}
	if req.Status != "" {
		patch.Status = &req.Status
	}
	if req.Type != "" {
		patch.Type = &req.Type
	}
	if req.Tags != nil {
		patch.Tags = query.DedupeTags(req.Tags)
	}

	if err := h.jobs.EditJob(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			notFound(w, "Job")
		case errors.Is(err, repository.ErrSlugTaken):
			http.Error(w, errSlugTaken, http.StatusBadRequest)
		default:
			internalError(w, r, "update job", err)
		}
		return
	}

	h.respondJob(w, r, id, http.StatusOK)
}

func (h *JobsHandler) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Job")
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSONBody(r, &req); err != nil || validate.Struct(&req) != nil {
		http.Error(w, "Invalid status provided", http.StatusBadRequest)
		return
	}

	if err := h.jobs.PatchJob(r.Context(), id, models.JobPatch{Status: &req.Status}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, "Job")
			return
		}
		internalError(w, r, "update job status", err)
		return
	}

	h.respondJob(w, r, id, http.StatusOK)
}

// ReorderJobs moves activeId to overId's position and renumbers every job.
func (h *JobsHandler) ReorderJobs(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeAndValidate(w, r, &req, nil) {
		return
	}

	if err := h.jobs.ReorderJobs(r.Context(), req.ActiveID, req.OverID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, "Job")
			return
		}
		internalError(w, r, "reorder jobs", err)
		return
	}

	logger.Info("jobs reordered", "active_id", req.ActiveID, "over_id", req.OverID)
	writeJSON(w, reorderResponse{Success: true}, http.StatusOK)
}

func (h *JobsHandler) respondJob(w http.ResponseWriter, r *http.Request, id int64, status int) {
	job, err := h.jobs.GetJob(r.Context(), id)
	if err != nil {
		internalError(w, r, "reload job", err)
		return
	}
	if job == nil {
		notFound(w, "Job")
		return
	}
	writeJSON(w, job, status)
}
