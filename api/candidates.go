package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/garnizeh/talentflow/internal/query"
	"github.com/garnizeh/talentflow/pkg/models"
	"github.com/garnizeh/talentflow/pkg/repository"
)

type CandidatesHandler struct {
	candidates repository.CandidateRepo
	jobs       repository.JobRepo
	timeline   repository.TimelineRepo
}

func NewCandidatesHandler(cr repository.CandidateRepo, jr repository.JobRepo, tr repository.TimelineRepo) *CandidatesHandler {
	return &CandidatesHandler{candidates: cr, jobs: jr, timeline: tr}
}

type createCandidateRequest struct {
	Name  string       `json:"name" validate:"required,max=200"`
	Email string       `json:"email" validate:"required,email"`
	JobID int64        `json:"jobId" validate:"required"`
	Stage models.Stage `json:"stage" validate:"required,oneof=applied screen tech offer hired rejected"`
}

type stageRequest struct {
	Stage models.Stage `json:"stage" validate:"required,oneof=applied screen tech offer hired rejected"`
}

type noteRequest struct {
	Note string `json:"note" validate:"required,max=5000"`
}

// CreateCandidate stores the candidate and then records the initial stage on
// the timeline. The two writes are not atomic: if the event fails the
// candidate stays and the client gets a 500.
func (h *CandidatesHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req createCandidateRequest
	prepare := func() {
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if !decodeAndValidate(w, r, &req, prepare) {
		return
	}
	ctx := r.Context()

	job, err := h.jobs.GetJob(ctx, req.JobID)
	if err != nil {
		internalError(w, r, "get job", err)
		return
	}
	if job == nil {
		http.Error(w, "Invalid Job ID", http.StatusBadRequest)
		return
	}

	c := &models.Candidate{Name: req.Name, Email: req.Email, Stage: req.Stage, JobID: req.JobID}
	id, err := h.candidates.CreateCandidate(ctx, c)
	if err != nil {
		internalError(w, r, "create candidate", err)
		return
	}

	ev := &models.TimelineEvent{CandidateID: id, Type: models.EventStageChange, Content: string(req.Stage)}
	if _, err := h.timeline.AppendEvent(ctx, ev); err != nil {
		internalError(w, r, "append initial stage event", err)
		return
	}

	created, err := h.candidates.GetCandidate(ctx, id)
	if err != nil || created == nil {
		internalError(w, r, "reload created candidate", err)
		return
	}

	logger.Info("candidate created", slog.Int64("id", id), slog.Int64("job_id", req.JobID))
	writeJSON(w, created, http.StatusCreated)
}

// ListCandidates serves GET /candidates?stage=. An unknown stage matches
// nobody.
func (h *CandidatesHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	stage, ok := query.ParseStage(r.URL.Query().Get("stage"))
	if !ok {
		writeJSON(w, []models.Candidate{}, http.StatusOK)
		return
	}

	list, err := h.candidates.ListCandidates(r.Context(), stage)
	if err != nil {
		internalError(w, r, "list candidates", err)
		return
	}

	writeJSON(w, list, http.StatusOK)
}

func (h *CandidatesHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Candidate")
	if !ok {
		return
	}

	c, err := h.candidates.GetCandidate(r.Context(), id)
	if err != nil {
		internalError(w, r, "get candidate", err)
		return
	}
	if c == nil {
		notFound(w, "Candidate")
		return
	}

	writeJSON(w, c, http.StatusOK)
}

func (h *CandidatesHandler) ListCandidatesForJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r, "jobId", "Job")
	if !ok {
		return
	}

	list, err := h.candidates.ListCandidatesByJob(r.Context(), jobID)
	if err != nil {
		internalError(w, r, "list candidates for job", err)
		return
	}

	writeJSON(w, list, http.StatusOK)
}

// UpdateStage moves a candidate and appends a stage_change event.
func (h *CandidatesHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Candidate")
	if !ok {
		return
	}
	var req stageRequest
	if err := decodeJSONBody(r, &req); err != nil || validate.Struct(&req) != nil {
		http.Error(w, "Invalid stage provided", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	if err := h.candidates.UpdateCandidateStage(ctx, id, req.Stage); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, "Candidate")
			return
		}
		internalError(w, r, "update candidate stage", err)
		return
	}

	ev := &models.TimelineEvent{CandidateID: id, Type: models.EventStageChange, Content: string(req.Stage)}
	if _, err := h.timeline.AppendEvent(ctx, ev); err != nil {
		internalError(w, r, "append stage event", err)
		return
	}

	c, err := h.candidates.GetCandidate(ctx, id)
	if err != nil || c == nil {
		internalError(w, r, "reload candidate", err)
		return
	}

	writeJSON(w, c, http.StatusOK)
}

func (h *CandidatesHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Candidate")
	if !ok {
		return
	}

	events, err := h.timeline.ListEvents(r.Context(), id)
	if err != nil {
		internalError(w, r, "list timeline", err)
		return
	}

	writeJSON(w, events, http.StatusOK)
}

func (h *CandidatesHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Candidate")
	if !ok {
		return
	}
	var req noteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Note = strings.TrimSpace(req.Note)
	if req.Note == "" {
		http.Error(w, "Note content is required", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	c, err := h.candidates.GetCandidate(ctx, id)
	if err != nil {
		internalError(w, r, "get candidate", err)
		return
	}
	if c == nil {
		notFound(w, "Candidate")
		return
	}

	ev := &models.TimelineEvent{CandidateID: id, Type: models.EventNote, Content: req.Note}
	eventID, err := h.timeline.AppendEvent(ctx, ev)
	if err != nil {
		internalError(w, r, "append note", err)
		return
	}
	created, err := h.timeline.GetEvent(ctx, eventID)
	if err != nil || created == nil {
		internalError(w, r, "reload note", err)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}
