package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/garnizeh/talentflow/internal/assessment"
	"github.com/garnizeh/talentflow/pkg/models"
	"github.com/garnizeh/talentflow/pkg/repository"
)

type AssessmentsHandler struct {
	assessments repository.AssessmentRepo
	responses   repository.ResponseRepo
	validator   *assessment.Validator
}

func NewAssessmentsHandler(ar repository.AssessmentRepo, rr repository.ResponseRepo, v *assessment.Validator) *AssessmentsHandler {
	return &AssessmentsHandler{assessments: ar, responses: rr, validator: v}
}

type upsertAssessmentRequest struct {
	BuilderState json.RawMessage `json:"builderState"`
}

type submitRequest struct {
	ResponseData json.RawMessage `json:"responseData"`
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// writeValidation maps assessment validation errors to 400 and anything else
// to 500.
func writeValidation(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var ve *assessment.ValidationError
	if errors.As(err, &ve) {
		http.Error(w, ve.Error(), http.StatusBadRequest)
		return
	}
	internalError(w, r, msg, err)
}

func (h *AssessmentsHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	list, err := h.assessments.ListAssessments(r.Context())
	if err != nil {
		internalError(w, r, "list assessments", err)
		return
	}

	writeJSON(w, list, http.StatusOK)
}

// GetAssessment returns the job's assessment or an unsaved default one.
func (h *AssessmentsHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r, "jobId", "Job")
	if !ok {
		return
	}

	a, err := h.assessments.GetAssessmentByJob(r.Context(), jobID)
	if err != nil {
		internalError(w, r, "get assessment", err)
		return
	}
	if a == nil {
		a = &models.Assessment{JobID: jobID, BuilderState: models.DefaultBuilderState()}
	}

	writeJSON(w, a, http.StatusOK)
}

// UpsertAssessment replaces the builder state of the job's first assessment,
// creating it when the job has none.
func (h *AssessmentsHandler) UpsertAssessment(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r, "jobId", "Job")
	if !ok {
		return
	}
	var req upsertAssessmentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if isAbsent(req.BuilderState) {
		http.Error(w, "Builder state is required", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	state, err := h.validator.BuilderState(ctx, req.BuilderState)
	if err != nil {
		writeValidation(w, r, "validate builder state", err)
		return
	}

	existing, err := h.assessments.GetAssessmentByJob(ctx, jobID)
	if err != nil {
		internalError(w, r, "get assessment", err)
		return
	}

	id := int64(0)
	status := http.StatusOK
	if existing != nil {
		id = existing.ID
		if err := h.assessments.UpdateBuilderState(ctx, id, state); err != nil {
			internalError(w, r, "update assessment", err)
			return
		}
	} else {
		id, err = h.assessments.CreateAssessment(ctx, &models.Assessment{JobID: jobID, BuilderState: state})
		if err != nil {
			internalError(w, r, "create assessment", err)
			return
		}
		status = http.StatusCreated
	}

	saved, err := h.assessments.GetAssessment(ctx, id)
	if err != nil || saved == nil {
		internalError(w, r, "reload assessment", err)
		return
	}

	logger.Info("assessment saved", slog.Int64("id", id), slog.Int64("job_id", jobID), slog.Bool("created", status == http.StatusCreated))
	writeJSON(w, saved, status)
}

func (h *AssessmentsHandler) DeleteAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Assessment")
	if !ok {
		return
	}

	if err := h.assessments.DeleteAssessment(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, "Assessment")
			return
		}
		internalError(w, r, "delete assessment", err)
		return
	}

	logger.Info("assessment deleted", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}

// SubmitResponse stores a candidate's answers. When the job has an
// assessment the answers are checked against it first.
func (h *AssessmentsHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r, "jobId", "Job")
	if !ok {
		return
	}
	var req submitRequest
	if err := decodeJSONBody(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if isAbsent(req.ResponseData) {
		http.Error(w, "Response data is required", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	a, err := h.assessments.GetAssessmentByJob(ctx, jobID)
	if err != nil {
		internalError(w, r, "get assessment", err)
		return
	}
	var state *models.BuilderState
	if a != nil {
		state = &a.BuilderState
	}

	data, err := h.validator.Response(ctx, state, req.ResponseData)
	if err != nil {
		writeValidation(w, r, "validate response", err)
		return
	}

	resp := &models.AssessmentResponse{JobID: jobID, ResponseData: data}
	id, err := h.responses.CreateResponse(ctx, resp)
	if err != nil {
		internalError(w, r, "create response", err)
		return
	}
	saved, err := h.responses.GetResponse(ctx, id)
	if err != nil || saved == nil {
		internalError(w, r, "reload response", err)
		return
	}

	writeJSON(w, saved, http.StatusCreated)
}

func (h *AssessmentsHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r, "jobId", "Job")
	if !ok {
		return
	}

	list, err := h.responses.ListResponsesByJob(r.Context(), jobID)
	if err != nil {
		internalError(w, r, "list responses", err)
		return
	}

	writeJSON(w, list, http.StatusOK)
}
