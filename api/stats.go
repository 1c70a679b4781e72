package api

import (
	"net/http"

	"github.com/garnizeh/talentflow/pkg/models"
	"github.com/garnizeh/talentflow/pkg/repository"
)

type StatsHandler struct {
	jobs        repository.JobRepo
	candidates  repository.CandidateRepo
	assessments repository.AssessmentRepo
	responses   repository.ResponseRepo
}

func NewStatsHandler(jr repository.JobRepo, cr repository.CandidateRepo, ar repository.AssessmentRepo, rr repository.ResponseRepo) *StatsHandler {
	return &StatsHandler{jobs: jr, candidates: cr, assessments: ar, responses: rr}
}

// GetStats serves the dashboard counters.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		s   models.Stats
		err error
	)

	if s.ActiveJobs, err = h.jobs.CountJobs(ctx, models.JobStatusActive); err != nil {
		internalError(w, r, "count active jobs", err)
		return
	}
	if s.ArchivedJobs, err = h.jobs.CountJobs(ctx, models.JobStatusArchived); err != nil {
		internalError(w, r, "count archived jobs", err)
		return
	}
	if s.Jobs, err = h.jobs.CountJobs(ctx, ""); err != nil {
		internalError(w, r, "count jobs", err)
		return
	}
	if s.CandidatesByStage, err = h.candidates.CountCandidatesByStage(ctx); err != nil {
		internalError(w, r, "count candidates", err)
		return
	}
	for _, n := range s.CandidatesByStage {
		s.Candidates += n
	}
	if s.Assessments, err = h.assessments.CountAssessments(ctx); err != nil {
		internalError(w, r, "count assessments", err)
		return
	}
	if s.Responses, err = h.responses.CountResponses(ctx); err != nil {
		internalError(w, r, "count responses", err)
		return
	}

	writeJSON(w, s, http.StatusOK)
}
