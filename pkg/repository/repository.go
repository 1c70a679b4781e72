package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/talentflow/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Getters return (nil, nil) when the row does not exist. Updates and deletes
// of a missing row return ErrNotFound.

var ErrNotFound = errors.New("not found")

// ErrSlugTaken is returned when a job write would duplicate another job's slug.
var ErrSlugTaken = errors.New("slug already taken")

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (int64, error)
	// AddJob checks the slug, places j after the highest order and inserts
	// it in one transaction.
	AddJob(ctx context.Context, j *models.Job) (int64, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	GetJobBySlug(ctx context.Context, slug string) (*models.Job, error)
	// ListJobs scans the status index; an empty status returns every job.
	ListJobs(ctx context.Context, status models.JobStatus) ([]models.Job, error)
	PatchJob(ctx context.Context, id int64, p models.JobPatch) error
	// EditJob applies p in one transaction, returning ErrSlugTaken when
	// p.Slug belongs to another job.
	EditJob(ctx context.Context, id int64, p models.JobPatch) error
	DeleteJob(ctx context.Context, id int64) error
	// MaxJobOrder reports the highest order value and whether any job exists.
	MaxJobOrder(ctx context.Context) (int, bool, error)
	// ReorderJobs moves activeID to overID's position and rewrites every
	// order value in one transaction.
	ReorderJobs(ctx context.Context, activeID, overID int64) error
	CountJobs(ctx context.Context, status models.JobStatus) (int64, error)
}

type CandidateRepo interface {
	CreateCandidate(ctx context.Context, c *models.Candidate) (int64, error)
	GetCandidate(ctx context.Context, id int64) (*models.Candidate, error)
	// ListCandidates scans the stage index; an empty stage returns everyone.
	ListCandidates(ctx context.Context, stage models.Stage) ([]models.Candidate, error)
	ListCandidatesByJob(ctx context.Context, jobID int64) ([]models.Candidate, error)
	UpdateCandidateStage(ctx context.Context, id int64, stage models.Stage) error
	CountCandidatesByStage(ctx context.Context) (map[models.Stage]int64, error)
}

type TimelineRepo interface {
	AppendEvent(ctx context.Context, e *models.TimelineEvent) (int64, error)
	GetEvent(ctx context.Context, id int64) (*models.TimelineEvent, error)
	// ListEvents returns a candidate's events newest first.
	ListEvents(ctx context.Context, candidateID int64) ([]models.TimelineEvent, error)
}

type AssessmentRepo interface {
	CreateAssessment(ctx context.Context, a *models.Assessment) (int64, error)
	GetAssessment(ctx context.Context, id int64) (*models.Assessment, error)
	// GetAssessmentByJob returns the first assessment stored for a job.
	GetAssessmentByJob(ctx context.Context, jobID int64) (*models.Assessment, error)
	ListAssessments(ctx context.Context) ([]models.Assessment, error)
	UpdateBuilderState(ctx context.Context, id int64, state models.BuilderState) error
	DeleteAssessment(ctx context.Context, id int64) error
	CountAssessments(ctx context.Context) (int64, error)
}

type ResponseRepo interface {
	CreateResponse(ctx context.Context, r *models.AssessmentResponse) (int64, error)
	GetResponse(ctx context.Context, id int64) (*models.AssessmentResponse, error)
	// ListResponsesByJob returns a job's responses newest first.
	ListResponsesByJob(ctx context.Context, jobID int64) ([]models.AssessmentResponse, error)
	CountResponses(ctx context.Context) (int64, error)
}
