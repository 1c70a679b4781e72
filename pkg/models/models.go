package models

import (
	"encoding/json"
	"time"
)

// Domain models matching the database schema in db/migrations/*.sql

type JobStatus string

const (
	JobStatusActive   JobStatus = "active"
	JobStatusArchived JobStatus = "archived"
)

var JobStatuses = []JobStatus{JobStatusActive, JobStatusArchived}

func (s JobStatus) Valid() bool {
	return s == JobStatusActive || s == JobStatusArchived
}

type JobType string

const (
	JobTypeFullTime JobType = "Full-time"
	JobTypePartTime JobType = "Part-time"
	JobTypeContract JobType = "Contract"
)

var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract}

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract:
		return true
	}
	return false
}

// Stage is a candidate's position in the hiring pipeline.
type Stage string

const (
	StageApplied  Stage = "applied"
	StageScreen   Stage = "screen"
	StageTech     Stage = "tech"
	StageOffer    Stage = "offer"
	StageHired    Stage = "hired"
	StageRejected Stage = "rejected"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected}

func (s Stage) Valid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

type Job struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Status          JobStatus  `json:"status"`
	Tags            []string   `json:"tags"`
	Order           int        `json:"order"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	Type            JobType    `json:"type"`
	KeyRequirements string     `json:"keyRequirements"`
	Date            *time.Time `json:"date,omitempty"`
}

// JobPatch is a partial update; nil fields are left untouched.
type JobPatch struct {
	Title           *string
	Slug            *string
	Status          *JobStatus
	Tags            []string
	Description     *string
	Location        *string
	Type            *JobType
	KeyRequirements *string
	Date            *time.Time
}

type Candidate struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Stage Stage  `json:"stage"`
	JobID int64  `json:"jobId"`
}

type EventType string

const (
	EventNote        EventType = "note"
	EventStageChange EventType = "stage_change"
)

// TimelineEvent is an append-only audit record attached to a candidate.
type TimelineEvent struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidateId"`
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	Content     string    `json:"content"`
}

type Assessment struct {
	ID           int64        `json:"id,omitempty"`
	JobID        int64        `json:"jobId"`
	BuilderState BuilderState `json:"builderState"`
}

// ResponseData maps a question id to the submitted answer.
type ResponseData map[string]json.RawMessage

type AssessmentResponse struct {
	ID           int64        `json:"id"`
	JobID        int64        `json:"jobId"`
	ResponseData ResponseData `json:"responseData"`
	SubmittedAt  time.Time    `json:"submittedAt"`
}

// Stats summarizes the store for the dashboard.
type Stats struct {
	Jobs              int64           `json:"jobs"`
	ActiveJobs        int64           `json:"activeJobs"`
	ArchivedJobs      int64           `json:"archivedJobs"`
	Candidates        int64           `json:"candidates"`
	CandidatesByStage map[Stage]int64 `json:"candidatesByStage"`
	Assessments       int64           `json:"assessments"`
	Responses         int64           `json:"responses"`
}
