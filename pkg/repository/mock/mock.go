// Package mock provides an in-memory repository for handler tests. Any
// method can be made to fail by setting FailOn[<method name>].
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/garnizeh/talentflow/internal/query"
	"github.com/garnizeh/talentflow/pkg/models"
	"github.com/garnizeh/talentflow/pkg/repository"
)

type Store struct {
	mu sync.Mutex

	FailOn map[string]error

	jobs        []models.Job
	candidates  []models.Candidate
	events      []models.TimelineEvent
	assessments []models.Assessment
	responses   []models.AssessmentResponse
	nextID      int64
}

func NewStore() *Store {
	return &Store{FailOn: make(map[string]error)}
}

var _ repository.JobRepo = (*Store)(nil)
var _ repository.CandidateRepo = (*Store)(nil)
var _ repository.TimelineRepo = (*Store)(nil)
var _ repository.AssessmentRepo = (*Store)(nil)
var _ repository.ResponseRepo = (*Store)(nil)

func (m *Store) fail(method string) error {
	return m.FailOn[method]
}

func (m *Store) id() int64 {
	m.nextID++
	return m.nextID
}

// Jobs

func (m *Store) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateJob"); err != nil {
		return 0, err
	}
	j.ID = m.id()
	cp := *j
	cp.Tags = append([]string{}, j.Tags...)
	m.jobs = append(m.jobs, cp)
	return j.ID, nil
}

func (m *Store) AddJob(ctx context.Context, j *models.Job) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("AddJob"); err != nil {
		return 0, err
	}
	if m.findSlug(j.Slug) >= 0 {
		return 0, repository.ErrSlugTaken
	}
	j.Order = 0
	for _, other := range m.jobs {
		if other.Order >= j.Order {
			j.Order = other.Order + 1
		}
	}
	j.ID = m.id()
	cp := *j
	cp.Tags = append([]string{}, j.Tags...)
	m.jobs = append(m.jobs, cp)
	return j.ID, nil
}

func (m *Store) findSlug(slug string) int {
	for i := range m.jobs {
		if m.jobs[i].Slug == slug {
			return i
		}
	}
	return -1
}

func (m *Store) findJob(id int64) int {
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Store) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetJob"); err != nil {
		return nil, err
	}
	if i := m.findJob(id); i >= 0 {
		j := m.jobs[i]
		return &j, nil
	}
	return nil, nil
}

func (m *Store) GetJobBySlug(ctx context.Context, slug string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetJobBySlug"); err != nil {
		return nil, err
	}
	for _, j := range m.jobs {
		if j.Slug == slug {
			return &j, nil
		}
	}
	return nil, nil
}

func (m *Store) ListJobs(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListJobs"); err != nil {
		return nil, err
	}
	out := []models.Job{}
	for _, j := range m.jobs {
		if status == "" || j.Status == status {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *Store) PatchJob(ctx context.Context, id int64, p models.JobPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("PatchJob"); err != nil {
		return err
	}
	return m.patchJob(id, p)
}

func (m *Store) EditJob(ctx context.Context, id int64, p models.JobPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("EditJob"); err != nil {
		return err
	}
	if m.findJob(id) < 0 {
		return repository.ErrNotFound
	}
	if p.Slug != nil {
		if i := m.findSlug(*p.Slug); i >= 0 && m.jobs[i].ID != id {
			return repository.ErrSlugTaken
		}
	}
	return m.patchJob(id, p)
}

func (m *Store) patchJob(id int64, p models.JobPatch) error {
	i := m.findJob(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	j := &m.jobs[i]
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Slug != nil {
		j.Slug = *p.Slug
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.Tags != nil {
		j.Tags = append([]string{}, p.Tags...)
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.Type != nil {
		j.Type = *p.Type
	}
	if p.KeyRequirements != nil {
		j.KeyRequirements = *p.KeyRequirements
	}
	if p.Date != nil {
		d := *p.Date
		j.Date = &d
	}
	return nil
}

func (m *Store) DeleteJob(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteJob"); err != nil {
		return err
	}
	i := m.findJob(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
	return nil
}

func (m *Store) MaxJobOrder(ctx context.Context) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("MaxJobOrder"); err != nil {
		return 0, false, err
	}
	if len(m.jobs) == 0 {
		return 0, false, nil
	}
	max := m.jobs[0].Order
	for _, j := range m.jobs[1:] {
		if j.Order > max {
			max = j.Order
		}
	}
	return max, true, nil
}

func (m *Store) ReorderJobs(ctx context.Context, activeID, overID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ReorderJobs"); err != nil {
		return err
	}
	sorted := append([]models.Job(nil), m.jobs...)
	query.SortByOrder(sorted)
	from, to := -1, -1
	for i, j := range sorted {
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
	moved := query.Move(sorted, from, to)
	for i := range moved {
		moved[i].Order = i
	}
	m.jobs = moved
	return nil
}

func (m *Store) CountJobs(ctx context.Context, status models.JobStatus) (int64, error) {
	jobs, err := m.ListJobs(ctx, status)
	return int64(len(jobs)), err
}

// Candidates

func (m *Store) CreateCandidate(ctx context.Context, c *models.Candidate) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateCandidate"); err != nil {
		return 0, err
	}
	c.ID = m.id()
	m.candidates = append(m.candidates, *c)
	return c.ID, nil
}

func (m *Store) GetCandidate(ctx context.Context, id int64) (*models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetCandidate"); err != nil {
		return nil, err
	}
	for _, c := range m.candidates {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Store) filterCandidates(method string, keep func(models.Candidate) bool) ([]models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(method); err != nil {
		return nil, err
	}
	out := []models.Candidate{}
	for _, c := range m.candidates {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Store) ListCandidates(ctx context.Context, stage models.Stage) ([]models.Candidate, error) {
	return m.filterCandidates("ListCandidates", func(c models.Candidate) bool { return stage == "" || c.Stage == stage })
}

func (m *Store) ListCandidatesByJob(ctx context.Context, jobID int64) ([]models.Candidate, error) {
	return m.filterCandidates("ListCandidatesByJob", func(c models.Candidate) bool { return c.JobID == jobID })
}

func (m *Store) UpdateCandidateStage(ctx context.Context, id int64, stage models.Stage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateCandidateStage"); err != nil {
		return err
	}
	for i := range m.candidates {
		if m.candidates[i].ID == id {
			m.candidates[i].Stage = stage
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Store) CountCandidatesByStage(ctx context.Context) (map[models.Stage]int64, error) {
	all, err := m.filterCandidates("CountCandidatesByStage", func(models.Candidate) bool { return true })
	if err != nil {
		return nil, err
	}
	out := make(map[models.Stage]int64, len(models.Stages))
	for _, st := range models.Stages {
		out[st] = 0
	}
	for _, c := range all {
		out[c.Stage]++
	}
	return out, nil
}

// Timeline

func (m *Store) AppendEvent(ctx context.Context, e *models.TimelineEvent) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("AppendEvent"); err != nil {
		return 0, err
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	e.ID = m.id()
	m.events = append(m.events, *e)
	return e.ID, nil
}

func (m *Store) GetEvent(ctx context.Context, id int64) (*models.TimelineEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetEvent"); err != nil {
		return nil, err
	}
	for _, e := range m.events {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, nil
}

func (m *Store) ListEvents(ctx context.Context, candidateID int64) ([]models.TimelineEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListEvents"); err != nil {
		return nil, err
	}
	out := []models.TimelineEvent{}
	for _, e := range m.events {
		if e.CandidateID == candidateID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Assessments

func (m *Store) CreateAssessment(ctx context.Context, a *models.Assessment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateAssessment"); err != nil {
		return 0, err
	}
	a.ID = m.id()
	m.assessments = append(m.assessments, *a)
	return a.ID, nil
}

func (m *Store) GetAssessment(ctx context.Context, id int64) (*models.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetAssessment"); err != nil {
		return nil, err
	}
	for _, a := range m.assessments {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *Store) GetAssessmentByJob(ctx context.Context, jobID int64) (*models.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetAssessmentByJob"); err != nil {
		return nil, err
	}
	for _, a := range m.assessments {
		if a.JobID == jobID {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *Store) ListAssessments(ctx context.Context) ([]models.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListAssessments"); err != nil {
		return nil, err
	}
	return append([]models.Assessment{}, m.assessments...), nil
}

func (m *Store) UpdateBuilderState(ctx context.Context, id int64, state models.BuilderState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateBuilderState"); err != nil {
		return err
	}
	for i := range m.assessments {
		if m.assessments[i].ID == id {
			m.assessments[i].BuilderState = state
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Store) DeleteAssessment(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteAssessment"); err != nil {
		return err
	}
	for i := range m.assessments {
		if m.assessments[i].ID == id {
			m.assessments = append(m.assessments[:i], m.assessments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Store) CountAssessments(ctx context.Context) (int64, error) {
	list, err := m.ListAssessments(ctx)
	return int64(len(list)), err
}

// Responses

func (m *Store) CreateResponse(ctx context.Context, r *models.AssessmentResponse) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateResponse"); err != nil {
		return 0, err
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	r.ID = m.id()
	m.responses = append(m.responses, *r)
	return r.ID, nil
}

func (m *Store) GetResponse(ctx context.Context, id int64) (*models.AssessmentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetResponse"); err != nil {
		return nil, err
	}
	for _, r := range m.responses {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *Store) ListResponsesByJob(ctx context.Context, jobID int64) ([]models.AssessmentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListResponsesByJob"); err != nil {
		return nil, err
	}
	out := []models.AssessmentResponse{}
	for i := len(m.responses) - 1; i >= 0; i-- {
		if m.responses[i].JobID == jobID {
			out = append(out, m.responses[i])
		}
	}
	return out, nil
}

func (m *Store) CountResponses(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CountResponses"); err != nil {
		return 0, err
	}
	return int64(len(m.responses)), nil
}

// Snapshot helpers for assertions.

func (m *Store) Events() []models.TimelineEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.TimelineEvent(nil), m.events...)
}

func (m *Store) Candidates() []models.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Candidate(nil), m.candidates...)
}
