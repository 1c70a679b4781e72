package api_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/garnizeh/talentflow/internal/query"
	"github.com/garnizeh/talentflow/internal/simulate"
	"github.com/garnizeh/talentflow/pkg/models"
)

func createJob(t *testing.T, h http.Handler, body map[string]any) models.Job {
	t.Helper()
	w := do(t, h, http.MethodPost, "/jobs", body)
	expectStatus(t, w, http.StatusCreated)
	return decode[models.Job](t, w)
}

func TestJobs_EmptyThenPaginated(t *testing.T) {
	r, _ := newSQLiteRouter(t, nil)

	w := do(t, r, http.MethodGet, "/jobs", nil)
	expectStatus(t, w, http.StatusOK)
	if got := w.Body.String(); got != "{\"jobs\":[],\"totalCount\":0}\n" {
		t.Fatalf("unexpected empty listing: %q", got)
	}

	for _, title := range []string{"A", "B", "C"} {
		createJob(t, r, map[string]any{"title": title})
	}

	w = do(t, r, http.MethodGet, "/jobs?page=1&pageSize=2", nil)
	expectStatus(t, w, http.StatusOK)
	page := decode[query.JobPage](t, w)
	if page.TotalCount != 3 || len(page.Jobs) != 2 {
		t.Fatalf("expected 2 of 3 jobs, got %d of %d", len(page.Jobs), page.TotalCount)
	}
	if page.Jobs[0].Title != "A" || page.Jobs[1].Title != "B" {
		t.Fatalf("expected A, B by order, got %s, %s", page.Jobs[0].Title, page.Jobs[1].Title)
	}

	w = do(t, r, http.MethodGet, "/jobs?page=9&pageSize=2", nil)
	page = decode[query.JobPage](t, w)
	if page.TotalCount != 3 || len(page.Jobs) != 0 || page.Jobs == nil {
		t.Fatalf("expected empty page with total 3, got %+v", page)
	}
}

func TestJobs_FiltersUseAndTags(t *testing.T) {
	r, _ := newSQLiteRouter(t, nil)
	createJob(t, r, map[string]any{"title": "React Only", "tags": []string{"React"}})
	createJob(t, r, map[string]any{"title": "React Cloud", "tags": []string{"React", "AWS"}})
	createJob(t, r, map[string]any{"title": "Archived Cloud", "tags": []string{"AWS", "React"}, "status": "archived"})

	w := do(t, r, http.MethodGet, "/jobs?tags=React&tags=AWS", nil)
	page := decode[query.JobPage](t, w)
	if page.TotalCount != 2 {
		t.Fatalf("expected 2 jobs with both tags, got %d", page.TotalCount)
	}
	for _, j := range page.Jobs {
		if !query.HasAllTags(j.Tags, []string{"React", "AWS"}) {
			t.Fatalf("job %q lacks a requested tag: %v", j.Title, j.Tags)
		}
	}

	w = do(t, r, http.MethodGet, "/jobs?tags[]=AWS&status=active&search=cloud", nil)
	page = decode[query.JobPage](t, w)
	if page.TotalCount != 1 || page.Jobs[0].Title != "React Cloud" {
		t.Fatalf("unexpected filtered page: %+v", page)
	}
}

func TestCreateJob_DefaultsAndOrder(t *testing.T) {
	r, _ := newSQLiteRouter(t, nil)

	first := createJob(t, r, map[string]any{"title": "  Senior Go Engineer!  ", "tags": []string{"Go", "Go", "Remote"}})
	if first.Slug != "senior-go-engineer" || first.Title != "Senior Go Engineer!" {
		t.Fatalf("unexpected title/slug: %q / %q", first.Title, first.Slug)
	}
	if first.Status != models.JobStatusActive || first.Type != models.JobTypeFullTime || first.Order != 0 {
		t.Fatalf("unexpected defaults: %+v", first)
	}
	if len(first.Tags) != 2 {
		t.Fatalf("expected deduped tags, got %v", first.Tags)
	}

	second := createJob(t, r, map[string]any{"title": "Designer", "type": "Contract", "date": "2026-05-01", "location": "Remote"})
	if second.Order != 1 || second.Type != models.JobTypeContract || second.Date == nil || second.Location != "Remote" {
		t.Fatalf("unexpected second job: %+v", second)
	}
}

func TestCreateJob_Validation(t *testing.T) {
	r, repo := newSQLiteRouter(t, nil)
	createJob(t, r, map[string]any{"title": "Data Scientist"})

	cases := []struct {
		name string
		body any
	}{
		{"malformed json", `{"title":`},
		{"missing title", map[string]any{"tags": []string{"x"}}},
		{"blank title", map[string]any{"title": "   "}},
		{"slug empty", map[string]any{"title": "!!!"}},
		{"slug collision", map[string]any{"title": "data  SCIENTIST"}},
		{"bad status", map[string]any{"title": "X", "status": "closed"}},
		{"bad type", map[string]any{"title": "X", "type": "Freelance"}},
		{"bad date", map[string]any{"title": "X", "date": "tomorrow"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/jobs", tc.body)
			expectStatus(t, w, http.StatusBadRequest)
		})
	}

	n, err := repo.CountJobs(context.Background(), "")
	if err != nil {
		t.Fatalf("CountJobs: %v", err)
	}
	if n != 1 {
		t.Fatalf("rejected creates must not persist rows, have %d jobs", n)
	}
}

func TestCreateJob_ConcurrentClients(t *testing.T) {
	r, _ := newSQLiteRouter(t, nil)
	const n = 12

	// same title from every client: exactly one wins
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = do(t, r, http.MethodPost, "/jobs", map[string]any{"title": "Platform Engineer"}).Code
		}(i)
	}
	wg.Wait()
	created := 0
	for _, c := range codes {
		switch c {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
		default:
			t.Fatalf("unexpected status %d", c)
		}
	}
	if created != 1 {
		t.Fatalf("expected one job for a shared slug, got %d", created)
	}

	// distinct titles: every order value is used once
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			do(t, r, http.MethodPost, "/jobs", map[string]any{"title": fmt.Sprintf("Role %d", i)})
		}(i)
	}
	wg.Wait()

	page := decode[query.JobPage](t, do(t, r, http.MethodGet, "/jobs?pageSize=100", nil))
	if page.TotalCount != n+1 {
		t.Fatalf("expected %d jobs, got %d", n+1, page.TotalCount)
	}
	for i, j := range page.Jobs {
		if j.Order != i {
			t.Fatalf("position %d holds order %d: orders must be unique and dense", i, j.Order)
		}
	}
}

func TestJobs_LargePageSizeListsEverything(t *testing.T) {
	r, repo := newSQLiteRouter(t, nil)
	for i := 0; i < 130; i++ {
		seedJob(t, repo, fmt.Sprintf("Job %03d", i))
	}

	page := decode[query.JobPage](t, do(t, r, http.MethodGet, "/jobs?pageSize=1000", nil))
	if page.TotalCount != 130 || len(page.Jobs) != 130 {
		t.Fatalf("expected all 130 jobs on one page, got %d of %d", len(page.Jobs), page.TotalCount)
	}
}

func TestGetJob(t *testing.T) {
	r, _ := newSQLiteRouter(t, nil)
	job := createJob(t, r, map[string]any{"title": "Backend"})

	w := do(t, r, http.MethodGet, "/jobs/1", nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.Job](t, w); got.ID != job.ID {
		t.Fatalf("expected job %d, got %d", job.ID, got.ID)
	}

	expectStatus(t, do(t, r, http.MethodGet, "/jobs/999", nil), http.StatusNotFound)
	expectStatus(t, do(t, r, http.MethodGet, "/jobs/abc", nil), http.StatusBadRequest)
}

func TestUpdateJob(t *testing.T) {
	r, _ := newSQLiteRouter(t, nil)
	a := createJob(t, r, map[string]any{"title": "Alpha", "location": "Austin, TX", "tags": []string{"Go"}})
	createJob(t, r, map[string]any{"title": "Beta"})

	// renaming to itself is allowed; omitted fields keep their values
	w := do(t, r, http.MethodPatch, "/jobs/1", map[string]any{"title": "Alpha", "status": "archived"})
	expectStatus(t, w, http.StatusOK)
	got := decode[models.Job](t, w)
	if got.Status != models.JobStatusArchived || got.Location != "Austin, TX" || got.Order != a.Order || len(got.Tags) != 1 {
		t.Fatalf("unexpected update result: %+v", got)
	}

	w = do(t, r, http.MethodPatch, "/jobs/1", map[string]any{"title": "Alpha Prime", "tags": []string{}})
	got = decode[models.Job](t, w)
	if got.Slug != "alpha-prime" || len(got.Tags) != 0 {
		t.Fatalf("expected new slug and cleared tags, got %+v", got)
	}

	expectStatus(t, do(t, r, http.MethodPatch, "/jobs/1", map[string]any{"title": "beta"}), http.StatusBadRequest)
	expectStatus(t, do(t, r, http.MethodPatch, "/jobs/42", map[string]any{"title": "Gamma"}), http.StatusNotFound)
	expectStatus(t, do(t, r, http.MethodPatch, "/jobs/1", map[string]any{"title": ""}), http.StatusBadRequest)
}

func TestUpdateJobStatus(t *testing.T) {
	r, _ := newSQLiteRouter(t, nil)
	createJob(t, r, map[string]any{"title": "Ops"})

	w := do(t, r, http.MethodPatch, "/jobs/1/status", map[string]any{"status": "archived"})
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.Job](t, w); got.Status != models.JobStatusArchived {
		t.Fatalf("expected archived, got %s", got.Status)
	}

	expectStatus(t, do(t, r, http.MethodPatch, "/jobs/1/status", map[string]any{"status": "Active"}), http.StatusBadRequest)
	expectStatus(t, do(t, r, http.MethodPatch, "/jobs/1/status", map[string]any{}), http.StatusBadRequest)
	expectStatus(t, do(t, r, http.MethodPatch, "/jobs/7/status", map[string]any{"status": "active"}), http.StatusNotFound)
}

func TestReorderJobs(t *testing.T) {
	r, repo := newSQLiteRouter(t, nil)
	var ids []int64
	for _, title := range []string{"A", "B", "C", "D"} {
		ids = append(ids, createJob(t, r, map[string]any{"title": title}).ID)
	}

	w := do(t, r, http.MethodPatch, "/jobs/reorder", map[string]any{"activeId": ids[3], "overId": ids[0]})
	expectStatus(t, w, http.StatusOK)
	if w.Body.String() != "{\"success\":true}\n" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}

	page := decode[query.JobPage](t, do(t, r, http.MethodGet, "/jobs", nil))
	wantTitles := []string{"D", "A", "B", "C"}
	for i, j := range page.Jobs {
		if j.Order != i || j.Title != wantTitles[i] {
			t.Fatalf("position %d: expected %s with order %d, got %s with %d", i, wantTitles[i], i, j.Title, j.Order)
		}
	}

	before, _ := repo.ListJobs(context.Background(), "")
	expectStatus(t, do(t, r, http.MethodPatch, "/jobs/reorder", map[string]any{"activeId": ids[0], "overId": 999}), http.StatusNotFound)
	expectStatus(t, do(t, r, http.MethodPatch, "/jobs/reorder", map[string]any{"activeId": ids[0]}), http.StatusBadRequest)
	after, _ := repo.ListJobs(context.Background(), "")
	for i := range before {
		if before[i].Order != after[i].Order {
			t.Fatalf("failed reorder changed order of job %d", before[i].ID)
		}
	}
}

func TestSimulatedFailure_NoMutation(t *testing.T) {
	r, repo := newSQLiteRouter(t, simulate.AlwaysFail())

	w := do(t, r, http.MethodPost, "/jobs", map[string]any{"title": "Never stored"})
	expectStatus(t, w, http.StatusInternalServerError)

	n, err := repo.CountJobs(context.Background(), "")
	if err != nil {
		t.Fatalf("CountJobs: %v", err)
	}
	if n != 0 {
		t.Fatalf("simulated failure must not write, have %d jobs", n)
	}

	// invalid input still gets the injected failure first
	expectStatus(t, do(t, r, http.MethodPost, "/jobs", `not json`), http.StatusInternalServerError)
	// system endpoints are not simulated
	expectStatus(t, do(t, r, http.MethodGet, "/health", nil), http.StatusOK)
}

func TestSimulatedFailure_PerEndpoint(t *testing.T) {
	policy := simulate.New(simulate.Options{FailureRates: map[string]float64{"jobs.reorder": 1}, Seed: 3})
	r, _ := newSQLiteRouter(t, policy)

	a := createJob(t, r, map[string]any{"title": "A"})
	b := createJob(t, r, map[string]any{"title": "B"})
	expectStatus(t, do(t, r, http.MethodPatch, "/jobs/reorder", map[string]any{"activeId": a.ID, "overId": b.ID}), http.StatusInternalServerError)

	page := decode[query.JobPage](t, do(t, r, http.MethodGet, "/jobs", nil))
	if page.Jobs[0].ID != a.ID || page.Jobs[0].Order != 0 {
		t.Fatalf("failed reorder must leave orders unchanged: %+v", page.Jobs)
	}
}
