// Package query filters, sorts, paginates and reorders rows scanned from the
// record store.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/garnizeh/talentflow/pkg/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10

	// All disables the status or stage filter.
	All = "all"
)

// JobQuery holds the parsed parameters of a jobs listing.
type JobQuery struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	Tags     []string
}

// JobPage is one page of a filtered jobs listing. TotalCount is the size of
// the filtered set, independent of pagination.
type JobPage struct {
	Jobs       []models.Job `json:"jobs"`
	TotalCount int          `json:"totalCount"`
}

// ParseJobQuery reads page, pageSize, search, status and tags (repeated as
// tags or tags[]) from v. Missing or unusable values fall back to defaults.
func ParseJobQuery(v url.Values) JobQuery {
	q := JobQuery{
		Page:     positiveInt(v.Get("page"), DefaultPage),
		PageSize: positiveInt(v.Get("pageSize"), DefaultPageSize),
		Search:   strings.TrimSpace(v.Get("search")),
		Status:   strings.TrimSpace(v.Get("status")),
	}
	if q.Status == "" {
		q.Status = All
	}

	for _, key := range []string{"tags", "tags[]"} {
		for _, tag := range v[key] {
			if tag = strings.TrimSpace(tag); tag != "" {
				q.Tags = append(q.Tags, tag)
			}
		}
	}

	return q
}

// StatusFilter returns the status to scan by, or "" for all jobs.
func (q JobQuery) StatusFilter() models.JobStatus {
	if q.Status == All {
		return ""
	}
	return models.JobStatus(q.Status)
}

// Apply runs the residual filters over jobs already narrowed by status, then
// sorts by order and cuts out the requested page.
func (q JobQuery) Apply(jobs []models.Job) JobPage {
	filtered := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		if status := q.StatusFilter(); status != "" && j.Status != status {
			continue
		}
		if !MatchTitle(j.Title, q.Search) {
			continue
		}
		if !HasAllTags(j.Tags, q.Tags) {
			continue
		}
		filtered = append(filtered, j)
	}

	SortByOrder(filtered)

	return JobPage{
		Jobs:       Paginate(filtered, q.Page, q.PageSize),
		TotalCount: len(filtered),
	}
}

// MatchTitle reports whether title contains search, ignoring case.
func MatchTitle(title, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(search))
}

// HasAllTags reports whether every wanted tag is present in tags.
func HasAllTags(tags, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		have[t] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := have[w]; !ok {
			return false
		}
	}
	return true
}

// SortByOrder sorts jobs ascending by Order; equal orders keep their
// relative position.
func SortByOrder(jobs []models.Job) {
	sort.SliceStable(jobs, func(i, k int) bool { return jobs[i].Order < jobs[k].Order })
}

// Paginate returns the 1-indexed page of items. Pages past the end are empty,
// never nil.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}

// Move removes the element at from and reinserts it at to, shifting the
// elements in between. It returns a new slice; items is not modified.
func Move[T any](items []T, from, to int) []T {
	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	moved := items[from]
	out = append(out, moved)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = moved

	return out
}

// DedupeTags trims tags, drops empty ones and keeps only the first occurrence
// of each.
func DedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseStage reads a stage filter; "" and "all" mean every stage.
func ParseStage(raw string) (models.Stage, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == All {
		return "", true
	}
	st := models.Stage(raw)
	return st, st.Valid()
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
