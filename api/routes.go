package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	dbfs "github.com/garnizeh/talentflow/db"
	"github.com/garnizeh/talentflow/internal/assessment"
	"github.com/garnizeh/talentflow/internal/config"
	"github.com/garnizeh/talentflow/internal/db"
	"github.com/garnizeh/talentflow/internal/repository/sqlite"
	"github.com/garnizeh/talentflow/internal/simulate"
	"github.com/garnizeh/talentflow/pkg/repository"
)

// Store is everything the handlers read and write.
type Store interface {
	repository.JobRepo
	repository.CandidateRepo
	repository.TimelineRepo
	repository.AssessmentRepo
	repository.ResponseRepo
}

// Deps are the collaborators of NewRouter. A nil Policy serves requests
// without simulated latency or failures.
type Deps struct {
	Store     Store
	Validator *assessment.Validator
	Policy    *simulate.Policy
	System    *SystemHandler
	Version   string
	BuildTime string
}

// SetupRoutes wires the SQLite store and the configured simulation policy.
func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB) (*mux.Router, error) {
	loader, err := assessment.NewLoader(dbfs.Schemas)
	if err != nil {
		return nil, fmt.Errorf("load assessment schemas: %w", err)
	}

	var policy *simulate.Policy
	if cfg.Simulation.Enabled {
		policy = simulate.New(cfg.Simulation.Options())
	}

	return NewRouter(Deps{
		Store:     sqlite.New(database, logger),
		Validator: assessment.NewValidator(loader),
		Policy:    policy,
		System:    &SystemHandler{Ping: database.GetConn().PingContext},
		Version:   version,
		BuildTime: buildTime,
	}), nil
}

func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	systemHandler := d.System
	if systemHandler == nil {
		systemHandler = &SystemHandler{}
	}
	jobs := NewJobsHandler(d.Store)
	candidates := NewCandidatesHandler(d.Store, d.Store, d.Store)
	assessments := NewAssessmentsHandler(d.Store, d.Store, d.Validator)
	stats := NewStatsHandler(d.Store, d.Store, d.Store, d.Store)

	sim := func(endpoint string, h func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
		return Simulate(d.Policy, endpoint, h)
	}

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(d.Version, d.BuildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	// Jobs; reorder is registered before the {id} routes
	r.HandleFunc("/jobs", sim("jobs.list", jobs.ListJobs)).Methods("GET")
	r.HandleFunc("/jobs", sim("jobs.create", jobs.CreateJob)).Methods("POST")
	r.HandleFunc("/jobs/reorder", sim("jobs.reorder", jobs.ReorderJobs)).Methods("PATCH")
	r.HandleFunc("/jobs/{id}", sim("jobs.get", jobs.GetJob)).Methods("GET")
	r.HandleFunc("/jobs/{id}", sim("jobs.update", jobs.UpdateJob)).Methods("PATCH")
	r.HandleFunc("/jobs/{id}/status", sim("jobs.status", jobs.UpdateJobStatus)).Methods("PATCH")

	// Candidates
	r.HandleFunc("/candidates", sim("candidates.create", candidates.CreateCandidate)).Methods("POST")
	r.HandleFunc("/candidates", sim("candidates.list", candidates.ListCandidates)).Methods("GET")
	r.HandleFunc("/candidates/{id}", sim("candidates.get", candidates.GetCandidate)).Methods("GET")
	r.HandleFunc("/candidates/{id}", sim("candidates.stage", candidates.UpdateStage)).Methods("PATCH")
	r.HandleFunc("/candidates/{id}/timeline", sim("candidates.timeline", candidates.Timeline)).Methods("GET")
	r.HandleFunc("/candidates/{id}/notes", sim("candidates.note", candidates.AddNote)).Methods("POST")
	r.HandleFunc("/candidates-for-job/{jobId}", sim("candidates.forJob", candidates.ListCandidatesForJob)).Methods("GET")

	// Assessments
	r.HandleFunc("/assessments", sim("assessments.list", assessments.ListAssessments)).Methods("GET")
	r.HandleFunc("/assessments/{jobId}", sim("assessments.get", assessments.GetAssessment)).Methods("GET")
	r.HandleFunc("/assessments/{jobId}", sim("assessments.upsert", assessments.UpsertAssessment)).Methods("PUT")
	r.HandleFunc("/assessments/{id}", sim("assessments.delete", assessments.DeleteAssessment)).Methods("DELETE")
	r.HandleFunc("/assessments/{jobId}/submit", sim("assessments.submit", assessments.SubmitResponse)).Methods("POST")
	r.HandleFunc("/assessment-responses/{jobId}", sim("responses.list", assessments.ListResponses)).Methods("GET")

	r.HandleFunc("/stats", sim("stats.get", stats.GetStats)).Methods("GET")

	// Preflight requests only get the middleware headers on a matched route
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
