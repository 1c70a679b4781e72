// Package seed fills an empty store with a randomized demo dataset.
package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	dbfs "github.com/garnizeh/talentflow/db"
	"github.com/garnizeh/talentflow/internal/db"
	"github.com/garnizeh/talentflow/internal/repository/sqlite"
	"github.com/garnizeh/talentflow/pkg/models"
)

var (
	jobTitles = []string{
		"Senior React Developer", "Product Manager", "UX/UI Designer", "DevOps Engineer",
		"Data Scientist", "Frontend Developer", "Backend Engineer", "Full-Stack Developer",
	}
	jobTags   = []string{"React", "TypeScript", "Remote", "Node.js", "Python", "AWS", "Design", "Management"}
	locations = []string{"New York, NY", "San Francisco, CA", "Austin, TX", "Miami, FL", "Remote", "Atlanta, GA"}
)

// Options size the generated dataset. A zero RandomSeed draws a random one.
type Options struct {
	Jobs               int
	Candidates         int
	Assessments        int
	TimelineCandidates int
	RandomSeed         int64
	Now                func() time.Time
}

func DefaultOptions() Options {
	return Options{Jobs: 25, Candidates: 1000, Assessments: 3, TimelineCandidates: 50}
}

// Summary counts the rows written by Seed.
type Summary struct {
	Jobs           int
	Candidates     int
	Assessments    int
	TimelineEvents int
}

// Seed writes the dataset in one transaction. On any error nothing is kept.
func Seed(ctx context.Context, repo *sqlite.SQLiteRepo, opts Options, logger *slog.Logger) (Summary, error) {
	return seed(ctx, repo, opts, logger, nil)
}

// Reseed deletes every row and seeds again in the same transaction, so a
// failed run keeps the data that was there before.
func Reseed(ctx context.Context, repo *sqlite.SQLiteRepo, opts Options, logger *slog.Logger) (Summary, error) {
	return reseed(ctx, repo, opts, logger, nil)
}

func reseed(ctx context.Context, repo *sqlite.SQLiteRepo, opts Options, logger *slog.Logger, hook func(table string) error) (Summary, error) {
	var sum Summary
	err := repo.RunInTx(ctx, func(tx *sqlite.SQLiteRepo) error {
		if err := tx.Clear(ctx); err != nil {
			return err
		}
		var err error
		sum, err = seed(ctx, tx, opts, logger, hook)
		return err
	})
	return sum, err
}

// Bootstrap migrates d and seeds it when the jobs table is empty. It reports
// whether seeding ran.
func Bootstrap(ctx context.Context, d *db.DB, opts Options, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = d.Logger()
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		return false, fmt.Errorf("migrate: %w", err)
	}

	repo := sqlite.New(d, logger)
	n, err := repo.CountJobs(ctx, "")
	if err != nil {
		return false, fmt.Errorf("count jobs: %w", err)
	}
	if n > 0 {
		logger.Info("database already populated, skipping seed", "jobs", n)
		return false, nil
	}

	logger.Info("database is empty, seeding")
	if _, err := Seed(ctx, repo, opts, logger); err != nil {
		return false, err
	}
	return true, nil
}

// seed runs the generator; hook, when set, is called after each table is
// written and may abort the transaction.
func seed(ctx context.Context, repo *sqlite.SQLiteRepo, opts Options, logger *slog.Logger, hook func(table string) error) (Summary, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Jobs <= 0 && (opts.Candidates > 0 || opts.Assessments > 0) {
		return Summary{}, fmt.Errorf("seed: candidates and assessments need at least one job")
	}
	step := func(table string) error {
		if hook == nil {
			return nil
		}
		return hook(table)
	}

	g := &generator{faker: gofakeit.New(opts.RandomSeed), now: opts.Now().UTC()}
	var sum Summary

	err := repo.RunInTx(ctx, func(tx *sqlite.SQLiteRepo) error {
		sum = Summary{}

		jobIDs := make([]int64, 0, opts.Jobs)
		for i := 0; i < opts.Jobs; i++ {
			j := g.job(i)
			id, err := tx.CreateJob(ctx, &j)
			if err != nil {
				return fmt.Errorf("seed job %d: %w", i, err)
			}
			jobIDs = append(jobIDs, id)
		}
		sum.Jobs = len(jobIDs)
		logger.Info("seeded jobs", "count", sum.Jobs)
		if err := step("jobs"); err != nil {
			return err
		}

		candidateIDs := make([]int64, 0, opts.Candidates)
		candidates := make([]models.Candidate, 0, opts.Candidates)
		for i := 0; i < opts.Candidates; i++ {
			c := g.candidate(jobIDs)
			if _, err := tx.CreateCandidate(ctx, &c); err != nil {
				return fmt.Errorf("seed candidate %d: %w", i, err)
			}
			candidateIDs = append(candidateIDs, c.ID)
			candidates = append(candidates, c)
		}
		sum.Candidates = len(candidateIDs)
		logger.Info("seeded candidates", "count", sum.Candidates)
		if err := step("candidates"); err != nil {
			return err
		}

		states := ExampleAssessments()
		for i := 0; i < opts.Assessments && i < len(states) && i < len(jobIDs); i++ {
			a := models.Assessment{JobID: jobIDs[i], BuilderState: states[i]}
			if _, err := tx.CreateAssessment(ctx, &a); err != nil {
				return fmt.Errorf("seed assessment %d: %w", i, err)
			}
			sum.Assessments++
		}
		logger.Info("seeded assessments", "count", sum.Assessments)
		if err := step("assessments"); err != nil {
			return err
		}

		for i := 0; i < opts.TimelineCandidates && i < len(candidates); i++ {
			for _, e := range g.events(candidates[i]) {
				if _, err := tx.AppendEvent(ctx, &e); err != nil {
					return fmt.Errorf("seed timeline event: %w", err)
				}
				sum.TimelineEvents++
			}
		}
		logger.Info("seeded timeline events", "count", sum.TimelineEvents)
		return step("timeline_events")
	})
	if err != nil {
		logger.Error("seeding failed, rolled back", "err", err)
		return Summary{}, err
	}

	logger.Info("database seeding complete", "jobs", sum.Jobs, "candidates", sum.Candidates, "assessments", sum.Assessments, "timeline_events", sum.TimelineEvents)
	return sum, nil
}

type generator struct {
	faker *gofakeit.Faker
	now   time.Time
}

func (g *generator) job(i int) models.Job {
	title := fmt.Sprintf("%s (L%d)", g.faker.RandomString(jobTitles), i+1)
	status := models.JobStatusActive
	if g.faker.Bool() {
		status = models.JobStatusArchived
	}
	date := g.faker.DateRange(g.now, g.now.AddDate(1, 0, 0)).UTC()

	return models.Job{
		Title:           title,
		Slug:            models.Slugify(title),
		Status:          status,
		Tags:            g.tags(),
		Order:           i,
		Description:     g.faker.Paragraph(2, 4, 12, "\n\n"),
		Location:        g.faker.RandomString(locations),
		Type:            models.JobTypes[g.faker.Number(0, len(models.JobTypes)-1)],
		KeyRequirements: g.requirements(),
		Date:            &date,
	}
}

// tags picks one to three distinct tags.
func (g *generator) tags() []string {
	pool := append([]string(nil), jobTags...)
	g.faker.ShuffleStrings(pool)
	return pool[:g.faker.Number(1, 3)]
}

func (g *generator) requirements() string {
	lines := make([]string, 3)
	for i := range lines {
		lines[i] = "• " + g.faker.Sentence(8)
	}
	return strings.Join(lines, "\n")
}

func (g *generator) candidate(jobIDs []int64) models.Candidate {
	return models.Candidate{
		Name:  g.faker.Name(),
		Email: strings.ToLower(g.faker.Email()),
		Stage: models.Stages[g.faker.Number(0, len(models.Stages)-1)],
		JobID: jobIDs[g.faker.Number(0, len(jobIDs)-1)],
	}
}

// events returns a stage change into the candidate's current stage followed
// by a recruiter note, both in the past.
func (g *generator) events(c models.Candidate) []models.TimelineEvent {
	changed := g.faker.DateRange(g.now.AddDate(0, -2, 0), g.now.AddDate(0, 0, -1)).UTC()
	noted := changed.Add(time.Duration(g.faker.Number(1, 48)) * time.Hour)
	if noted.After(g.now) {
		noted = g.now
	}
	return []models.TimelineEvent{
		{CandidateID: c.ID, Timestamp: changed, Type: models.EventStageChange, Content: string(c.Stage)},
		{CandidateID: c.ID, Timestamp: noted, Type: models.EventNote, Content: g.faker.Sentence(10)},
	}
}
