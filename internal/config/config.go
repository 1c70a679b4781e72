package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/garnizeh/talentflow/internal/simulate"
)

type Config struct {
	Addr           string           `yaml:"addr"`
	APITimeout     time.Duration    `yaml:"timeout"`
	DatabasePath   string           `yaml:"database_path"`
	LogLevel       string           `yaml:"log_level"`
	MigrateOnStart bool             `yaml:"migrate_on_start"`
	SeedOnStart    bool             `yaml:"seed_on_start"`
	Simulation     SimulationConfig `yaml:"simulation"`
	Seed           SeedConfig       `yaml:"seed"`
}

// SimulationConfig controls the artificial latency and failure injection in
// front of the API. FailureRates entries override the built-in per-endpoint
// defaults; endpoints not listed keep theirs.
type SimulationConfig struct {
	Enabled            bool               `yaml:"enabled"`
	MinDelay           time.Duration      `yaml:"min_delay"`
	MaxDelay           time.Duration      `yaml:"max_delay"`
	DefaultFailureRate float64            `yaml:"default_failure_rate"`
	FailureRates       map[string]float64 `yaml:"failure_rates"`
	RandomSeed         uint64             `yaml:"random_seed"`
}

// Options converts the block into simulation policy options.
func (s SimulationConfig) Options() simulate.Options {
	return simulate.Options{
		MinDelay:           s.MinDelay,
		MaxDelay:           s.MaxDelay,
		DefaultFailureRate: s.DefaultFailureRate,
		FailureRates:       s.FailureRates,
		Seed:               s.RandomSeed,
	}
}

type SeedConfig struct {
	Jobs               int   `yaml:"jobs"`
	Candidates         int   `yaml:"candidates"`
	Assessments        int   `yaml:"assessments"`
	TimelineCandidates int   `yaml:"timeline_candidates"`
	RandomSeed         int64 `yaml:"random_seed"`
}

// Defaults used when neither the environment nor the config file set a value.
const (
	DefaultAddr         = ":8080"
	DefaultDatabasePath = "talentflow.db"
	DefaultLogLevel     = "info"
)

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second

	cfg := &Config{
		Addr:           getEnv("TALENTFLOW_ADDR", DefaultAddr),
		APITimeout:     apiTimeout,
		DatabasePath:   getEnv("TALENTFLOW_DATABASE_PATH", DefaultDatabasePath),
		LogLevel:       getEnv("TALENTFLOW_LOG_LEVEL", DefaultLogLevel),
		MigrateOnStart: true,
		SeedOnStart:    true,
		Simulation: SimulationConfig{
			Enabled:            getEnvBool("TALENTFLOW_SIMULATE", true),
			MinDelay:           simulate.DefaultMinDelay,
			MaxDelay:           simulate.DefaultMaxDelay,
			DefaultFailureRate: simulate.ReadFailureRate,
			FailureRates:       simulate.DefaultFailureRates(),
		},
		Seed: SeedConfig{
			Jobs:               25,
			Candidates:         1000,
			Assessments:        3,
			TimelineCandidates: 50,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return errors.New("database_path is required")
	}
	if c.APITimeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	s := c.Simulation
	if s.MinDelay < 0 {
		return errors.New("simulation.min_delay must not be negative")
	}
	if s.MaxDelay < s.MinDelay {
		return errors.New("simulation.max_delay must not be below min_delay")
	}
	if c.APITimeout <= s.MaxDelay {
		return fmt.Errorf("timeout %s must exceed simulation.max_delay %s", c.APITimeout, s.MaxDelay)
	}
	if !validRate(s.DefaultFailureRate) {
		return fmt.Errorf("simulation.default_failure_rate %v outside [0,1]", s.DefaultFailureRate)
	}
	for endpoint, rate := range s.FailureRates {
		if !validRate(rate) {
			return fmt.Errorf("simulation.failure_rates[%s] %v outside [0,1]", endpoint, rate)
		}
	}

	if c.Seed.Jobs < 0 || c.Seed.Candidates < 0 || c.Seed.Assessments < 0 || c.Seed.TimelineCandidates < 0 {
		return errors.New("seed counts must not be negative")
	}
	if c.Seed.Jobs == 0 && (c.Seed.Candidates > 0 || c.Seed.Assessments > 0) {
		return errors.New("seed.candidates and seed.assessments need at least one seeded job")
	}

	return nil
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}

func validRate(r float64) bool {
	return r >= 0 && r <= 1
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
