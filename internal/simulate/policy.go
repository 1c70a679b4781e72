// Package simulate injects artificial latency and random failures in front of
// request handlers.
package simulate

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	DefaultMinDelay = 200 * time.Millisecond
	DefaultMaxDelay = 1200 * time.Millisecond

	ReadFailureRate  = 0.05
	WriteFailureRate = 0.08
)

// DefaultFailureRates holds the per-endpoint failure probabilities.
func DefaultFailureRates() map[string]float64 {
	return map[string]float64{
		"jobs.list":           ReadFailureRate,
		"jobs.get":            ReadFailureRate,
		"jobs.create":         WriteFailureRate,
		"jobs.update":         WriteFailureRate,
		"jobs.status":         WriteFailureRate,
		"jobs.reorder":        0.5,
		"candidates.create":   WriteFailureRate,
		"candidates.list":     ReadFailureRate,
		"candidates.get":      ReadFailureRate,
		"candidates.forJob":   ReadFailureRate,
		"candidates.stage":    WriteFailureRate,
		"candidates.timeline": ReadFailureRate,
		"candidates.note":     WriteFailureRate,
		"assessments.list":    ReadFailureRate,
		"assessments.get":     ReadFailureRate,
		"assessments.upsert":  WriteFailureRate,
		"assessments.delete":  0.10,
		"assessments.submit":  WriteFailureRate,
		"responses.list":      ReadFailureRate,
		"stats.get":           ReadFailureRate,
	}
}

// Options configure a Policy. A zero Seed picks a random one.
type Options struct {
	MinDelay           time.Duration
	MaxDelay           time.Duration
	DefaultFailureRate float64
	FailureRates       map[string]float64
	Seed               uint64
}

// DefaultOptions returns the latency window and failure rates used when
// simulation is enabled without overrides.
func DefaultOptions() Options {
	return Options{
		MinDelay:           DefaultMinDelay,
		MaxDelay:           DefaultMaxDelay,
		DefaultFailureRate: ReadFailureRate,
		FailureRates:       DefaultFailureRates(),
	}
}

// Policy decides how long a request waits and whether it fails.
// It is safe for concurrent use.
type Policy struct {
	minDelay    time.Duration
	maxDelay    time.Duration
	defaultRate float64
	rates       map[string]float64

	mu  sync.Mutex
	rng *rand.Rand
}

func New(opts Options) *Policy {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rates := make(map[string]float64, len(opts.FailureRates))
	for k, v := range opts.FailureRates {
		rates[k] = v
	}
	return &Policy{
		minDelay:    opts.MinDelay,
		maxDelay:    opts.MaxDelay,
		defaultRate: opts.DefaultFailureRate,
		rates:       rates,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Disabled returns a policy with no delay that never fails.
func Disabled() *Policy {
	return New(Options{Seed: 1})
}

// AlwaysFail returns a policy with no delay that fails every request.
func AlwaysFail() *Policy {
	return New(Options{DefaultFailureRate: 1, Seed: 1})
}

// Delay draws a latency uniformly from [minDelay, maxDelay].
func (p *Policy) Delay() time.Duration {
	if p.maxDelay <= p.minDelay {
		return p.minDelay
	}
	span := int64(p.maxDelay - p.minDelay)

	p.mu.Lock()
	n := p.rng.Int64N(span + 1)
	p.mu.Unlock()

	return p.minDelay + time.Duration(n)
}

// FailureRate returns the configured probability for endpoint, falling back
// to the default rate.
func (p *Policy) FailureRate(endpoint string) float64 {
	if r, ok := p.rates[endpoint]; ok {
		return r
	}
	return p.defaultRate
}

// ShouldFail rolls the failure die for endpoint.
func (p *Policy) ShouldFail(endpoint string) bool {
	rate := p.FailureRate(endpoint)
	if rate <= 0 {
		return false
	}
	if rate >= 1 {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() < rate
}

// Wait sleeps for one drawn delay. It returns ctx.Err() if ctx is done first.
func (p *Policy) Wait(ctx context.Context) error {
	d := p.Delay()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
