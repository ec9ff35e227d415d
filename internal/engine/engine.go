package engine

import (
	"time"

	"github.com/spigell/search-calculator/internal/benchmark"
	"github.com/spigell/search-calculator/internal/regional"
)

// BenchmarkLookup resolves a role name to its market record.
type BenchmarkLookup interface {
	Lookup(role string) (*benchmark.Record, bool)
}

// RegionResolver resolves a free-text location to a regional adjustment.
type RegionResolver interface {
	Resolve(location string) (regional.Adjustment, bool)
}

// Engine binds the pure scoring functions to read-only lookup tables and a clock.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	benchmarks BenchmarkLookup
	regions    RegionResolver
	weights    Weights
	now        func() time.Time
}

type Option func(*Engine)

// WithClock pins the time used for seasonality.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithWeights replaces the default scoring constants.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

func New(benchmarks BenchmarkLookup, regions RegionResolver, opts ...Option) *Engine {
	e := &Engine{
		benchmarks: benchmarks,
		regions:    regions,
		weights:    DefaultWeights(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Benchmark returns the record for role, if any.
func (e *Engine) Benchmark(role string) (*benchmark.Record, bool) {
	if e.benchmarks == nil {
		return nil, false
	}
	return e.benchmarks.Lookup(role)
}

// Region returns the adjustment for location, if any.
func (e *Engine) Region(location string) (*regional.Adjustment, bool) {
	if e.regions == nil {
		return nil, false
	}
	r, ok := e.regions.Resolve(location)
	if !ok {
		return nil, false
	}
	return &r, true
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Score computes the result for req at the current time.
func (e *Engine) Score(req JobRequest, ov *Overrides) ScoreResult {
	return e.ScoreAt(req, ov, e.now())
}

// ScoreAt computes the result for req with seasonality pinned to at.
func (e *Engine) ScoreAt(req JobRequest, ov *Overrides, at time.Time) ScoreResult {
	bench, _ := e.Benchmark(req.Role)
	region, _ := e.Region(req.Location)
	return Compute(req, bench, region, ov, at, e.weights)
}

// RetentionRisk computes the risk for a result produced by this engine.
func (e *Engine) RetentionRisk(req JobRequest, res ScoreResult, ov *Overrides) *RiskResult {
	return RetentionRisk(req, res, ov)
}
