package report

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/spigell/search-calculator/internal/advisory"
	"github.com/spigell/search-calculator/internal/engine"
	"github.com/spigell/search-calculator/internal/enrichment"
	"github.com/spigell/search-calculator/internal/logger"
	"github.com/spigell/search-calculator/internal/share"
)

// Notes shown next to a report whose narrative did not come from a model.
const (
	NotePreliminary = "Preliminary analysis based on market benchmarks."
	NoteAIFailed    = "AI analysis is unavailable right now. Showing a preliminary analysis based on market benchmarks."
	NoteShared      = "Shared analysis based on the scoring algorithm."
)

// Enricher produces the qualitative narrative for a scored request.
type Enricher interface {
	Enrich(ctx context.Context, in enrichment.Input) (*enrichment.Narrative, error)
}

// Report is a scored request with everything needed to present it.
type Report struct {
	ID                 string               `json:"id"`
	CreatedAt          time.Time            `json:"createdAt"`
	Title              string               `json:"displayTitle"`
	Request            engine.JobRequest    `json:"request"`
	Result             engine.ScoreResult   `json:"result"`
	Risk               *engine.RiskResult   `json:"retentionRisk,omitempty"`
	Warnings           []advisory.Warning   `json:"warnings"`
	Narrative          enrichment.Narrative `json:"narrative"`
	AIAnalysisSuccess  bool                 `json:"aiAnalysisSuccess"`
	Shared             bool                 `json:"isSharedResult,omitempty"`
	Note               string               `json:"note,omitempty"`
	AdjustedBenchmark  *engine.Percentiles  `json:"adjustedBenchmark,omitempty"`
	RegionalMultiplier float64              `json:"regionalMultiplier"`
	ShareToken         string               `json:"shareToken"`
}

// Options select how a single report is assembled.
type Options struct {
	// Enrich asks the enricher for a narrative. Without an enricher the
	// flag is ignored.
	Enrich bool
	// Shared marks a report rebuilt from a share token.
	Shared bool
}

// Builder assembles reports from the engine, the advisory checks and an
// optional enricher.
type Builder struct {
	engine    *engine.Engine
	checks    []advisory.Check
	checksCfg *advisory.Config
	enricher  Enricher
	logger    *zap.Logger

	// checks store their validated settings, so runs are serialized
	checksMu sync.Mutex
}

type Option func(*Builder)

func WithEnricher(e Enricher) Option {
	return func(b *Builder) {
		b.enricher = e
	}
}

// WithChecks replaces the default advisory checks.
func WithChecks(cfg *advisory.Config, checks []advisory.Check) Option {
	return func(b *Builder) {
		if cfg != nil {
			b.checksCfg = cfg
		}
		b.checks = checks
	}
}

func NewBuilder(eng *engine.Engine, log *zap.Logger, opts ...Option) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	cfg := advisory.DefaultConfig()
	b := &Builder{
		engine:    eng,
		checksCfg: cfg,
		checks:    advisory.Defaults(cfg),
		logger:    log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CanEnrich reports whether a narrative can be requested from a model.
func (b *Builder) CanEnrich() bool {
	return b.enricher != nil
}

// Build scores req and assembles the report. Enrichment failures never fail
// the build: the deterministic narrative is used and Note says so.
func (b *Builder) Build(ctx context.Context, req engine.JobRequest, opts Options) (*Report, error) {
	res := b.engine.Score(req, nil)

	b.checksMu.Lock()
	warnings, err := advisory.Run(ctx, b.checksCfg, advisory.Deps{Logger: b.logger}, b.checks,
		advisory.Subject{Request: req, Result: res})
	b.checksMu.Unlock()
	if err != nil {
		return nil, eris.Wrap(err, "advisory checks")
	}
	if warnings == nil {
		warnings = []advisory.Warning{}
	}

	r := &Report{
		ID:                 uuid.NewString(),
		CreatedAt:          res.ComputedAt,
		Title:              req.Role,
		Request:            req,
		Result:             res,
		Risk:               b.engine.RetentionRisk(req, res, nil),
		Warnings:           warnings,
		Shared:             opts.Shared,
		AdjustedBenchmark:  res.AdjustedBenchmark(),
		RegionalMultiplier: res.Multiplier(),
		ShareToken:         share.Encode(req),
	}

	log := logger.WithFields(b.logger, logger.ReportFields(r.ID, req.Role)...)

	switch {
	case opts.Shared:
		r.Narrative = Fallback(req, res, true)
		r.Note = NoteShared
	case opts.Enrich && b.enricher != nil:
		narrative, err := b.enricher.Enrich(ctx, enrichment.Input{Request: req, Result: res})
		if err != nil {
			log.Warn("enrichment failed, using preliminary analysis", zap.Error(err))
			r.Narrative = Fallback(req, res, false)
			r.Note = NoteAIFailed
			break
		}
		r.Narrative = *narrative
		r.AIAnalysisSuccess = true
	default:
		r.Narrative = Fallback(req, res, false)
		r.Note = NotePreliminary
	}

	log.Info("report built",
		zap.Int("score", res.Score),
		zap.Int("warnings", len(warnings)),
		zap.Bool("ai", r.AIAnalysisSuccess),
	)

	return r, nil
}
