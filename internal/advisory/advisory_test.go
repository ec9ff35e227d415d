package advisory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/search-calculator/internal/benchmark"
	"github.com/spigell/search-calculator/internal/engine"
	"github.com/spigell/search-calculator/internal/regional"
)

var (
	summer   = time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	december = time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC)
)

func estateManager() *benchmark.Record {
	return &benchmark.Record{Category: "Estate Leadership", P25: 120000, P50: 150000, P75: 190000, Scarcity: 6}
}

func newYork() *regional.Adjustment {
	return &regional.Adjustment{Key: "New York", Multiplier: 1.1, Label: "NYC", Tier: regional.TierUltraHigh}
}

func subject(req engine.JobRequest, bench *benchmark.Record, region *regional.Adjustment, at time.Time) Subject {
	return Subject{
		Request: req,
		Result:  engine.Compute(req, bench, region, nil, at, engine.DefaultWeights()),
	}
}

func run(t *testing.T, cfg *Config, s Subject) []Warning {
	t.Helper()
	warnings, err := Run(context.Background(), cfg, Deps{Logger: zap.NewNop()}, Defaults(cfg), s)
	require.NoError(t, err)
	return warnings
}

func TestUltraHighMarketWarning(t *testing.T) {
	req := engine.JobRequest{Role: "Estate Manager", Location: "New York, NY", Timeline: engine.TimelineImmediate, Budget: engine.Budget{Range: "120k-180k"}}

	warnings := run(t, DefaultConfig(), subject(req, estateManager(), newYork(), summer))

	assert.Equal(t, []Warning{{
		Type:       SeverityWarning,
		Message:    "New York is an ultra-high cost market. Your budget may limit the candidate pool.",
		Suggestion: "Market median with regional adjustment: $165k",
	}}, warnings)
	assert.False(t, HasCritical(warnings))
}

func TestBelowMarketCritical(t *testing.T) {
	req := engine.JobRequest{Role: "Estate Manager", Location: "New York, NY", Budget: engine.Budget{Range: "under-80k"}}

	warnings := run(t, DefaultConfig(), subject(req, estateManager(), newYork(), summer))

	require.Len(t, warnings, 2)
	assert.Equal(t, Warning{
		Type:       SeverityCritical,
		Message:    "Budget is significantly below market for Estate Manager in New York, NY.",
		Suggestion: "Suggested minimum: $132k",
	}, warnings[0])
	assert.Equal(t, SeverityWarning, warnings[1].Type)
	assert.True(t, HasCritical(warnings))
}

func TestBelowMarketWithoutLocation(t *testing.T) {
	req := engine.JobRequest{Role: "Estate Manager", Budget: engine.Budget{Amount: ptr(50000.0)}}

	warnings := run(t, DefaultConfig(), subject(req, estateManager(), nil, summer))

	require.Len(t, warnings, 1)
	assert.Equal(t, "Budget is significantly below market for Estate Manager in this market.", warnings[0].Message)
	assert.Equal(t, "Suggested minimum: $120k", warnings[0].Suggestion)
}

func TestNoBudgetNoMarketWarnings(t *testing.T) {
	req := engine.JobRequest{Role: "Estate Manager", Location: "New York", Budget: engine.Budget{Range: engine.BudgetNotSure}}
	assert.Empty(t, run(t, DefaultConfig(), subject(req, estateManager(), newYork(), summer)))

	// unknown role: nothing to compare against
	req = engine.JobRequest{Role: "Falconer", Location: "New York", Budget: engine.Budget{Range: "under-80k"}}
	assert.Empty(t, run(t, DefaultConfig(), subject(req, nil, newYork(), summer)))
}

func TestChiefOfStaffBudget(t *testing.T) {
	want := Warning{
		Type:       SeverityCritical,
		Message:    "A Chief of Staff under $80k is extremely rare in the UHNW space.",
		Suggestion: "Consider a Personal Assistant role at this budget, or increase to $180k+ for a true Chief of Staff.",
	}

	cases := []struct {
		name   string
		budget engine.Budget
		warn   bool
	}{
		{name: "range", budget: engine.Budget{Range: "under-80k"}, warn: true},
		{name: "amount", budget: engine.Budget{Amount: ptr(75000.0)}, warn: true},
		{name: "amount overrides range", budget: engine.Budget{Range: "under-80k", Amount: ptr(90000.0)}},
		{name: "higher range", budget: engine.Budget{Range: "80k-120k"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := engine.JobRequest{Role: "Chief of Staff", Location: "Boise", Budget: tc.budget}
			warnings := run(t, DefaultConfig(), subject(req, nil, nil, summer))
			if tc.warn {
				assert.Equal(t, []Warning{want}, warnings)
			} else {
				assert.Empty(t, warnings)
			}
		})
	}
}

func TestTimelineWarnings(t *testing.T) {
	req := engine.JobRequest{
		Role:      "Private Chef",
		Location:  "Boise",
		Timeline:  engine.TimelineImmediate,
		Languages: []string{"French", "Italian"},
	}

	warnings := run(t, DefaultConfig(), subject(req, nil, nil, december))
	assert.Equal(t, []Warning{
		{
			Type:       SeverityWarning,
			Message:    "Multiple language requirements on an immediate timeline is extremely challenging.",
			Suggestion: "Consider extending timeline or prioritizing one language.",
		},
		{
			Type:       SeverityInfo,
			Message:    "Q4 Holiday Season",
			Suggestion: "Factor in additional 2-4 weeks for holiday slowdown.",
		},
	}, warnings)

	// January is busy but not a holiday slowdown
	january := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	req.Languages = []string{"French"}
	assert.Empty(t, run(t, DefaultConfig(), subject(req, nil, nil, january)))

	req.Timeline = engine.TimelineStandard
	req.Languages = []string{"French", "Italian"}
	assert.Empty(t, run(t, DefaultConfig(), subject(req, nil, nil, december)))
}

func TestDisabledChecks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Disabled = []string{"ultra_high_market", "holiday_timeline"}

	req := engine.JobRequest{Role: "Estate Manager", Location: "New York", Timeline: engine.TimelineImmediate, Budget: engine.Budget{Range: "120k-180k"}}
	assert.Empty(t, run(t, cfg, subject(req, estateManager(), newYork(), december)))

	statuses := Describe(Defaults(cfg))
	require.Len(t, statuses, 5)
	for _, st := range statuses {
		switch st.Name {
		case "ultra_high_market", "holiday_timeline":
			assert.False(t, st.Enabled, st.Name)
			assert.Equal(t, "disabled in config", st.Reason)
		default:
			assert.True(t, st.Enabled, st.Name)
			assert.Empty(t, st.Reason)
		}
	}
}

func TestRunValidatesConfig(t *testing.T) {
	cfg := &Config{BelowMarketRatio: 0}
	_, err := Run(context.Background(), cfg, Deps{}, Defaults(cfg), Subject{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below_market")

	// a disabled check is not validated
	cfg.Disabled = []string{"below_market"}
	_, err = Run(context.Background(), cfg, Deps{}, Defaults(cfg), Subject{})
	assert.NoError(t, err)
}

func TestRunLogsEachCheck(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := DefaultConfig()
	cfg.Disabled = []string{"language_timeline"}

	_, err := Run(context.Background(), cfg, Deps{Logger: zap.New(core)}, Defaults(cfg), Subject{})
	require.NoError(t, err)

	assert.Equal(t, 4, logs.FilterMessage("advisory check").Len())
	disabled := logs.FilterMessage("advisory check disabled").All()
	require.Len(t, disabled, 1)
	assert.Equal(t, "language_timeline", disabled[0].ContextMap()["name"])
}

func ptr[T any](v T) *T { return &v }
