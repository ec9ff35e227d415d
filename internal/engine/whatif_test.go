package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func estateRequest() JobRequest {
	return JobRequest{
		Role:       "Estate Manager",
		Location:   "New York, NY",
		Timeline:   TimelineImmediate,
		Budget:     Budget{Range: "120k-180k"},
		Travel:     TravelMinimal,
		Discretion: DiscretionStandard,
	}
}

func TestWhatIfBudgetIncrease(t *testing.T) {
	eng := newTestEngine(t, stubBenchmarks{"Estate Manager": estateManager()})
	req := estateRequest()
	committed := eng.Score(req, nil)
	require.Equal(t, 6, committed.Score)

	p := eng.WhatIf(req, committed, Overrides{BudgetAmount: floatPtr(250000)})

	// 250000 / 165000 is above 1.5, the budget driver stays with 0 points
	assert.Equal(t, 45, p.Result.Points)
	assert.Equal(t, 4, p.Result.Score)
	assert.Equal(t, -2, p.Delta)
	d, ok := driver(t, p.Result, FactorBudget)
	require.True(t, ok)
	assert.Equal(t, 0, d.Points)
	assert.Equal(t, "Well above 75th percentile - premium offer", d.Rationale)

	assert.Nil(t, p.Risk)
	assert.Nil(t, p.RiskDelta)
	assert.Equal(t, estateRequest(), req)
}

func TestWhatIfTimeline(t *testing.T) {
	eng := newTestEngine(t, stubBenchmarks{"Estate Manager": estateManager()})
	req := estateRequest()
	committed := eng.Score(req, nil)

	p := eng.WhatIf(req, committed, Overrides{Timeline: ptr(TimelineFlexible)})
	assert.Equal(t, 51, p.Result.Points)
	assert.Equal(t, 5, p.Result.Score)
	assert.Equal(t, -1, p.Delta)
}

func TestWhatIfEmptyOverridesMatchCommitted(t *testing.T) {
	eng := newTestEngine(t, stubBenchmarks{"Estate Manager": estateManager()})
	req := estateRequest()
	committed := eng.Score(req, nil)

	p := eng.WhatIf(req, committed, Overrides{})
	assert.Equal(t, committed.Score, p.Result.Score)
	assert.Equal(t, committed.Drivers, p.Result.Drivers)
	assert.Zero(t, p.Delta)
}

func TestWhatIfReusesCommittedTime(t *testing.T) {
	eng := newTestEngine(t, stubBenchmarks{"Estate Manager": estateManager()})
	req := estateRequest()

	december := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	committed := eng.ScoreAt(req, nil, december)
	require.Equal(t, "Q4 Holiday Season", committed.Seasonality.Label)

	p := eng.WhatIf(req, committed, Overrides{})
	assert.Equal(t, december, p.Result.ComputedAt)
	assert.Equal(t, committed.Points, p.Result.Points)
	assert.Zero(t, p.Delta)

	// a committed result without a timestamp falls back to the engine clock
	p = eng.WhatIf(req, ScoreResult{Score: committed.Score}, Overrides{})
	assert.Equal(t, summer, p.Result.ComputedAt)
}

func TestWhatIfRiskDelta(t *testing.T) {
	eng := newTestEngine(t, stubBenchmarks{"Executive Assistant": riskyRole()})
	req := JobRequest{Role: "Executive Assistant", Location: "Boise", Budget: Budget{Amount: floatPtr(80000)}}
	committed := eng.Score(req, nil)

	p := eng.WhatIf(req, committed, Overrides{BudgetAmount: floatPtr(130000)})
	require.NotNil(t, p.Risk)
	require.NotNil(t, p.RiskDelta)

	// compensation position goes from 11 points to 0
	assert.Equal(t, 61, p.Risk.Score)
	assert.Equal(t, -11, *p.RiskDelta)
	require.Len(t, p.Risk.Suggestions, 4)
	assert.Equal(t, "Add retention incentives", p.Risk.Suggestions[3].Title)
}
