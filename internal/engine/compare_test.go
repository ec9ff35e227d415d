package engine

import (
	"testing"

	"github.com/spigell/search-calculator/internal/benchmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareBudgetsNeighbours(t *testing.T) {
	eng := newTestEngine(t, stubBenchmarks{"Estate Manager": estateManager()})

	cmp := eng.CompareBudgets(estateRequest())
	assert.Equal(t, 6, cmp.Current.Score)

	require.NotNil(t, cmp.Increase)
	assert.Equal(t, "180k-250k", cmp.Increase.Range.Value)
	// 215000 / 165000 -> 5 budget points instead of 20
	assert.Equal(t, 50, cmp.Increase.Result.Points)
	assert.Equal(t, 4, cmp.Increase.Result.Score)
	assert.Equal(t, -2, cmp.Increase.Delta)

	require.NotNil(t, cmp.Decrease)
	assert.Equal(t, "80k-120k", cmp.Decrease.Range.Value)
	assert.Equal(t, 80, cmp.Decrease.Result.Points)
	assert.Equal(t, 7, cmp.Decrease.Result.Score)
	assert.Equal(t, 1, cmp.Decrease.Delta)
	assert.Equal(t, []string{"Budget below market"}, cmp.Decrease.Result.RedFlags)
}

func TestCompareBudgetsEdges(t *testing.T) {
	eng := newTestEngine(t, stubBenchmarks{"Estate Manager": estateManager()})

	cases := []struct {
		name     string
		budget   Budget
		increase string
		decrease string
	}{
		{name: "lowest", budget: Budget{Range: "under-80k"}, increase: "80k-120k"},
		{name: "highest", budget: Budget{Range: "over-350k"}, decrease: "250k-350k"},
		{name: "not sure", budget: Budget{Range: BudgetNotSure}, decrease: "over-350k"},
		{name: "unknown range", budget: Budget{Range: "lots"}},
		{name: "exact amount", budget: Budget{Range: "120k-180k", Amount: floatPtr(150000)}},
		{name: "empty", budget: Budget{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := estateRequest()
			req.Budget = tc.budget
			cmp := eng.CompareBudgets(req)

			if tc.increase == "" {
				assert.Nil(t, cmp.Increase)
			} else if assert.NotNil(t, cmp.Increase) {
				assert.Equal(t, tc.increase, cmp.Increase.Range.Value)
			}
			if tc.decrease == "" {
				assert.Nil(t, cmp.Decrease)
			} else if assert.NotNil(t, cmp.Decrease) {
				assert.Equal(t, tc.decrease, cmp.Decrease.Range.Value)
			}
		})
	}
}

func TestCompareBudgetsCorporateScale(t *testing.T) {
	director := &benchmark.Record{Category: "Family Office - C-Suite", P25: 300000, P50: 450000, P75: 650000, Scarcity: 9}
	eng := newTestEngine(t, stubBenchmarks{"Family Office Director": director})

	cmp := eng.CompareBudgets(JobRequest{Role: "Family Office Director", Location: "Dallas", Budget: Budget{Range: "350k-500k"}})
	require.NotNil(t, cmp.Increase)
	require.NotNil(t, cmp.Decrease)
	assert.Equal(t, "500k-750k", cmp.Increase.Range.Value)
	assert.Equal(t, "200k-350k", cmp.Decrease.Range.Value)
	assert.LessOrEqual(t, cmp.Increase.Delta, 0)
	assert.GreaterOrEqual(t, cmp.Decrease.Delta, 0)
}
