package advisory

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/spigell/search-calculator/internal/engine"
	"github.com/spigell/search-calculator/internal/regional"
)

const (
	chiefOfStaffRole  = "Chief of Staff"
	chiefOfStaffFloor = 80000
	chiefOfStaffRange = "under-80k"
	holidayFactor     = 1.1
)

type belowMarketCheck struct {
	toggle
	ratio float64
}

// NewBelowMarket flags budgets well under the regional 25th percentile.
func NewBelowMarket() Check { return &belowMarketCheck{} }

func (c *belowMarketCheck) Name() string { return "below_market" }

func (c *belowMarketCheck) Validate(cfg *Config) error {
	if cfg.BelowMarketRatio <= 0 || cfg.BelowMarketRatio > 1 {
		return eris.Errorf("below-market ratio must be within (0,1], got %v", cfg.BelowMarketRatio)
	}
	c.ratio = cfg.BelowMarketRatio
	return nil
}

func (c *belowMarketCheck) Apply(_ context.Context, deps Deps, s Subject) ([]Warning, error) {
	res := s.Result
	if res.Benchmark == nil || res.BudgetAmount == nil {
		return nil, nil
	}

	adjustedP25 := res.Benchmark.P25 * res.Multiplier()
	if *res.BudgetAmount >= adjustedP25*c.ratio {
		return nil, nil
	}

	if deps.Logger != nil {
		deps.Logger.Debug("budget below market",
			zap.Float64("budget", *res.BudgetAmount),
			zap.Float64("adjusted_p25", adjustedP25),
		)
	}

	return []Warning{{
		Type:       SeverityCritical,
		Message:    fmt.Sprintf("Budget is significantly below market for %s in %s.", s.Request.Role, locationOr(s.Request.Location)),
		Suggestion: "Suggested minimum: " + thousands(adjustedP25),
	}}, nil
}

func (c *belowMarketCheck) Status() Status { return c.status(c.Name()) }

type ultraHighMarketCheck struct{ toggle }

// NewUltraHighMarket warns when an ultra-high cost market meets a sub-median budget.
func NewUltraHighMarket() Check { return &ultraHighMarketCheck{} }

func (c *ultraHighMarketCheck) Name() string { return "ultra_high_market" }

func (c *ultraHighMarketCheck) Validate(*Config) error { return nil }

func (c *ultraHighMarketCheck) Status() Status { return c.status(c.Name()) }

func (c *ultraHighMarketCheck) Apply(_ context.Context, _ Deps, s Subject) ([]Warning, error) {
	res := s.Result
	if res.Benchmark == nil || res.BudgetAmount == nil || res.Region == nil || res.Region.Tier != regional.TierUltraHigh {
		return nil, nil
	}

	adjustedP50 := res.Benchmark.P50 * res.Multiplier()
	if *res.BudgetAmount >= adjustedP50 {
		return nil, nil
	}

	return []Warning{{
		Type:       SeverityWarning,
		Message:    fmt.Sprintf("%s is an ultra-high cost market. Your budget may limit the candidate pool.", res.Region.Key),
		Suggestion: "Market median with regional adjustment: " + thousands(adjustedP50),
	}}, nil
}

type chiefOfStaffBudgetCheck struct{ toggle }

// NewChiefOfStaffBudget flags a Chief of Staff search priced like an assistant role.
func NewChiefOfStaffBudget() Check { return &chiefOfStaffBudgetCheck{} }

func (c *chiefOfStaffBudgetCheck) Name() string { return "chief_of_staff_budget" }

func (c *chiefOfStaffBudgetCheck) Validate(*Config) error { return nil }

func (c *chiefOfStaffBudgetCheck) Status() Status { return c.status(c.Name()) }

func (c *chiefOfStaffBudgetCheck) Apply(_ context.Context, _ Deps, s Subject) ([]Warning, error) {
	req := s.Request
	if req.Role != chiefOfStaffRole {
		return nil, nil
	}

	under := req.Budget.Range == chiefOfStaffRange
	if req.Budget.Amount != nil {
		under = *req.Budget.Amount < chiefOfStaffFloor
	}
	if !under {
		return nil, nil
	}

	return []Warning{{
		Type:       SeverityCritical,
		Message:    "A Chief of Staff under $80k is extremely rare in the UHNW space.",
		Suggestion: "Consider a Personal Assistant role at this budget, or increase to $180k+ for a true Chief of Staff.",
	}}, nil
}

type languageTimelineCheck struct{ toggle }

// NewLanguageTimeline warns about several languages on a rush search.
func NewLanguageTimeline() Check { return &languageTimelineCheck{} }

func (c *languageTimelineCheck) Name() string { return "language_timeline" }

func (c *languageTimelineCheck) Validate(*Config) error { return nil }

func (c *languageTimelineCheck) Status() Status { return c.status(c.Name()) }

func (c *languageTimelineCheck) Apply(_ context.Context, _ Deps, s Subject) ([]Warning, error) {
	if s.Request.Timeline != engine.TimelineImmediate || len(s.Request.Languages) < 2 {
		return nil, nil
	}
	return []Warning{{
		Type:       SeverityWarning,
		Message:    "Multiple language requirements on an immediate timeline is extremely challenging.",
		Suggestion: "Consider extending timeline or prioritizing one language.",
	}}, nil
}

type holidayTimelineCheck struct{ toggle }

// NewHolidayTimeline notes the holiday slowdown for rush searches.
func NewHolidayTimeline() Check { return &holidayTimelineCheck{} }

func (c *holidayTimelineCheck) Name() string { return "holiday_timeline" }

func (c *holidayTimelineCheck) Validate(*Config) error { return nil }

func (c *holidayTimelineCheck) Status() Status { return c.status(c.Name()) }

func (c *holidayTimelineCheck) Apply(_ context.Context, _ Deps, s Subject) ([]Warning, error) {
	season := s.Result.Seasonality
	if season.Factor <= holidayFactor || s.Request.Timeline != engine.TimelineImmediate {
		return nil, nil
	}
	return []Warning{{
		Type:       SeverityInfo,
		Message:    season.Label,
		Suggestion: "Factor in additional 2-4 weeks for holiday slowdown.",
	}}, nil
}

func locationOr(location string) string {
	if location == "" {
		return "this market"
	}
	return location
}
