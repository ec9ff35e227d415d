package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/spigell/search-calculator/internal/benchmark"
	"github.com/spigell/search-calculator/internal/regional"
)

// Confidence of a score, lowered when inputs were missing.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
)

// Complexity labels by score.
const (
	LabelStraightforward = "Straightforward"
	LabelModerate        = "Moderate"
	LabelChallenging     = "Challenging"
	LabelHighlyComplex   = "Highly Complex"
	LabelExceptional     = "Exceptional"
)

// Driver factor names.
const (
	FactorTimeline       = "Client Timeline"
	FactorLocation       = "Location"
	FactorBudget         = "Budget"
	FactorLanguages      = "Languages"
	FactorTravel         = "Travel"
	FactorCertifications = "Certifications"
	FactorDiscretion     = "Discretion"
	FactorSeasonal       = "Seasonal Timing"
	FactorScarcity       = "Role Scarcity"
	FactorDemand         = "Market Demand"
)

const redFlagBudget = "Budget below market"

var flexibleLocation = regexp.MustCompile(`(?i)(flexible|remote|multiple|anywhere)`)

// Budget is either a named range, a raw amount, or neither.
// Amount takes precedence when both are set.
type Budget struct {
	Range  string   `json:"range,omitempty" yaml:"range" mapstructure:"range"`
	Amount *float64 `json:"amount,omitempty" yaml:"amount" mapstructure:"amount"`
}

// JobRequest is the normalized description of an opening.
type JobRequest struct {
	Role            string     `json:"role" yaml:"role" mapstructure:"role" validate:"required"`
	Location        string     `json:"location" yaml:"location" mapstructure:"location" validate:"required"`
	Timeline        Timeline   `json:"timeline" yaml:"timeline" mapstructure:"timeline"`
	Budget          Budget     `json:"budget" yaml:"budget" mapstructure:"budget"`
	Discretion      Discretion `json:"discretion" yaml:"discretion" mapstructure:"discretion"`
	Languages       []string   `json:"languages,omitempty" yaml:"languages" mapstructure:"languages"`
	Certifications  []string   `json:"certifications,omitempty" yaml:"certifications" mapstructure:"certifications"`
	Travel          Travel     `json:"travel" yaml:"travel" mapstructure:"travel"`
	KeyRequirements string     `json:"keyRequirements,omitempty" yaml:"key_requirements" mapstructure:"key_requirements"`
}

// Overrides replaces selected request fields for a single computation.
// Nil pointers and nil slices leave the request value in place; an empty
// non-nil slice clears it.
type Overrides struct {
	Timeline       *Timeline   `json:"timeline,omitempty"`
	BudgetAmount   *float64    `json:"budgetAmount,omitempty"`
	BudgetRange    *string     `json:"budgetRange,omitempty"`
	Languages      []string    `json:"languages,omitempty"`
	Travel         *Travel     `json:"travel,omitempty"`
	Discretion     *Discretion `json:"discretion,omitempty"`
	Certifications []string    `json:"certifications,omitempty"`
}

// IsZero reports whether no override is set.
func (o *Overrides) IsZero() bool {
	return o == nil || (o.Timeline == nil && o.BudgetAmount == nil && o.BudgetRange == nil &&
		o.Languages == nil && o.Travel == nil && o.Discretion == nil && o.Certifications == nil)
}

// Driver is a signed contribution to the complexity score.
type Driver struct {
	Factor    string `json:"factor"`
	Points    int    `json:"points"`
	Rationale string `json:"rationale"`
	Tooltip   string `json:"tooltip,omitempty"`
}

// ScoreResult is the outcome of one scoring call.
type ScoreResult struct {
	Role         string               `json:"role"`
	Score        int                  `json:"score"`
	Label        string               `json:"label"`
	Points       int                  `json:"points"`
	Drivers      []Driver             `json:"drivers"`
	Confidence   Confidence           `json:"confidence"`
	Assumptions  []string             `json:"assumptions"`
	RedFlags     []string             `json:"redFlags"`
	Region       *regional.Adjustment `json:"region,omitempty"`
	Benchmark    *benchmark.Record    `json:"benchmark,omitempty"`
	Seasonality  Seasonality          `json:"seasonality"`
	BudgetAmount *float64             `json:"budgetAmount,omitempty"`
	ComputedAt   time.Time            `json:"computedAt"`
}

// Multiplier returns the regional multiplier, 1 when no region matched.
func (r ScoreResult) Multiplier() float64 {
	if r.Region == nil {
		return 1
	}
	return r.Region.Multiplier
}

// Percentiles are salary figures rounded to whole dollars.
type Percentiles struct {
	P25 int `json:"p25"`
	P50 int `json:"p50"`
	P75 int `json:"p75"`
}

// AdjustedBenchmark returns the benchmark percentiles scaled by the regional
// multiplier, or nil for an unknown role.
func (r ScoreResult) AdjustedBenchmark() *Percentiles {
	if r.Benchmark == nil {
		return nil
	}
	m := r.Multiplier()
	return &Percentiles{
		P25: round(r.Benchmark.P25 * m),
		P50: round(r.Benchmark.P50 * m),
		P75: round(r.Benchmark.P75 * m),
	}
}

// LabelFor maps a score to its label.
func LabelFor(score int) string {
	switch {
	case score <= 3:
		return LabelStraightforward
	case score <= 5:
		return LabelModerate
	case score <= 7:
		return LabelChallenging
	case score <= 9:
		return LabelHighlyComplex
	default:
		return LabelExceptional
	}
}

// round sends halves toward positive infinity: 5.5 -> 6, -2.5 -> -2.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// effective is the request with overrides applied.
type effective struct {
	timeline       Timeline
	budget         Budget
	languages      []string
	travel         Travel
	discretion     Discretion
	certifications []string
}

func apply(req JobRequest, ov *Overrides) effective {
	e := effective{
		timeline:       req.Timeline,
		budget:         req.Budget,
		languages:      req.Languages,
		travel:         req.Travel,
		discretion:     req.Discretion,
		certifications: req.Certifications,
	}
	if ov == nil {
		return e
	}

	if ov.Timeline != nil {
		e.timeline = *ov.Timeline
	}
	switch {
	case ov.BudgetAmount != nil:
		e.budget = Budget{Amount: ov.BudgetAmount}
	case ov.BudgetRange != nil:
		e.budget = Budget{Range: *ov.BudgetRange}
	}
	if ov.Languages != nil {
		e.languages = ov.Languages
	}
	if ov.Travel != nil {
		e.travel = *ov.Travel
	}
	if ov.Discretion != nil {
		e.discretion = *ov.Discretion
	}
	if ov.Certifications != nil {
		e.certifications = ov.Certifications
	}
	return e
}

// resolveAmount returns the target compensation for a budget, nil when
// unspecified or "not sure".
func resolveAmount(b Budget, bench *benchmark.Record) *float64 {
	if b.Amount != nil {
		v := *b.Amount
		return &v
	}

	scale := ScaleHousehold
	if bench.IsCorporate() {
		scale = ScaleCorporate
	}
	r, ok := FindBudgetRange(b.Range, scale)
	if !ok || r.Midpoint == nil {
		return nil
	}
	v := *r.Midpoint
	return &v
}

// EffectiveBudget returns the compensation the engine scores against.
func EffectiveBudget(req JobRequest, bench *benchmark.Record, ov *Overrides) *float64 {
	return resolveAmount(apply(req, ov).budget, bench)
}

// Compute scores a request. bench and region may be nil; every missing
// input has a fallback, so Compute never fails.
func Compute(req JobRequest, bench *benchmark.Record, region *regional.Adjustment, ov *Overrides, at time.Time, w Weights) ScoreResult {
	in := apply(req, ov)

	var (
		points      int
		drivers     []Driver
		assumptions = []string{}
		redFlags    = []string{}
	)
	add := func(d Driver) {
		points += d.Points
		drivers = append(drivers, d)
	}

	if opt, ok := in.timeline.Choice(); ok {
		add(Driver{Factor: FactorTimeline, Points: w.Timeline[in.timeline], Rationale: opt.Label, Tooltip: opt.Description})
	}

	var resolved *regional.Adjustment
	if region != nil {
		r := *region
		r.Aliases = nil
		resolved = &r
	}

	isFlexible := flexibleLocation.MatchString(req.Location)
	locationPoints := w.LocationBase
	if isFlexible {
		locationPoints = w.LocationFlexible
	}
	locationRationale := "Single location"
	switch {
	case resolved != nil:
		locationPoints += w.TierBonus[resolved.Tier]
		locationRationale = fmt.Sprintf("%s (%s)", resolved.Key, resolved.Label)
	case isFlexible:
		locationRationale = "Flexible"
	}
	add(Driver{Factor: FactorLocation, Points: locationPoints, Rationale: locationRationale})

	multiplier := 1.0
	if resolved != nil {
		multiplier = resolved.Multiplier
	}

	amount := resolveAmount(in.budget, bench)
	budgetPoints := w.BudgetUnknown
	budgetRationale := "Unknown"
	switch {
	case bench != nil && amount != nil:
		ratio := *amount / (bench.P50 * multiplier)
		budgetPoints = w.BudgetFloor
		budgetRationale = "Well below market - major red flag"
		matched := false
		for _, b := range w.Budget {
			if ratio >= b.MinRatio {
				budgetPoints = b.Points
				budgetRationale = b.Rationale
				matched = true
				break
			}
		}
		if !matched {
			redFlags = append(redFlags, redFlagBudget)
		}
		label := "Standard"
		if resolved != nil {
			label = resolved.Label
		}
		assumptions = append(assumptions, fmt.Sprintf("Regional adjustment: %s (%sx)", label, strconv.FormatFloat(multiplier, 'f', -1, 64)))
	case amount == nil && in.budget.Range == BudgetNotSure:
		budgetRationale = "Budget TBD - needs guidance"
	}
	add(Driver{Factor: FactorBudget, Points: budgetPoints, Rationale: budgetRationale})

	if n := len(in.languages); n > 0 {
		rationale := fmt.Sprintf("%d languages (compound rarity)", n)
		if n == 1 {
			rationale = in.languages[0]
		}
		add(Driver{Factor: FactorLanguages, Points: w.languagePoints(n), Rationale: rationale})
	}

	if opt, ok := in.travel.Choice(); ok && w.Travel[in.travel] > 0 {
		add(Driver{Factor: FactorTravel, Points: w.Travel[in.travel], Rationale: opt.Label})
	}

	if n := len(in.certifications); n > 0 {
		add(Driver{Factor: FactorCertifications, Points: w.certificationPoints(n), Rationale: fmt.Sprintf("%d required", n)})
	}

	if opt, ok := in.discretion.Choice(); ok && w.Discretion[in.discretion] > 0 {
		add(Driver{Factor: FactorDiscretion, Points: w.Discretion[in.discretion], Rationale: opt.Label, Tooltip: opt.Description})
	}

	season := SeasonalityAt(at)
	if p := season.Points(w.SeasonalScale); p != 0 {
		add(Driver{Factor: FactorSeasonal, Points: p, Rationale: season.Label})
	}

	scarcity := w.DefaultScarcity
	if bench != nil {
		scarcity = bench.Scarcity
	}
	add(Driver{
		Factor:    FactorScarcity,
		Points:    round(scarcity),
		Rationale: fmt.Sprintf("%s (%s/10)", req.Role, strconv.FormatFloat(scarcity, 'f', -1, 64)),
	})

	if bench != nil && bench.DemandTrend != nil {
		if d, ok := demandDriver(*bench.DemandTrend, w); ok {
			add(d)
		}
	}

	score := round(1 + float64(points)/w.Divisor*9)
	score = min(10, max(1, score))

	confidence := ConfidenceHigh
	if amount == nil || bench == nil {
		confidence = ConfidenceMedium
	}

	return ScoreResult{
		Role:         req.Role,
		Score:        score,
		Label:        LabelFor(score),
		Points:       points,
		Drivers:      drivers,
		Confidence:   confidence,
		Assumptions:  assumptions,
		RedFlags:     redFlags,
		Region:       resolved,
		Benchmark:    bench,
		Seasonality:  season,
		BudgetAmount: amount,
		ComputedAt:   at,
	}
}

func demandDriver(t benchmark.DemandTrend, w Weights) (Driver, bool) {
	pct := round(t.YoYChange * 100)

	var d Driver
	switch {
	case t.Direction == "growing" && t.YoYChange >= w.DemandRapidChange:
		d = Driver{Points: w.DemandRapid, Rationale: fmt.Sprintf("Rapidly growing demand (+%d%% YoY)", pct)}
	case t.Direction == "growing" && t.YoYChange >= w.DemandGrowingChange:
		d = Driver{Points: w.DemandGrowing, Rationale: fmt.Sprintf("Growing demand (+%d%% YoY)", pct)}
	case t.Direction == "growing":
		d = Driver{Points: w.DemandModest, Rationale: fmt.Sprintf("Modest growth (+%d%% YoY)", pct)}
	case t.Direction == "declining":
		d = Driver{Points: w.DemandDeclining, Rationale: fmt.Sprintf("Declining demand (%d%% YoY)", pct)}
	default:
		return Driver{}, false
	}

	d.Factor = FactorDemand
	return d, d.Points != 0
}
