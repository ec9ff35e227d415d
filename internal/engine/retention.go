package engine

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/spigell/search-calculator/internal/benchmark"
)

// Impact ranks risk factors and suggestions.
type Impact string

const (
	ImpactHigh     Impact = "high"
	ImpactModerate Impact = "moderate"
	ImpactLow      Impact = "low"
)

func (i Impact) rank() int {
	switch i {
	case ImpactHigh:
		return 0
	case ImpactModerate:
		return 1
	default:
		return 2
	}
}

// RiskLevel buckets a retention risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

var riskColors = map[RiskLevel]string{
	RiskLow:      "#059669",
	RiskModerate: "#d97706",
	RiskHigh:     "#ea580c",
	RiskCritical: "#dc2626",
}

// Color is the display token for the level.
func (l RiskLevel) Color() string { return riskColors[l] }

// RiskLevelFor maps a 0-100 score to a level.
func RiskLevelFor(score int) RiskLevel {
	switch {
	case score <= 25:
		return RiskLow
	case score <= 45:
		return RiskModerate
	case score <= 65:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// Weight caps per risk component.
const (
	maxAttritionPoints    = 35
	maxTurnoverPoints     = 20
	maxCounterOfferPoints = 15
	maxDemandPoints       = 10
	scarcityPoints        = 5

	turnoverCeiling     = 0.35
	counterOfferCeiling = 0.55
	demandCeiling       = 0.20

	visibleCounterOffer = 0.20
	visibleDemand       = 0.08
	maxSuggestions      = 4
)

var boundaryReason = regexp.MustCompile(`(?i)(scope|boundar|creep)`)

type RiskFactor struct {
	Factor string `json:"factor"`
	Detail string `json:"detail"`
	Value  string `json:"value"`
	Points int    `json:"points"`
	Impact Impact `json:"impact"`
}

type Suggestion struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Impact Impact `json:"impact"`
}

// RiskResult estimates the chance the placed hire leaves early.
type RiskResult struct {
	Score       int          `json:"riskScore"`
	Level       RiskLevel    `json:"riskLevel"`
	Color       string       `json:"riskColor"`
	Factors     []RiskFactor `json:"riskFactors"`
	Suggestions []Suggestion `json:"suggestions"`

	FirstYearAttrition int      `json:"firstYearAttrition,omitempty"`
	AnnualTurnover     int      `json:"annualTurnover,omitempty"`
	AvgTenure          float64  `json:"avgTenure,omitempty"`
	TopReasons         []string `json:"topReasons,omitempty"`
}

// RetentionRisk derives the risk assessment for a scored request. The same
// overrides used for scoring must be passed so the budget position matches.
// It returns nil when the benchmark carries neither retention nor turnover data.
func RetentionRisk(req JobRequest, res ScoreResult, ov *Overrides) *RiskResult {
	bench := res.Benchmark
	if bench == nil || (bench.RetentionRisk == nil && bench.Turnover == nil) {
		return nil
	}

	var (
		total   int
		factors []RiskFactor
		out     RiskResult
	)

	if rr := bench.RetentionRisk; rr != nil {
		pct := round(rr.FirstYearAttrition * 100)
		pts := min(maxAttritionPoints, pct)
		total += pts
		out.FirstYearAttrition = pct
		out.TopReasons = append([]string(nil), rr.TopReasons...)
		factors = append(factors, RiskFactor{
			Factor: "First-Year Attrition",
			Detail: fmt.Sprintf("%d%% of placements in this role leave within twelve months", pct),
			Value:  fmt.Sprintf("%d%%", pct),
			Points: pts,
			Impact: thresholdImpact(rr.FirstYearAttrition, 0.30, 0.15),
		})
	}

	if to := bench.Turnover; to != nil {
		pts := min(maxTurnoverPoints, round(to.AnnualTurnover/turnoverCeiling*float64(maxTurnoverPoints)))
		total += pts
		out.AnnualTurnover = round(to.AnnualTurnover * 100)
		out.AvgTenure = to.AvgTenure
		factors = append(factors, RiskFactor{
			Factor: "Market Turnover",
			Detail: fmt.Sprintf("Average tenure is %s years across the market", formatTenure(to.AvgTenure)),
			Value:  fmt.Sprintf("%d%%/yr", out.AnnualTurnover),
			Points: pts,
			Impact: thresholdImpact(to.AnnualTurnover, 0.25, 0.15),
		})
	}

	counter := bench.CounterOfferRate
	counterPts := min(maxCounterOfferPoints, round(counter*float64(maxCounterOfferPoints)/counterOfferCeiling))
	total += counterPts
	if counter > visibleCounterOffer {
		factors = append(factors, RiskFactor{
			Factor: "Counter-Offer Vulnerability",
			Detail: fmt.Sprintf("%d%% of candidates in this role receive a counter-offer", round(counter*100)),
			Value:  fmt.Sprintf("%d%%", round(counter*100)),
			Points: counterPts,
			Impact: highIf(counter >= 0.35),
		})
	}

	amount := EffectiveBudget(req, bench, ov)
	market := bench.P50 * res.Multiplier()
	ratio := 0.0
	if amount != nil && market > 0 {
		ratio = *amount / market
		f := compensationFactor(ratio)
		total += f.Points
		factors = append(factors, f)
	}

	if dt := bench.DemandTrend; dt != nil {
		pts := min(maxDemandPoints, max(0, round(dt.YoYChange/demandCeiling*float64(maxDemandPoints))))
		total += pts
		if dt.YoYChange >= visibleDemand {
			factors = append(factors, RiskFactor{
				Factor: "Demand Pressure",
				Detail: "Rising demand means competitors will actively recruit your hire",
				Value:  fmt.Sprintf("+%d%% YoY", round(dt.YoYChange*100)),
				Points: pts,
				Impact: highIf(dt.YoYChange >= 0.15),
			})
		}
	}

	total += round(bench.Scarcity / 10 * scarcityPoints)

	total = min(100, max(0, total))
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Impact.rank() < factors[j].Impact.rank()
	})

	out.Score = total
	out.Level = RiskLevelFor(total)
	out.Color = out.Level.Color()
	out.Factors = factors
	out.Suggestions = suggestions(bench, amount != nil, ratio, market)

	return &out
}

func thresholdImpact(v, high, moderate float64) Impact {
	switch {
	case v >= high:
		return ImpactHigh
	case v >= moderate:
		return ImpactModerate
	default:
		return ImpactLow
	}
}

func highIf(cond bool) Impact {
	if cond {
		return ImpactHigh
	}
	return ImpactModerate
}

func compensationFactor(ratio float64) RiskFactor {
	f := RiskFactor{
		Factor: "Compensation Position",
		Value:  fmt.Sprintf("%d%% of market", round(ratio*100)),
	}

	switch {
	case ratio < 0.7:
		f.Points, f.Impact = 15, ImpactHigh
		f.Detail = "Offer is far below the regional median; any outside approach will pull the hire away"
	case ratio < 0.85:
		f.Points, f.Impact = 11, ImpactHigh
		f.Detail = "Offer trails the regional median; expect the hire to keep listening to recruiters"
	case ratio < 1.0:
		f.Points, f.Impact = 6, ImpactModerate
		f.Detail = "Offer sits just under the regional median"
	case ratio < 1.2:
		f.Points, f.Impact = 2, ImpactLow
		f.Detail = "Offer is at or slightly above the regional median"
	default:
		f.Points, f.Impact = 0, ImpactLow
		f.Detail = "Offer is well above the regional median and protects against poaching"
	}

	return f
}

func suggestions(bench *benchmark.Record, hasBudget bool, ratio, market float64) []Suggestion {
	var out []Suggestion

	if rr := bench.RetentionRisk; rr != nil && rr.FirstYearAttrition >= 0.20 {
		out = append(out, Suggestion{
			Title:  "Structure the first 90 days",
			Detail: "Agree a written onboarding plan with check-ins at 30, 60 and 90 days.",
			Impact: highIf(rr.FirstYearAttrition >= 0.30),
		})
	}

	if rr := bench.RetentionRisk; rr != nil && len(rr.TopReasons) > 0 && boundaryReason.MatchString(rr.TopReasons[0]) {
		out = append(out, Suggestion{
			Title:  "Put boundaries in writing",
			Detail: "Define duties, hours and time off in the offer letter to prevent scope creep.",
			Impact: ImpactHigh,
		})
	}

	if bench.CounterOfferRate >= 0.35 {
		out = append(out, Suggestion{
			Title:  "Prepare for the counter-offer",
			Detail: "Budget a signing bonus and move quickly from final interview to offer.",
			Impact: highIf(bench.CounterOfferRate >= 0.45),
		})
	}

	if hasBudget && ratio < 0.9 {
		out = append(out, Suggestion{
			Title:  "Close the compensation gap",
			Detail: fmt.Sprintf("Moving the offer toward the $%dk regional median reduces early departures.", round(market/1000)),
			Impact: highIf(ratio < 0.8),
		})
	}

	if cs := bench.CompensationStructure; cs != nil && cs.Base >= 0.80 {
		out = append(out, Suggestion{
			Title:  "Add retention incentives",
			Detail: "A retention bonus or deferred payment tied to tenure gives the hire a reason to stay.",
			Impact: ImpactModerate,
		})
	}

	if to := bench.Turnover; to != nil && to.AvgTenure < 3 {
		out = append(out, Suggestion{
			Title:  "Plan for a two-year cycle",
			Detail: "Average tenure is short; keep a succession pipeline warm from day one.",
			Impact: highIf(to.AvgTenure < 2),
		})
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

func formatTenure(years float64) string {
	return fmt.Sprintf("%.1f", years)
}
