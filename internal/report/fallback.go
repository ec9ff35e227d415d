package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/search-calculator/internal/engine"
	"github.com/spigell/search-calculator/internal/enrichment"
)

var keySuccessFactors = []string{
	"Competitive total compensation package",
	"Clear role definition and expectations",
	"Efficient interview and decision process",
}

const (
	bottomLinePreliminary = "This preliminary analysis is based on our scoring algorithm and market benchmarks. " +
		"For comprehensive insights including sourcing strategies, compensation structuring, and interview frameworks, schedule a consultation."
	bottomLineShared = "This is a shared analysis based on our scoring algorithm. " +
		"For AI-powered insights, run a new analysis or schedule a consultation."

	sourcingPreliminary = "Schedule a consultation for detailed sourcing strategies tailored to this specific search."
	sourcingShared      = "Schedule a consultation for detailed sourcing strategies."
)

// Fallback builds the narrative from the score alone. Shared reports use
// shorter copy and make no guess about the timeline.
func Fallback(req engine.JobRequest, res engine.ScoreResult, shared bool) enrichment.Narrative {
	n := enrichment.Narrative{
		SalaryRangeGuidance:    salaryGuidance(req.Location, res.AdjustedBenchmark()),
		EstimatedTimeline:      estimatedTimeline(req.Timeline, shared),
		MarketCompetitiveness:  competitiveness(res.Score),
		KeySuccessFactors:      append([]string(nil), keySuccessFactors...),
		RecommendedAdjustments: make([]string, 0, len(res.RedFlags)),
		CandidateAvailability:  availability(res.Score),
		AvailabilityReason:     fmt.Sprintf("Based on %d complexity factors analyzed", len(res.Drivers)),
		SourcingInsight:        sourcingPreliminary,
		NegotiationLeverage: enrichment.NegotiationLeverage{
			CandidateAdvantages: candidateAdvantages(res.Score),
			EmployerAdvantages:  employerAdvantages(req.Budget.Range, shared),
		},
		BottomLine: bottomLinePreliminary,
	}

	for _, flag := range res.RedFlags {
		n.RecommendedAdjustments = append(n.RecommendedAdjustments, "Address: "+flag)
	}

	if shared {
		n.SourcingInsight = sourcingShared
		n.BottomLine = bottomLineShared
	}

	return n
}

func salaryGuidance(location string, p *engine.Percentiles) string {
	if p == nil {
		return "Contact us for guidance"
	}
	if location == "" {
		location = "this market"
	}
	return fmt.Sprintf("$%dk - $%dk for %s", inThousands(p.P25), inThousands(p.P75), location)
}

func inThousands(v int) int {
	return int(math.Floor(float64(v)/1000 + 0.5))
}

func estimatedTimeline(t engine.Timeline, shared bool) string {
	if o, ok := t.Choice(); ok {
		return o.Label
	}
	if shared {
		return "See full analysis"
	}
	switch t {
	case engine.TimelineImmediate:
		return "6-10 weeks"
	case engine.TimelineStandard:
		return "8-12 weeks"
	default:
		return "10-16 weeks"
	}
}

func competitiveness(score int) string {
	switch {
	case score <= 4:
		return "Favorable conditions for this search"
	case score <= 7:
		return "Competitive market - strategic approach recommended"
	default:
		return "Challenging search - expect extended timeline"
	}
}

func availability(score int) string {
	switch {
	case score <= 4:
		return "Moderate"
	case score <= 7:
		return "Limited"
	default:
		return "Rare"
	}
}

func candidateAdvantages(score int) []string {
	if score >= 6 {
		return []string{"Limited candidate pool", "High market demand"}
	}
	return []string{"Standard market conditions"}
}

func employerAdvantages(budgetRange string, shared bool) []string {
	if !shared && (strings.Contains(budgetRange, "350") || strings.Contains(budgetRange, "250")) {
		return []string{"Competitive compensation", "Attractive opportunity"}
	}
	return []string{"Growth opportunity"}
}
