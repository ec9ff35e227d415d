package report

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spigell/search-calculator/internal/engine"
)

var printer = message.NewPrinter(language.English)

// Render writes a plain text summary of r.
func Render(w io.Writer, r *Report) error {
	var b strings.Builder
	res := r.Result

	printer.Fprintf(&b, "%s: %s\n", r.Title, r.Request.Location)
	printer.Fprintf(&b, "Complexity: %d/10 (%s), %d points, confidence %s\n", res.Score, res.Label, res.Points, res.Confidence)
	if res.Region != nil {
		printer.Fprintf(&b, "Region: %s (x%.2f)\n", res.Region.Label, res.Region.Multiplier)
	}
	if p := r.AdjustedBenchmark; p != nil {
		printer.Fprintf(&b, "Market: $%d / $%d / $%d (p25 / p50 / p75)\n", p.P25, p.P50, p.P75)
	}

	b.WriteString("\nDrivers:\n")
	writeDrivers(&b, res.Drivers)

	writeList(&b, "Assumptions", res.Assumptions)
	writeList(&b, "Red flags", res.RedFlags)

	if len(r.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, warn := range r.Warnings {
			printer.Fprintf(&b, "  [%s] %s\n", warn.Type, warn.Message)
			if warn.Suggestion != "" {
				printer.Fprintf(&b, "      %s\n", warn.Suggestion)
			}
		}
	}

	if risk := r.Risk; risk != nil {
		printer.Fprintf(&b, "\nRetention risk: %d/100 (%s)\n", risk.Score, risk.Level)
		for _, f := range risk.Factors {
			printer.Fprintf(&b, "  - %s: %s [%s]\n", f.Factor, f.Value, f.Impact)
		}
		for _, s := range risk.Suggestions {
			printer.Fprintf(&b, "  * %s: %s\n", s.Title, s.Detail)
		}
	}

	n := r.Narrative
	b.WriteString("\nAnalysis:\n")
	printer.Fprintf(&b, "  Salary guidance: %s\n", n.SalaryRangeGuidance)
	printer.Fprintf(&b, "  Timeline: %s\n", n.EstimatedTimeline)
	printer.Fprintf(&b, "  Market: %s\n", n.MarketCompetitiveness)
	printer.Fprintf(&b, "  Availability: %s. %s\n", n.CandidateAvailability, n.AvailabilityReason)
	writeList(&b, "Key success factors", n.KeySuccessFactors)
	writeList(&b, "Recommended adjustments", n.RecommendedAdjustments)
	printer.Fprintf(&b, "\n%s\n", n.BottomLine)

	if r.Note != "" {
		printer.Fprintf(&b, "\nNote: %s\n", r.Note)
	}
	if r.ShareToken != "" {
		printer.Fprintf(&b, "Share token: %s\n", r.ShareToken)
	}

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "write report")
}

// RenderProjection writes a what-if result next to the committed score.
func RenderProjection(w io.Writer, committed engine.ScoreResult, p engine.Projection) error {
	var b strings.Builder

	printer.Fprintf(&b, "Score: %d -> %d (%s) %s\n", committed.Score, p.Result.Score, p.Result.Label, signed(p.Delta))
	if p.Risk != nil {
		printer.Fprintf(&b, "Retention risk: %d/100 (%s)", p.Risk.Score, p.Risk.Level)
		if p.RiskDelta != nil {
			printer.Fprintf(&b, " %s", signed(*p.RiskDelta))
		}
		b.WriteString("\n")
	}
	b.WriteString("Drivers:\n")
	writeDrivers(&b, p.Result.Drivers)

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "write projection")
}

// RenderComparison writes the scores one budget step up and down.
func RenderComparison(w io.Writer, c engine.Comparison) error {
	var b strings.Builder

	printer.Fprintf(&b, "Current: %d/10 (%s)\n", c.Current.Score, c.Current.Label)
	if s := c.Increase; s != nil {
		printer.Fprintf(&b, "With %s: %d/10 (%s) %s\n", s.Range.Label, s.Result.Score, s.Result.Label, signed(s.Delta))
	}
	if s := c.Decrease; s != nil {
		printer.Fprintf(&b, "With %s: %d/10 (%s) %s\n", s.Range.Label, s.Result.Score, s.Result.Label, signed(s.Delta))
	}
	if c.Increase == nil && c.Decrease == nil {
		b.WriteString("No neighbouring budget range to compare with.\n")
	}

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "write comparison")
}

func writeDrivers(b *strings.Builder, drivers []engine.Driver) {
	for _, d := range drivers {
		printer.Fprintf(b, "  %4s  %s: %s\n", signed(d.Points), d.Factor, d.Rationale)
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	printer.Fprintf(b, "\n%s:\n", title)
	for _, item := range items {
		printer.Fprintf(b, "  - %s\n", item)
	}
}

func signed(v int) string {
	if v > 0 {
		return printer.Sprintf("+%d", v)
	}
	return printer.Sprintf("%d", v)
}
