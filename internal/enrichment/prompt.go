package enrichment

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	_ "embed"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spigell/search-calculator/internal/engine"
)

//go:embed prompts/analysis.tmpl
var analysisTemplate string

//go:embed prompts/system_household.md
var householdSystem string

//go:embed prompts/system_corporate.md
var corporateSystem string

var analysis = template.Must(template.New("analysis").Parse(analysisTemplate))

var printer = message.NewPrinter(language.English)

const noneSpecified = "None specified"

// Input is everything the prompt is built from.
type Input struct {
	Request engine.JobRequest
	Result  engine.ScoreResult
}

type marketFigures struct {
	P25, P50, P75 string
}

type promptData struct {
	Role           string
	Location       string
	Region         string
	Timeline       string
	Budget         string
	Requirements   string
	Languages      string
	Certifications string
	Travel         string
	Discretion     string
	Score          int
	Label          string
	Drivers        []string
	Market         *marketFigures
	MarketLocation string
	Facts          []string
}

// BuildPrompt renders the system instruction and the user prompt for in.
// Corporate roles get the family office system instruction.
func BuildPrompt(in Input) (system, prompt string, err error) {
	req, res := in.Request, in.Result

	system = householdSystem
	if res.Benchmark.IsCorporate() {
		system = corporateSystem
	}

	data := promptData{
		Role:           req.Role,
		Location:       req.Location,
		Timeline:       choiceLabel(req.Timeline.Choice()),
		Budget:         budgetLabel(req, res),
		Requirements:   strings.TrimSpace(Sanitize(req.KeyRequirements)),
		Languages:      listOrNone(req.Languages),
		Certifications: listOrNone(req.Certifications),
		Travel:         choiceLabel(req.Travel.Choice()),
		Discretion:     discretionLabel(req.Discretion),
		Score:          res.Score,
		Label:          res.Label,
		MarketLocation: req.Location,
		Facts:          marketFacts(res),
	}
	if data.Timeline == "" {
		data.Timeline = string(req.Timeline)
	}
	if data.Travel == "" {
		data.Travel = string(req.Travel)
	}
	if data.MarketLocation == "" {
		data.MarketLocation = "this market"
	}
	if res.Region != nil {
		data.Region = fmt.Sprintf("%s, %sx cost multiplier", res.Region.Label, strconv.FormatFloat(res.Region.Multiplier, 'f', -1, 64))
	}
	for _, d := range res.Drivers {
		data.Drivers = append(data.Drivers, fmt.Sprintf("%s: %+d (%s)", d.Factor, d.Points, d.Rationale))
	}
	if adj := res.AdjustedBenchmark(); adj != nil {
		data.Market = &marketFigures{
			P25: printer.Sprintf("%d", adj.P25),
			P50: printer.Sprintf("%d", adj.P50),
			P75: printer.Sprintf("%d", adj.P75),
		}
	}

	var buf bytes.Buffer
	if err := analysis.Execute(&buf, data); err != nil {
		return "", "", eris.Wrap(err, "render analysis prompt")
	}
	return strings.TrimSpace(system), buf.String(), nil
}

func choiceLabel(o engine.Choice, ok bool) string {
	if !ok {
		return ""
	}
	return o.Label
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return noneSpecified
	}
	return strings.Join(items, ", ")
}

func budgetLabel(req engine.JobRequest, res engine.ScoreResult) string {
	if req.Budget.Amount != nil {
		return printer.Sprintf("$%d", int(*req.Budget.Amount))
	}
	scale := engine.ScaleHousehold
	if res.Benchmark.IsCorporate() {
		scale = engine.ScaleCorporate
	}
	if r, ok := engine.FindBudgetRange(req.Budget.Range, scale); ok {
		return r.Label
	}
	if req.Budget.Range == "" {
		return "Not specified"
	}
	return req.Budget.Range
}

func discretionLabel(d engine.Discretion) string {
	o, ok := d.Choice()
	if !ok {
		return "Standard - Normal confidentiality"
	}
	label := o.Label + " - " + o.Description
	if d != engine.DiscretionStandard {
		label += ". This significantly affects sourcing approach, candidate pool, and timeline."
	}
	return label
}

func marketFacts(res engine.ScoreResult) []string {
	b := res.Benchmark
	if b == nil {
		return nil
	}

	var facts []string
	add := func(format string, args ...any) {
		facts = append(facts, printer.Sprintf(format, args...))
	}

	add("Role Scarcity: %s/10", strconv.FormatFloat(b.Scarcity, 'f', -1, 64))
	if b.TimeToFillWeeks > 0 {
		add("Time to Fill: %d weeks (baseline, adjust for this search's complexity)", b.TimeToFillWeeks)
	}
	if b.CandidatePoolSize != "" {
		add("National Candidate Pool: %s", b.CandidatePoolSize)
	}
	if t := b.Turnover; t != nil {
		add("Tenure: %s yrs avg | Turnover: %d%%/yr", strconv.FormatFloat(t.AvgTenure, 'f', -1, 64), percent(t.AnnualTurnover))
	}
	if d := b.DemandTrend; d != nil {
		sign := ""
		if d.YoYChange >= 0 {
			sign = "+"
		}
		add("Demand: %s (%s%d%% YoY)", d.Direction, sign, percent(d.YoYChange))
	}
	if b.CounterOfferRate > 0 {
		add("Counter-Offer Rate: %d%%", percent(b.CounterOfferRate))
	}
	if r := b.RetentionRisk; r != nil {
		add("First-Year Attrition: %d%% - reasons: %s", percent(r.FirstYearAttrition), strings.Join(r.TopReasons, ", "))
	}
	if c := b.CompensationStructure; c != nil {
		add("Comp Split: Base %d%% | Bonus %d%% | Benefits %d%%", percent(c.Base), percent(c.Bonus), percent(c.Benefits))
	}
	if b.Trends != "" {
		add("Market Context: %s", b.Trends)
	}
	return facts
}

func percent(v float64) int {
	if v < 0 {
		return -int(-v*100 + 0.5)
	}
	return int(v*100 + 0.5)
}
