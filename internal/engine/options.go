package engine

// Timeline is how quickly the client needs the hire.
type Timeline string

const (
	TimelineImmediate        Timeline = "immediate"
	TimelineStandard         Timeline = "standard"
	TimelineFlexible         Timeline = "flexible"
	TimelineBuildingPipeline Timeline = "building-pipeline"
)

// Discretion is the confidentiality level of the search.
type Discretion string

const (
	DiscretionStandard      Discretion = "standard"
	DiscretionElevated      Discretion = "elevated"
	DiscretionHighProfile   Discretion = "high-profile"
	DiscretionUltraDiscrete Discretion = "ultra-discrete"
)

// Travel is the share of time the hire spends away from the primary residence.
type Travel string

const (
	TravelMinimal       Travel = "minimal"
	TravelOccasional    Travel = "occasional"
	TravelFrequent      Travel = "frequent"
	TravelHeavyRotation Travel = "heavy-rotation"
)

// Choice is a selectable enum value with its display text.
type Choice struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

var timelineChoices = []Choice{
	{Value: string(TimelineImmediate), Label: "Immediate (1-2 months)", Description: "Rush search - premium sourcing required"},
	{Value: string(TimelineStandard), Label: "Standard (2-3 months)", Description: "Typical search timeline"},
	{Value: string(TimelineFlexible), Label: "Flexible (4-6 months)", Description: "Time to be selective"},
	{Value: string(TimelineBuildingPipeline), Label: "Building Pipeline (6+ months)", Description: "Strategic talent mapping"},
}

var discretionChoices = []Choice{
	{Value: string(DiscretionStandard), Label: "Standard", Description: "Normal confidentiality"},
	{Value: string(DiscretionElevated), Label: "Elevated - NDA Required", Description: "Formal NDA, limited disclosure"},
	{Value: string(DiscretionHighProfile), Label: "High-Profile Principal", Description: "Public figure, media considerations"},
	{Value: string(DiscretionUltraDiscrete), Label: "Ultra-Discrete", Description: "Maximum confidentiality, blind search"},
}

var travelChoices = []Choice{
	{Value: string(TravelMinimal), Label: "Minimal (Local only)"},
	{Value: string(TravelOccasional), Label: "Occasional (1-2 trips/month)"},
	{Value: string(TravelFrequent), Label: "Frequent (Weekly travel)"},
	{Value: string(TravelHeavyRotation), Label: "Heavy/Rotation (Following principal)"},
}

func TimelineChoices() []Choice   { return append([]Choice(nil), timelineChoices...) }
func DiscretionChoices() []Choice { return append([]Choice(nil), discretionChoices...) }
func TravelChoices() []Choice     { return append([]Choice(nil), travelChoices...) }

func findChoice(choices []Choice, value string) (Choice, bool) {
	for _, o := range choices {
		if o.Value == value {
			return o, true
		}
	}
	return Choice{}, false
}

// Choice returns display data for a known timeline.
func (t Timeline) Choice() (Choice, bool) { return findChoice(timelineChoices, string(t)) }

func (d Discretion) Choice() (Choice, bool) { return findChoice(discretionChoices, string(d)) }

func (t Travel) Choice() (Choice, bool) { return findChoice(travelChoices, string(t)) }

// BudgetNotSure is the range value for a client who has not set a budget.
const BudgetNotSure = "not-sure"

// BudgetScale selects which set of budget ranges applies to a role.
type BudgetScale string

const (
	ScaleHousehold BudgetScale = "household"
	ScaleCorporate BudgetScale = "corporate"
	ScalePortfolio BudgetScale = "portfolio"
)

// BudgetRange is a named compensation bracket with a fixed midpoint.
// Midpoint is nil for the "not sure" bracket.
type BudgetRange struct {
	Value    string   `json:"value"`
	Label    string   `json:"label"`
	Midpoint *float64 `json:"midpoint"`
}

func midpoint(v float64) *float64 { return &v }

var budgetRanges = map[BudgetScale][]BudgetRange{
	ScaleHousehold: {
		{Value: "under-80k", Label: "Under $80k", Midpoint: midpoint(70000)},
		{Value: "80k-120k", Label: "$80k - $120k", Midpoint: midpoint(100000)},
		{Value: "120k-180k", Label: "$120k - $180k", Midpoint: midpoint(150000)},
		{Value: "180k-250k", Label: "$180k - $250k", Midpoint: midpoint(215000)},
		{Value: "250k-350k", Label: "$250k - $350k", Midpoint: midpoint(300000)},
		{Value: "over-350k", Label: "Over $350k", Midpoint: midpoint(400000)},
		{Value: BudgetNotSure, Label: "Not Sure / Need Guidance"},
	},
	ScaleCorporate: {
		{Value: "under-200k", Label: "Under $200k", Midpoint: midpoint(175000)},
		{Value: "200k-350k", Label: "$200k - $350k", Midpoint: midpoint(275000)},
		{Value: "350k-500k", Label: "$350k - $500k", Midpoint: midpoint(425000)},
		{Value: "500k-750k", Label: "$500k - $750k", Midpoint: midpoint(625000)},
		{Value: "750k-1m", Label: "$750k - $1M", Midpoint: midpoint(875000)},
		{Value: "over-1m", Label: "Over $1M", Midpoint: midpoint(1250000)},
		{Value: BudgetNotSure, Label: "Not Sure / Need Guidance"},
	},
	ScalePortfolio: {
		{Value: "under-300k", Label: "Under $300k", Midpoint: midpoint(250000)},
		{Value: "300k-500k", Label: "$300k - $500k", Midpoint: midpoint(400000)},
		{Value: "500k-750k", Label: "$500k - $750k", Midpoint: midpoint(625000)},
		{Value: "750k-1m", Label: "$750k - $1M", Midpoint: midpoint(875000)},
		{Value: "1m-1.5m", Label: "$1M - $1.5M", Midpoint: midpoint(1250000)},
		{Value: "over-1.5m", Label: "Over $1.5M", Midpoint: midpoint(1750000)},
		{Value: BudgetNotSure, Label: "Not Sure / Need Guidance"},
	},
}

// BudgetRanges returns the brackets of a scale in ascending order.
func BudgetRanges(scale BudgetScale) []BudgetRange {
	return append([]BudgetRange(nil), budgetRanges[scale]...)
}

// FindBudgetRange looks the value up in the preferred scale first and then
// in the remaining scales, so a household range still resolves for a
// family-office role.
func FindBudgetRange(value string, preferred BudgetScale) (BudgetRange, bool) {
	if value == "" {
		return BudgetRange{}, false
	}

	order := []BudgetScale{preferred, ScaleHousehold, ScaleCorporate, ScalePortfolio}
	for _, scale := range order {
		for _, r := range budgetRanges[scale] {
			if r.Value == value {
				return r, true
			}
		}
	}
	return BudgetRange{}, false
}
