package engine

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// BudgetBracket maps a budget/market ratio lower bound to complexity points.
type BudgetBracket struct {
	MinRatio  float64 `mapstructure:"min-ratio" json:"minRatio"`
	Points    int     `mapstructure:"points" json:"points"`
	Rationale string  `mapstructure:"rationale" json:"rationale"`
}

// Weights holds the calibrated scoring constants. They are tuned values,
// kept as configuration so they can be inspected and overridden as a set.
type Weights struct {
	Timeline   map[Timeline]int   `mapstructure:"timeline"`
	Travel     map[Travel]int     `mapstructure:"travel"`
	Discretion map[Discretion]int `mapstructure:"discretion"`

	LocationBase     int            `mapstructure:"location-base"`
	LocationFlexible int            `mapstructure:"location-flexible"`
	TierBonus        map[string]int `mapstructure:"tier-bonus"`

	// Budget brackets, highest ratio first. Ratios below the last bracket
	// score BudgetFloor and raise a red flag.
	Budget        []BudgetBracket `mapstructure:"budget"`
	BudgetFloor   int             `mapstructure:"budget-floor"`
	BudgetUnknown int             `mapstructure:"budget-unknown"`

	// Languages is indexed by language count; the last entry applies to
	// any larger count.
	Languages []int `mapstructure:"languages"`

	CertificationSingle int `mapstructure:"certification-single"`
	CertificationPair   int `mapstructure:"certification-pair"`
	CertificationExtra  int `mapstructure:"certification-extra"`

	SeasonalScale   float64 `mapstructure:"seasonal-scale"`
	DefaultScarcity float64 `mapstructure:"default-scarcity"`

	DemandRapid         int     `mapstructure:"demand-rapid"`
	DemandRapidChange   float64 `mapstructure:"demand-rapid-change"`
	DemandGrowing       int     `mapstructure:"demand-growing"`
	DemandGrowingChange float64 `mapstructure:"demand-growing-change"`
	DemandModest        int     `mapstructure:"demand-modest"`
	DemandDeclining     int     `mapstructure:"demand-declining"`

	Divisor float64 `mapstructure:"divisor"`
}

// DefaultWeights returns the production constants.
func DefaultWeights() Weights {
	return Weights{
		Timeline: map[Timeline]int{
			TimelineImmediate:        22,
			TimelineStandard:         14,
			TimelineFlexible:         8,
			TimelineBuildingPipeline: 3,
		},
		Travel: map[Travel]int{
			TravelMinimal:       0,
			TravelOccasional:    3,
			TravelFrequent:      8,
			TravelHeavyRotation: 15,
		},
		Discretion: map[Discretion]int{
			DiscretionStandard:      0,
			DiscretionElevated:      5,
			DiscretionHighProfile:   10,
			DiscretionUltraDiscrete: 15,
		},
		LocationBase:     12,
		LocationFlexible: 4,
		TierBonus: map[string]int{
			"ultra-high": 5,
			"high":       3,
		},
		Budget: []BudgetBracket{
			{MinRatio: 1.5, Points: 0, Rationale: "Well above 75th percentile - premium offer"},
			{MinRatio: 1.2, Points: 5, Rationale: "Above 75th percentile - highly competitive"},
			{MinRatio: 1.0, Points: 12, Rationale: "At or above median - competitive"},
			{MinRatio: 0.85, Points: 20, Rationale: "Slightly below median - may limit pool"},
			{MinRatio: 0.7, Points: 28, Rationale: "Below market - significant constraint"},
		},
		BudgetFloor:         35,
		BudgetUnknown:       14,
		Languages:           []int{0, 5, 12, 20},
		CertificationSingle: 4,
		CertificationPair:   8,
		CertificationExtra:  3,
		SeasonalScale:       50,
		DefaultScarcity:     5,
		DemandRapid:         7,
		DemandRapidChange:   0.15,
		DemandGrowing:       4,
		DemandGrowingChange: 0.08,
		DemandModest:        2,
		DemandDeclining:     -3,
		Divisor:             130,
	}
}

// ValidateWeights reports every inconsistency found in w.
func ValidateWeights(w Weights) error {
	var errs []string

	if w.Divisor <= 0 {
		errs = append(errs, "divisor must be positive")
	}
	if len(w.Budget) == 0 {
		errs = append(errs, "at least one budget bracket is required")
	}
	if !sort.SliceIsSorted(w.Budget, func(i, j int) bool { return w.Budget[i].MinRatio > w.Budget[j].MinRatio }) {
		errs = append(errs, "budget brackets must be ordered by descending ratio")
	}
	if len(w.Languages) == 0 || w.Languages[0] != 0 {
		errs = append(errs, "languages must start with 0 points for no languages")
	}
	for i := 1; i < len(w.Languages); i++ {
		if w.Languages[i] < w.Languages[i-1] {
			errs = append(errs, "language points must not decrease with count")
			break
		}
	}
	if w.DemandRapidChange < w.DemandGrowingChange {
		errs = append(errs, "rapid demand threshold must be at least the growing threshold")
	}
	if w.DefaultScarcity < 0 || w.DefaultScarcity > 10 {
		errs = append(errs, "default scarcity must be within [0,10]")
	}

	if len(errs) > 0 {
		return eris.Errorf("invalid scoring weights: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (w Weights) languagePoints(count int) int {
	if count <= 0 || len(w.Languages) == 0 {
		return 0
	}
	if count >= len(w.Languages) {
		return w.Languages[len(w.Languages)-1]
	}
	return w.Languages[count]
}

func (w Weights) certificationPoints(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return w.CertificationSingle
	default:
		return w.CertificationPair + (count-2)*w.CertificationExtra
	}
}
