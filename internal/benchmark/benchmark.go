package benchmark

import (
	"os"
	"sort"
	"strings"

	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// CorporatePrefix marks family-office categories that use the corporate budget scale.
const CorporatePrefix = "Family Office -"

//go:embed benchmarks.yaml
var embedded []byte

// Record is the market data for a single role.
type Record struct {
	Category              string                 `yaml:"category" json:"category"`
	P25                   float64                `yaml:"p25" json:"p25"`
	P50                   float64                `yaml:"p50" json:"p50"`
	P75                   float64                `yaml:"p75" json:"p75"`
	Scarcity              float64                `yaml:"scarcity" json:"scarcity"`
	DemandTrend           *DemandTrend           `yaml:"demand_trend,omitempty" json:"demandTrend,omitempty"`
	Turnover              *Turnover              `yaml:"turnover,omitempty" json:"turnover,omitempty"`
	RetentionRisk         *RetentionRisk         `yaml:"retention_risk,omitempty" json:"retentionRisk,omitempty"`
	CounterOfferRate      float64                `yaml:"counter_offer_rate,omitempty" json:"counterOfferRate,omitempty"`
	CompensationStructure *CompensationStructure `yaml:"compensation_structure,omitempty" json:"compensationStructure,omitempty"`
	TimeToFillWeeks       int                    `yaml:"time_to_fill_weeks,omitempty" json:"timeToFillWeeks,omitempty"`
	CandidatePoolSize     string                 `yaml:"candidate_pool_size,omitempty" json:"candidatePoolSize,omitempty"`
	Trends                string                 `yaml:"trends,omitempty" json:"trends,omitempty"`
}

type DemandTrend struct {
	Direction string  `yaml:"direction" json:"direction"`
	YoYChange float64 `yaml:"yoy_change" json:"yoyChange"`
}

type Turnover struct {
	AnnualTurnover float64 `yaml:"annual_turnover" json:"annualTurnover"`
	AvgTenure      float64 `yaml:"avg_tenure" json:"avgTenure"`
}

type RetentionRisk struct {
	FirstYearAttrition float64  `yaml:"first_year_attrition" json:"firstYearAttrition"`
	TopReasons         []string `yaml:"top_reasons" json:"topReasons"`
}

type CompensationStructure struct {
	Base     float64 `yaml:"base" json:"base"`
	Bonus    float64 `yaml:"bonus" json:"bonus"`
	Benefits float64 `yaml:"benefits" json:"benefits"`
}

// IsCorporate reports whether the role belongs to a family-office category.
func (r *Record) IsCorporate() bool {
	return r != nil && strings.HasPrefix(r.Category, CorporatePrefix)
}

// Table is an immutable role -> record lookup.
type Table struct {
	records map[string]*Record
	names   []string
}

type file struct {
	Roles map[string]*Record `yaml:"roles"`
}

// Default returns the table compiled into the binary.
func Default() (*Table, error) {
	return Parse(embedded)
}

// Load reads a benchmark table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reading benchmarks file %q", path)
	}

	table, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "benchmarks file %q", path)
	}

	return table, nil
}

// Parse decodes and validates a YAML benchmark document.
func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "decoding benchmarks")
	}

	if len(f.Roles) == 0 {
		return nil, eris.New("benchmarks contain no roles")
	}

	return New(f.Roles)
}

// New builds a table from records after validating them.
func New(records map[string]*Record) (*Table, error) {
	t := &Table{
		records: make(map[string]*Record, len(records)),
		names:   make([]string, 0, len(records)),
	}

	for name, rec := range records {
		if err := validate(name, rec); err != nil {
			return nil, err
		}
		t.records[name] = rec
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)

	return t, nil
}

func validate(name string, r *Record) error {
	if strings.TrimSpace(name) == "" {
		return eris.New("role name must not be empty")
	}
	if r == nil {
		return eris.Errorf("role %q: record is empty", name)
	}
	if r.P25 <= 0 || r.P50 <= 0 || r.P75 <= 0 {
		return eris.Errorf("role %q: salary percentiles must be positive", name)
	}
	if r.P25 > r.P50 || r.P50 > r.P75 {
		return eris.Errorf("role %q: percentiles must satisfy p25 <= p50 <= p75", name)
	}
	if r.Scarcity < 0 || r.Scarcity > 10 {
		return eris.Errorf("role %q: scarcity %v is out of range [0,10]", name, r.Scarcity)
	}
	return nil
}

// Lookup returns the record for an exact, case-sensitive role name.
func (t *Table) Lookup(role string) (*Record, bool) {
	if t == nil {
		return nil, false
	}
	rec, ok := t.records[role]
	return rec, ok
}

// Names returns role names in alphabetical order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}
