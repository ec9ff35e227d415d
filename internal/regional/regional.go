package regional

import (
	"os"
	"strings"

	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Cost tiers used by the scoring engine.
const (
	TierStandard  = "standard"
	TierHigh      = "high"
	TierUltraHigh = "ultra-high"
)

//go:embed regions.yaml
var embedded []byte

// Adjustment is a regional salary multiplier.
type Adjustment struct {
	Key        string   `yaml:"key" json:"region"`
	Multiplier float64  `yaml:"multiplier" json:"multiplier"`
	Label      string   `yaml:"label" json:"label"`
	Tier       string   `yaml:"tier" json:"tier"`
	Aliases    []string `yaml:"aliases,omitempty" json:"-"`
}

// Table resolves free-text locations against an ordered list of regions.
type Table struct {
	regions []Adjustment
}

type file struct {
	Regions []Adjustment `yaml:"regions"`
}

// Default returns the table compiled into the binary.
func Default() (*Table, error) {
	return Parse(embedded)
}

// Load reads a region table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reading regions file %q", path)
	}

	table, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "regions file %q", path)
	}

	return table, nil
}

func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "decoding regions")
	}

	return New(f.Regions)
}

// New builds a table, keeping the given order.
func New(regions []Adjustment) (*Table, error) {
	if len(regions) == 0 {
		return nil, eris.New("region table is empty")
	}

	seen := make(map[string]struct{}, len(regions))
	out := make([]Adjustment, 0, len(regions))
	for _, r := range regions {
		key := strings.TrimSpace(r.Key)
		if key == "" {
			return nil, eris.New("region key must not be empty")
		}
		if _, dup := seen[strings.ToLower(key)]; dup {
			return nil, eris.Errorf("duplicate region %q", key)
		}
		if r.Multiplier <= 0 {
			return nil, eris.Errorf("region %q: multiplier must be positive", key)
		}
		seen[strings.ToLower(key)] = struct{}{}

		r.Key = key
		r.Aliases = append([]string(nil), r.Aliases...)
		out = append(out, r)
	}

	return &Table{regions: out}, nil
}

// Resolve finds the first region whose key is contained in location,
// ignoring case. Aliases are only consulted when no key matches.
func (t *Table) Resolve(location string) (Adjustment, bool) {
	if t == nil {
		return Adjustment{}, false
	}

	lower := strings.ToLower(location)
	if strings.TrimSpace(lower) == "" {
		return Adjustment{}, false
	}

	for _, r := range t.regions {
		if strings.Contains(lower, strings.ToLower(r.Key)) {
			return r, true
		}
	}

	for _, r := range t.regions {
		for _, alias := range r.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias != "" && strings.Contains(lower, alias) {
				return r, true
			}
		}
	}

	return Adjustment{}, false
}

// Regions returns a copy of the table in resolution order.
func (t *Table) Regions() []Adjustment {
	if t == nil {
		return nil
	}
	out := make([]Adjustment, len(t.regions))
	copy(out, t.regions)
	return out
}
