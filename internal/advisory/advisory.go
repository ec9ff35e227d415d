package advisory

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/spigell/search-calculator/internal/engine"
)

// Severity orders warnings for display.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Warning is a pre-submission advisory attached to a report.
type Warning struct {
	Type       Severity `json:"type"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
}

// Subject is what the checks inspect: the request as entered and the
// result the engine computed for it.
type Subject struct {
	Request engine.JobRequest
	Result  engine.ScoreResult
}

// Check represents a single advisory step.
type Check interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, s Subject) ([]Warning, error)
}

// Deps aggregates dependencies shared across all checks.
type Deps struct {
	Logger *zap.Logger
}

// Config contains settings consumed by the checks.
type Config struct {
	Disabled []string `mapstructure:"disabled"`
	// BelowMarketRatio is the share of the adjusted 25th percentile under
	// which a budget is flagged as critical.
	BelowMarketRatio float64 `mapstructure:"below-market-ratio"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() *Config {
	return &Config{BelowMarketRatio: 0.85}
}

// Status represents runtime information about a check.
type Status struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
}

// DisableByName marks a check with the provided name as disabled while keeping it in the list.
func DisableByName(checks []Check, name, reason string) {
	for _, c := range checks {
		if c.Name() == name {
			c.Disable(reason)
		}
	}
}

// Defaults returns the standard check list with cfg.Disabled applied.
func Defaults(cfg *Config) []Check {
	checks := []Check{
		NewBelowMarket(),
		NewUltraHighMarket(),
		NewChiefOfStaffBudget(),
		NewLanguageTimeline(),
		NewHolidayTimeline(),
	}
	if cfg != nil {
		for _, name := range cfg.Disabled {
			DisableByName(checks, name, "disabled in config")
		}
	}
	return checks
}

// Run executes the supplied checks sequentially and collects their warnings in order.
func Run(ctx context.Context, cfg *Config, deps Deps, checks []Check, s Subject) ([]Warning, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for _, c := range checks {
		if !c.IsEnabled() {
			continue
		}
		if err := c.Validate(cfg); err != nil {
			return nil, eris.Wrap(err, c.Name())
		}
	}

	var warnings []Warning
	for _, c := range checks {
		if !c.IsEnabled() {
			log.Debug("advisory check disabled", zap.String("name", c.Name()))
			continue
		}

		found, err := c.Apply(ctx, deps, s)
		if err != nil {
			return nil, eris.Wrap(err, c.Name())
		}

		log.Debug("advisory check",
			zap.String("name", c.Name()),
			zap.Int("warnings", len(found)),
		)
		warnings = append(warnings, found...)
	}

	return warnings, nil
}

// Describe returns status entries for the provided checks.
func Describe(checks []Check) []Status {
	statuses := make([]Status, 0, len(checks))
	for _, c := range checks {
		if reporter, ok := c.(interface{ Status() Status }); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}
		statuses = append(statuses, Status{Name: c.Name(), Enabled: c.IsEnabled()})
	}
	return statuses
}

// HasCritical reports whether any warning should block a submission.
func HasCritical(warnings []Warning) bool {
	for _, w := range warnings {
		if w.Type == SeverityCritical {
			return true
		}
	}
	return false
}

// toggle carries the enable/disable state shared by all checks.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func (t *toggle) status(name string) Status {
	return Status{Name: name, Enabled: !t.disabled, Reason: t.reason}
}

func thousands(v float64) string {
	return fmt.Sprintf("$%dk", int(v/1000+0.5))
}
