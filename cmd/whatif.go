package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/spigell/search-calculator/internal/engine"
	"github.com/spigell/search-calculator/internal/report"
)

const (
	PromptTimeline       = "Change timeline"
	PromptBudgetRange    = "Change budget range"
	PromptBudgetAmount   = "Change exact budget"
	PromptTravel         = "Change travel"
	PromptDiscretion     = "Change discretion"
	PromptLanguages      = "Change languages"
	PromptCertifications = "Change certifications"
	PromptReset          = "Reset to committed search"
	PromptDone           = "Done"
)

var errDone = errors.New("what-if session finished")

var (
	whatIfRequest     requestFlags
	whatIfOutput      string
	whatIfInteractive bool
	whatIfOverrides   overrideFlags
)

// overrideFlags are the --set-* flags; only the ones set by the user apply.
type overrideFlags struct {
	timeline       string
	budgetRange    string
	budget         float64
	travel         string
	discretion     string
	languages      []string
	certifications []string
}

var whatIfCmd = &cobra.Command{
	Use:   "whatif",
	Short: "Project how changing some inputs would move the score",
	Example: `  search-calculator whatif --role "Butler" -l "Dallas, TX" -t immediate --set-timeline flexible
  search-calculator whatif --request search.yaml --interactive`,
	Args: cobra.NoArgs,
	RunE: runWhatIf,
}

func init() {
	rootCmd.AddCommand(whatIfCmd)

	whatIfRequest.register(whatIfCmd)

	fs := whatIfCmd.Flags()
	fs.StringVar(&whatIfOverrides.timeline, "set-timeline", "", "projected timeline")
	fs.StringVar(&whatIfOverrides.budgetRange, "set-budget-range", "", "projected named budget range")
	fs.Float64Var(&whatIfOverrides.budget, "set-budget", 0, "projected exact budget")
	fs.StringVar(&whatIfOverrides.travel, "set-travel", "", "projected travel requirement")
	fs.StringVar(&whatIfOverrides.discretion, "set-discretion", "", "projected discretion level")
	fs.StringSliceVar(&whatIfOverrides.languages, "set-languages", nil, "projected languages; pass \"\" to clear")
	fs.StringSliceVar(&whatIfOverrides.certifications, "set-certifications", nil, "projected certifications; pass \"\" to clear")
	fs.BoolVarP(&whatIfInteractive, "interactive", "i", false, "adjust the inputs in an interactive loop")
	fs.StringVarP(&whatIfOutput, "output", "o", outputText, "output format: text or json")
}

func (o overrideFlags) overrides(cmd *cobra.Command) (engine.Overrides, error) {
	var ov engine.Overrides
	fs := cmd.Flags()

	if fs.Changed("set-timeline") {
		t := engine.Timeline(o.timeline)
		if _, ok := t.Choice(); !ok {
			return ov, eris.Errorf("unknown timeline %q", o.timeline)
		}
		ov.Timeline = &t
	}
	if fs.Changed("set-budget-range") {
		if _, ok := engine.FindBudgetRange(o.budgetRange, engine.ScaleHousehold); !ok {
			return ov, eris.Errorf("unknown budget range %q", o.budgetRange)
		}
		r := o.budgetRange
		ov.BudgetRange = &r
	}
	if fs.Changed("set-budget") {
		if o.budget <= 0 {
			return ov, eris.New("budget must be positive")
		}
		b := o.budget
		ov.BudgetAmount = &b
	}
	if fs.Changed("set-travel") {
		t := engine.Travel(o.travel)
		if _, ok := t.Choice(); !ok {
			return ov, eris.Errorf("unknown travel %q", o.travel)
		}
		ov.Travel = &t
	}
	if fs.Changed("set-discretion") {
		d := engine.Discretion(o.discretion)
		if _, ok := d.Choice(); !ok {
			return ov, eris.Errorf("unknown discretion %q", o.discretion)
		}
		ov.Discretion = &d
	}
	if fs.Changed("set-languages") {
		ov.Languages = nonEmpty(o.languages)
	}
	if fs.Changed("set-certifications") {
		ov.Certifications = nonEmpty(o.certifications)
	}

	return ov, nil
}

// nonEmpty drops blank items but never returns nil, so an empty override
// still clears the request's list.
func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func runWhatIf(cmd *cobra.Command, _ []string) error {
	if err := checkOutput(whatIfOutput); err != nil {
		return err
	}

	req, err := whatIfRequest.request(cmd)
	if err != nil {
		return err
	}

	ov, err := whatIfOverrides.overrides(cmd)
	if err != nil {
		return err
	}

	svc, err := newServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.logger.Sync()

	committed := svc.engine.Score(req, nil)
	w := cmd.OutOrStdout()

	if whatIfInteractive {
		return interactiveWhatIf(w, svc.engine, req, committed, ov)
	}

	p := svc.engine.WhatIf(req, committed, ov)
	if whatIfOutput == outputJSON {
		return writeJSON(w, whatIfResult{Committed: committed, Overrides: ov, Projection: p})
	}
	return report.RenderProjection(w, committed, p)
}

type whatIfResult struct {
	Committed  engine.ScoreResult `json:"committed"`
	Overrides  engine.Overrides   `json:"overrides"`
	Projection engine.Projection  `json:"projection"`
}

// interactiveWhatIf lets the user change one input at a time and prints the
// projection after every change. The committed search is never modified.
func interactiveWhatIf(w io.Writer, eng *engine.Engine, req engine.JobRequest, committed engine.ScoreResult, ov engine.Overrides) error {
	menu := promptui.Select{
		Label: "What would you like to change?",
		Items: []string{
			PromptTimeline, PromptBudgetRange, PromptBudgetAmount, PromptTravel,
			PromptDiscretion, PromptLanguages, PromptCertifications, PromptReset, PromptDone,
		},
		Size: 9,
	}

	for {
		if err := report.RenderProjection(w, committed, eng.WhatIf(req, committed, ov)); err != nil {
			return err
		}

		_, action, err := menu.Run()
		if err != nil {
			return eris.Wrap(err, "prompt")
		}

		if err := applyAction(action, committed, &ov); err != nil {
			if errors.Is(err, errDone) {
				return nil
			}
			return err
		}
	}
}

func applyAction(action string, committed engine.ScoreResult, ov *engine.Overrides) error {
	switch action {
	case PromptTimeline:
		v, err := selectChoice("Timeline", engine.TimelineChoices())
		if err != nil {
			return err
		}
		t := engine.Timeline(v)
		ov.Timeline = &t
	case PromptBudgetRange:
		scale := engine.ScaleHousehold
		if committed.Benchmark.IsCorporate() {
			scale = engine.ScaleCorporate
		}
		ranges := engine.BudgetRanges(scale)
		choices := make([]engine.Choice, 0, len(ranges))
		for _, r := range ranges {
			choices = append(choices, engine.Choice{Value: r.Value, Label: r.Label})
		}
		v, err := selectChoice("Budget range", choices)
		if err != nil {
			return err
		}
		ov.BudgetRange = &v
		ov.BudgetAmount = nil
	case PromptBudgetAmount:
		v, err := promptText("Annual budget in dollars", validateAmount)
		if err != nil {
			return err
		}
		amount, _ := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		ov.BudgetAmount = &amount
	case PromptTravel:
		v, err := selectChoice("Travel", engine.TravelChoices())
		if err != nil {
			return err
		}
		t := engine.Travel(v)
		ov.Travel = &t
	case PromptDiscretion:
		v, err := selectChoice("Discretion", engine.DiscretionChoices())
		if err != nil {
			return err
		}
		d := engine.Discretion(v)
		ov.Discretion = &d
	case PromptLanguages:
		v, err := promptText("Languages, comma separated (empty clears)", nil)
		if err != nil {
			return err
		}
		ov.Languages = nonEmpty(strings.Split(v, ","))
	case PromptCertifications:
		v, err := promptText("Certifications, comma separated (empty clears)", nil)
		if err != nil {
			return err
		}
		ov.Certifications = nonEmpty(strings.Split(v, ","))
	case PromptReset:
		*ov = engine.Overrides{}
	case PromptDone:
		return errDone
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
	return nil
}

func selectChoice(label string, choices []engine.Choice) (string, error) {
	items := make([]string, 0, len(choices))
	for _, c := range choices {
		items = append(items, c.Label)
	}

	prompt := promptui.Select{Label: label, Items: items, Size: len(items)}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", eris.Wrap(err, "prompt")
	}
	return choices[idx].Value, nil
}

func promptText(label string, check promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{Label: label, Validate: check}
	v, err := prompt.Run()
	if err != nil {
		return "", eris.Wrap(err, "prompt")
	}
	return strings.TrimSpace(v), nil
}

func validateAmount(input string) error {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(input), ",", ""), 64)
	if err != nil || v <= 0 {
		return errors.New("enter a positive number")
	}
	return nil
}
