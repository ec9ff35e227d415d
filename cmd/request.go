package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spigell/search-calculator/internal/engine"
	"github.com/spigell/search-calculator/internal/share"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var validate = validator.New()

// requestFlags describe a search on the command line. A request file or a
// share token provides the base; explicitly set flags override it.
type requestFlags struct {
	file  string
	token string

	role           string
	location       string
	timeline       string
	budgetRange    string
	budget         float64
	discretion     string
	travel         string
	languages      []string
	certifications []string
	requirements   string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.file, "request", "r", "", "YAML file describing the search")
	fs.StringVar(&f.token, "share", "", "rebuild the search from a share token")

	fs.StringVar(&f.role, "role", "", "role title, e.g. \"Estate Manager\"")
	fs.StringVarP(&f.location, "location", "l", "", "primary location, e.g. \"New York, NY\"")
	fs.StringVarP(&f.timeline, "timeline", "t", string(engine.TimelineStandard), "immediate, standard, flexible or building-pipeline")
	fs.StringVarP(&f.budgetRange, "budget-range", "b", "", "named budget range, e.g. 120k-180k")
	fs.Float64Var(&f.budget, "budget", 0, "exact annual budget in dollars, wins over --budget-range")
	fs.StringVar(&f.discretion, "discretion", string(engine.DiscretionStandard), "standard, elevated, high-profile or ultra-discrete")
	fs.StringVar(&f.travel, "travel", string(engine.TravelMinimal), "minimal, occasional, frequent or heavy-rotation")
	fs.StringSliceVar(&f.languages, "languages", nil, "required languages besides English")
	fs.StringSliceVar(&f.certifications, "certifications", nil, "required certifications")
	fs.StringVar(&f.requirements, "requirements", "", "free-text key requirements")
}

// shared reports whether the request comes from a share token.
func (f *requestFlags) shared() bool {
	return strings.TrimSpace(f.token) != ""
}

func (f *requestFlags) request(cmd *cobra.Command) (engine.JobRequest, error) {
	req, err := f.base()
	if err != nil {
		return req, err
	}

	fs := cmd.Flags()
	fromBase := f.shared() || f.file != ""
	set := func(name string) bool {
		return fs.Changed(name) || !fromBase
	}

	if set("role") {
		req.Role = strings.TrimSpace(f.role)
	}
	if set("location") {
		req.Location = strings.TrimSpace(f.location)
	}
	if set("timeline") {
		req.Timeline = engine.Timeline(f.timeline)
	}
	if set("budget-range") {
		req.Budget.Range = strings.TrimSpace(f.budgetRange)
	}
	if fs.Changed("budget") {
		amount := f.budget
		req.Budget.Amount = &amount
	}
	if set("discretion") {
		req.Discretion = engine.Discretion(f.discretion)
	}
	if set("travel") {
		req.Travel = engine.Travel(f.travel)
	}
	if set("languages") {
		req.Languages = f.languages
	}
	if set("certifications") {
		req.Certifications = f.certifications
	}
	if set("requirements") {
		req.KeyRequirements = f.requirements
	}

	return req, checkRequest(req)
}

func (f *requestFlags) base() (engine.JobRequest, error) {
	switch {
	case f.shared():
		return share.Decode(f.token)
	case f.file != "":
		return readRequestFile(f.file)
	default:
		return engine.JobRequest{}, nil
	}
}

func readRequestFile(path string) (engine.JobRequest, error) {
	var req engine.JobRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, eris.Wrapf(err, "reading request file %q", path)
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, eris.Wrapf(err, "parsing request file %q", path)
	}
	return req, nil
}

// checkRequest rejects requests the engine would silently misread.
func checkRequest(req engine.JobRequest) error {
	if err := validate.Struct(req); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return eris.Errorf("%s is required", strings.ToLower(fields[0].Field()))
		}
		return eris.Wrap(err, "validating request")
	}

	if _, ok := req.Timeline.Choice(); req.Timeline != "" && !ok {
		return eris.Errorf("unknown timeline %q", req.Timeline)
	}
	if _, ok := req.Discretion.Choice(); req.Discretion != "" && !ok {
		return eris.Errorf("unknown discretion %q", req.Discretion)
	}
	if _, ok := req.Travel.Choice(); req.Travel != "" && !ok {
		return eris.Errorf("unknown travel %q", req.Travel)
	}
	if req.Budget.Amount != nil && *req.Budget.Amount <= 0 {
		return eris.New("budget must be positive")
	}
	if r := req.Budget.Range; r != "" && req.Budget.Amount == nil {
		if _, ok := engine.FindBudgetRange(r, engine.ScaleHousehold); !ok {
			return eris.Errorf("unknown budget range %q", r)
		}
	}
	return nil
}

func checkOutput(format string) error {
	switch format {
	case outputText, outputJSON:
		return nil
	default:
		return eris.Errorf("unsupported output %q, use text or json", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encoding output")
}
