package share

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/rotisserie/eris"

	"github.com/spigell/search-calculator/internal/engine"
)

// DefaultKeyRequirements fills the free-text field of a shared request that carried none.
const DefaultKeyRequirements = "Shared analysis - see results below"

// ErrInvalidToken is returned for tokens that cannot be decoded into a request.
var ErrInvalidToken = eris.New("invalid share token")

type payload struct {
	Position        string   `json:"p" mapstructure:"p"`
	Location        string   `json:"l" mapstructure:"l"`
	Timeline        string   `json:"t,omitempty" mapstructure:"t"`
	BudgetRange     string   `json:"b,omitempty" mapstructure:"b"`
	BudgetAmount    *float64 `json:"ba,omitempty" mapstructure:"ba"`
	Discretion      string   `json:"d,omitempty" mapstructure:"d"`
	Languages       []string `json:"lr,omitempty" mapstructure:"lr"`
	Certifications  []string `json:"c,omitempty" mapstructure:"c"`
	Travel          string   `json:"tr,omitempty" mapstructure:"tr"`
	KeyRequirements string   `json:"kr,omitempty" mapstructure:"kr"`
}

// Encode packs the request into a URL-safe token.
func Encode(req engine.JobRequest) string {
	p := payload{
		Position:        req.Role,
		Location:        req.Location,
		Timeline:        string(req.Timeline),
		BudgetRange:     req.Budget.Range,
		BudgetAmount:    req.Budget.Amount,
		Discretion:      string(req.Discretion),
		Languages:       req.Languages,
		Certifications:  req.Certifications,
		Travel:          string(req.Travel),
		KeyRequirements: req.KeyRequirements,
	}

	// payload has only strings, slices and a float pointer
	raw, _ := json.Marshal(p)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode unpacks a token produced by Encode. Tokens in standard base64,
// with or without padding, are accepted too. Missing discretion, travel
// and key requirements fall back to their defaults.
func Decode(token string) (engine.JobRequest, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return engine.JobRequest{}, eris.Wrap(ErrInvalidToken, "empty token")
	}

	raw, err := decodeBase64(token)
	if err != nil {
		return engine.JobRequest{}, eris.Wrap(ErrInvalidToken, err.Error())
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return engine.JobRequest{}, eris.Wrap(ErrInvalidToken, "decode payload")
	}

	var p payload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return engine.JobRequest{}, eris.Wrap(err, "build decoder")
	}
	if err := decoder.Decode(fields); err != nil {
		return engine.JobRequest{}, eris.Wrap(ErrInvalidToken, err.Error())
	}

	if p.Position == "" {
		return engine.JobRequest{}, eris.Wrap(ErrInvalidToken, "missing position")
	}

	req := engine.JobRequest{
		Role:            p.Position,
		Location:        p.Location,
		Timeline:        engine.Timeline(p.Timeline),
		Budget:          engine.Budget{Range: p.BudgetRange, Amount: p.BudgetAmount},
		Discretion:      engine.Discretion(p.Discretion),
		Languages:       p.Languages,
		Certifications:  p.Certifications,
		Travel:          engine.Travel(p.Travel),
		KeyRequirements: p.KeyRequirements,
	}
	if req.Discretion == "" {
		req.Discretion = engine.DiscretionStandard
	}
	if req.Travel == "" {
		req.Travel = engine.TravelMinimal
	}
	if req.KeyRequirements == "" {
		req.KeyRequirements = DefaultKeyRequirements
	}

	return req, nil
}

func decodeBase64(token string) ([]byte, error) {
	// a '+' survives a query string only as a space
	token = strings.ReplaceAll(token, " ", "+")

	if strings.ContainsAny(token, "+/") {
		return base64.RawStdEncoding.DecodeString(strings.TrimRight(token, "="))
	}
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
}
