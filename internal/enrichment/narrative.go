package enrichment

import (
	"encoding/json"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/rotisserie/eris"
)

// ErrIncomplete is returned when the model's answer lacks the fields a
// report cannot do without.
var ErrIncomplete = eris.New("incomplete narrative: salaryRangeGuidance and bottomLine are required")

// Narrative is the qualitative analysis attached to a report. It is either
// produced by a language model or filled from deterministic fallbacks.
type Narrative struct {
	SalaryRangeGuidance    string                `json:"salaryRangeGuidance"`
	EstimatedTimeline      string                `json:"estimatedTimeline"`
	MarketCompetitiveness  string                `json:"marketCompetitiveness"`
	KeySuccessFactors      []string              `json:"keySuccessFactors"`
	RecommendedAdjustments []string              `json:"recommendedAdjustments"`
	CandidateAvailability  string                `json:"candidateAvailability"`
	AvailabilityReason     string                `json:"availabilityReason"`
	SourcingInsight        string                `json:"sourcingInsight"`
	NegotiationLeverage    NegotiationLeverage   `json:"negotiationLeverage"`
	RedFlagAnalysis        string                `json:"redFlagAnalysis,omitempty"`
	BottomLine             string                `json:"bottomLine"`
	DecisionIntelligence   *DecisionIntelligence `json:"decisionIntelligence,omitempty"`
	WhatsNext              *WhatsNext            `json:"whatsNext,omitempty"`
}

// Clone returns a copy of n that shares no slices or pointers with it.
func (n *Narrative) Clone() *Narrative {
	if n == nil {
		return nil
	}
	out := *n
	out.KeySuccessFactors = slices.Clone(n.KeySuccessFactors)
	out.RecommendedAdjustments = slices.Clone(n.RecommendedAdjustments)
	out.NegotiationLeverage.CandidateAdvantages = slices.Clone(n.NegotiationLeverage.CandidateAdvantages)
	out.NegotiationLeverage.EmployerAdvantages = slices.Clone(n.NegotiationLeverage.EmployerAdvantages)
	if n.DecisionIntelligence != nil {
		di := *n.DecisionIntelligence
		di.TradeoffScenarios.Initial = slices.Clone(di.TradeoffScenarios.Initial)
		di.CandidatePsychology.Initial = slices.Clone(di.CandidatePsychology.Initial)
		di.FalseSignals.Initial = slices.Clone(di.FalseSignals.Initial)
		out.DecisionIntelligence = &di
	}
	if n.WhatsNext != nil {
		wn := *n.WhatsNext
		out.WhatsNext = &wn
	}
	return &out
}

type NegotiationLeverage struct {
	CandidateAdvantages []string `json:"candidateAdvantages"`
	EmployerAdvantages  []string `json:"employerAdvantages"`
}

// Teaser pairs the free insight with a description of the paid follow-up.
type Teaser struct {
	Initial        []string `json:"initial"`
	CompleteTeaser string   `json:"completeTeaser"`
}

type DecisionIntelligence struct {
	TradeoffScenarios    Teaser               `json:"tradeoffScenarios"`
	CandidatePsychology  Teaser               `json:"candidatePsychology"`
	ProbabilityOfSuccess ProbabilityOfSuccess `json:"probabilityOfSuccess"`
	MandateStrength      MandateStrength      `json:"mandateStrength"`
	FalseSignals         Teaser               `json:"falseSignals"`
}

type ProbabilityOfSuccess struct {
	InitialLabel      string `json:"initialLabel"`
	InitialConfidence string `json:"initialConfidence"`
	CompleteTeaser    string `json:"completeTeaser"`
}

type MandateStrength struct {
	Initial struct {
		Score     float64 `json:"score"`
		Rationale string  `json:"rationale"`
	} `json:"initial"`
	CompleteTeaser string `json:"completeTeaser"`
}

type WhatsNext struct {
	Intro            string `json:"intro"`
	DiscoveryCall    string `json:"discoveryCall"`
	SourcingStrategy string `json:"sourcingStrategy"`
	Shortlist        string `json:"shortlist"`
	PlacementSupport string `json:"placementSupport"`
}

var (
	openingFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	closingFence  = regexp.MustCompile("\\s*```$")
	parenthetical = regexp.MustCompile(`\s*\(.*?\)\s*`)
	nonLetters    = regexp.MustCompile(`[^a-zA-Z]`)
)

// ExtractJSON strips code fences and any prose around the outermost object.
func ExtractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	text = openingFence.ReplaceAllString(text, "")
	text = strings.TrimSpace(closingFence.ReplaceAllString(text, ""))

	if !strings.HasPrefix(text, "{") {
		if i := strings.Index(text, "{"); i != -1 {
			text = text[i:]
		}
	}
	if !strings.HasSuffix(text, "}") {
		if i := strings.LastIndex(text, "}"); i != -1 {
			text = text[:i+1]
		}
	}
	return text
}

// ParseNarrative decodes a model answer into a Narrative. Field types are
// coerced where possible; the mandate score is clamped to [1,10] and the
// probability label is reduced to a single word.
func ParseNarrative(raw string) (*Narrative, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &data); err != nil {
		return nil, eris.Wrap(err, "parse narrative json")
	}

	normalizeMandateScore(data)

	var n Narrative
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &n,
	})
	if err != nil {
		return nil, eris.Wrap(err, "create narrative decoder")
	}
	if err := dec.Decode(data); err != nil {
		return nil, eris.Wrap(err, "decode narrative")
	}

	if strings.TrimSpace(n.SalaryRangeGuidance) == "" || strings.TrimSpace(n.BottomLine) == "" {
		return nil, ErrIncomplete
	}

	if di := n.DecisionIntelligence; di != nil && di.ProbabilityOfSuccess.InitialLabel != "" {
		label := parenthetical.ReplaceAllString(di.ProbabilityOfSuccess.InitialLabel, "")
		di.ProbabilityOfSuccess.InitialLabel = strings.TrimSpace(nonLetters.ReplaceAllString(label, ""))
	}

	return &n, nil
}

func normalizeMandateScore(data map[string]any) {
	di, _ := data["decisionIntelligence"].(map[string]any)
	ms, _ := di["mandateStrength"].(map[string]any)
	initial, _ := ms["initial"].(map[string]any)
	if initial == nil {
		return
	}

	var score float64
	switch v := initial["score"].(type) {
	case float64:
		score = v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			delete(initial, "score")
			return
		}
		score = f
	default:
		delete(initial, "score")
		return
	}
	initial["score"] = min(10, max(1, score))
}
