package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalAnswer = `{"salaryRangeGuidance": "$165k-$210k base", "bottomLine": "This is doable."}`

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "bare", input: ` {"a":1} `, expect: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", expect: `{"a":1}`},
		{name: "upper fence", input: "```JSON {\"a\":1}```", expect: `{"a":1}`},
		{name: "plain fence", input: "```\n{\"a\":1}\n```", expect: `{"a":1}`},
		{name: "preamble and trailer", input: "Here you go:\n{\"a\":{\"b\":2}}\nThanks!", expect: `{"a":{"b":2}}`},
		{name: "no object", input: "sorry", expect: "sorry"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, ExtractJSON(tc.input))
		})
	}
}

func TestParseNarrativeFull(t *testing.T) {
	raw := "```json\n" + `{
  "salaryRangeGuidance": "$165k-$210k base + 10% bonus",
  "estimatedTimeline": "10-14 weeks",
  "marketCompetitiveness": "Tight.",
  "keySuccessFactors": ["Speed", "Clarity"],
  "recommendedAdjustments": "Raise the base to $190k",
  "candidateAvailability": "Limited",
  "availabilityReason": "Small pool",
  "sourcingInsight": "Referrals",
  "negotiationLeverage": {"candidateAdvantages": ["Scarcity"], "employerAdvantages": ["Location"]},
  "redFlagAnalysis": "None - this search is well-positioned",
  "bottomLine": "This is doable.",
  "decisionIntelligence": {
    "tradeoffScenarios": {"initial": ["IF +$20k THEN pool doubles"], "completeTeaser": "More"},
    "probabilityOfSuccess": {"initialLabel": "Moderate (35-65%)", "initialConfidence": "55%"},
    "mandateStrength": {"initial": {"score": "12.5", "rationale": "Strong budget"}}
  },
  "whatsNext": {"intro": "Next steps"}
}` + "\n```"

	n, err := ParseNarrative(raw)
	require.NoError(t, err)

	assert.Equal(t, "$165k-$210k base + 10% bonus", n.SalaryRangeGuidance)
	assert.Equal(t, []string{"Speed", "Clarity"}, n.KeySuccessFactors)
	// a single string is accepted where a list is expected
	assert.Equal(t, []string{"Raise the base to $190k"}, n.RecommendedAdjustments)
	assert.Equal(t, []string{"Location"}, n.NegotiationLeverage.EmployerAdvantages)

	require.NotNil(t, n.DecisionIntelligence)
	assert.Equal(t, "Moderate", n.DecisionIntelligence.ProbabilityOfSuccess.InitialLabel)
	assert.Equal(t, 10.0, n.DecisionIntelligence.MandateStrength.Initial.Score)
	assert.Equal(t, "Strong budget", n.DecisionIntelligence.MandateStrength.Initial.Rationale)
	assert.Equal(t, []string{"IF +$20k THEN pool doubles"}, n.DecisionIntelligence.TradeoffScenarios.Initial)

	require.NotNil(t, n.WhatsNext)
	assert.Equal(t, "Next steps", n.WhatsNext.Intro)
}

func TestParseNarrativeMandateScore(t *testing.T) {
	cases := map[string]float64{
		`0.2`:    1,
		`7.5`:    7.5,
		`"4"`:    4,
		`"high"`: 0,
		`null`:   0,
	}
	for score, want := range cases {
		raw := `{"salaryRangeGuidance": "x", "bottomLine": "y", "decisionIntelligence": {"mandateStrength": {"initial": {"score": ` + score + `}}}}`
		n, err := ParseNarrative(raw)
		require.NoError(t, err, score)
		assert.Equal(t, want, n.DecisionIntelligence.MandateStrength.Initial.Score, score)
	}
}

func TestParseNarrativeMinimal(t *testing.T) {
	n, err := ParseNarrative(minimalAnswer)
	require.NoError(t, err)
	assert.Equal(t, "This is doable.", n.BottomLine)
	assert.Nil(t, n.DecisionIntelligence)
	assert.Nil(t, n.WhatsNext)
}

func TestParseNarrativeErrors(t *testing.T) {
	_, err := ParseNarrative("I cannot help with that")
	assert.ErrorContains(t, err, "parse narrative json")

	_, err = ParseNarrative(`{"salaryRangeGuidance": "$100k"}`)
	assert.ErrorIs(t, err, ErrIncomplete)

	_, err = ParseNarrative(`{"salaryRangeGuidance": " ", "bottomLine": "ok"}`)
	assert.ErrorIs(t, err, ErrIncomplete)

	_, err = ParseNarrative(`{"salaryRangeGuidance": "x", "bottomLine": "y", "negotiationLeverage": "none"}`)
	assert.ErrorContains(t, err, "decode narrative")
}

func TestNarrativeCloneIsIndependent(t *testing.T) {
	orig := &Narrative{
		BottomLine:        "Doable",
		KeySuccessFactors: []string{"Pay well"},
		NegotiationLeverage: NegotiationLeverage{
			CandidateAdvantages: []string{"Scarce"},
			EmployerAdvantages:  []string{"Estate"},
		},
		DecisionIntelligence: &DecisionIntelligence{
			TradeoffScenarios: Teaser{Initial: []string{"IF +$20k THEN pool doubles"}},
		},
		WhatsNext: &WhatsNext{Intro: "Next steps"},
	}

	cp := orig.Clone()
	require.Equal(t, orig, cp)

	cp.KeySuccessFactors[0] = "changed"
	cp.NegotiationLeverage.CandidateAdvantages[0] = "changed"
	cp.DecisionIntelligence.TradeoffScenarios.Initial[0] = "changed"
	cp.WhatsNext.Intro = "changed"

	assert.Equal(t, "Pay well", orig.KeySuccessFactors[0])
	assert.Equal(t, "Scarce", orig.NegotiationLeverage.CandidateAdvantages[0])
	assert.Equal(t, "IF +$20k THEN pool doubles", orig.DecisionIntelligence.TradeoffScenarios.Initial[0])
	assert.Equal(t, "Next steps", orig.WhatsNext.Intro)

	var empty *Narrative
	assert.Nil(t, empty.Clone())
}
