package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/spigell/search-calculator/internal/ai"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig

	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{nil, {Content: content}}}
}

func TestGenerateContentJoinsParts(t *testing.T) {
	fake := &fakeModels{resp: textResponse(" {\"a\": ", "", "1} ")}
	g := newGenerator(fake, "", WithTemperature(0.2), WithMaxTokens(100))

	out, err := g.GenerateContent(context.Background(), "be brief", "  analyze  ")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":\n1}", out)

	assert.Equal(t, defaultModel, fake.model)
	assert.Equal(t, defaultModel, g.Model())
	require.Len(t, fake.contents, 1)
	assert.Equal(t, "analyze", fake.contents[0].Parts[0].Text)

	require.NotNil(t, fake.config)
	require.NotNil(t, fake.config.SystemInstruction)
	assert.Equal(t, "be brief", fake.config.SystemInstruction.Parts[0].Text)
	require.NotNil(t, fake.config.Temperature)
	assert.InDelta(t, 0.2, *fake.config.Temperature, 1e-6)
	assert.Equal(t, int32(100), fake.config.MaxOutputTokens)
}

func TestGenerateContentWithoutSystem(t *testing.T) {
	fake := &fakeModels{resp: textResponse("ok")}
	g := newGenerator(fake, "gemini-2.5-flash")

	_, err := g.GenerateContent(context.Background(), " ", "prompt")
	require.NoError(t, err)
	assert.Nil(t, fake.config.SystemInstruction)
	assert.Equal(t, "gemini-2.5-flash", fake.model)
}

func TestGenerateContentErrors(t *testing.T) {
	_, err := newGenerator(&fakeModels{}, "").GenerateContent(context.Background(), "", "   ")
	assert.ErrorContains(t, err, "prompt must not be empty")

	upstream := errors.New("quota exceeded")
	_, err = newGenerator(&fakeModels{err: upstream}, "").GenerateContent(context.Background(), "", "prompt")
	assert.ErrorIs(t, err, upstream)

	_, err = newGenerator(&fakeModels{resp: textResponse("  ")}, "").GenerateContent(context.Background(), "", "prompt")
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)

	var nilGen *Generator
	_, err = nilGen.GenerateContent(context.Background(), "", "prompt")
	assert.Error(t, err)
	assert.Empty(t, nilGen.Model())
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	_, err := NewGenerator(context.Background(), "  ", "")
	assert.ErrorContains(t, err, "api key is required")
}
