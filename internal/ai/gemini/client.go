package gemini

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"

	"github.com/spigell/search-calculator/internal/ai"
)

const (
	defaultModel       = "gemini-2.5-pro"
	defaultTemperature = 0.4
	defaultMaxTokens   = 4096
)

// models is the part of the GenAI client the generator needs.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client to provide system-instructed prompts.
type Generator struct {
	models      models
	modelName   string
	temperature float32
	maxTokens   int32
}

var _ ai.Generator = (*Generator)(nil)

type Option func(*Generator)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(g *Generator) { g.temperature = t }
}

// WithMaxTokens caps the response length.
func WithMaxTokens(n int32) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, opts ...Option) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, eris.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, eris.Wrap(err, "create genai client")
	}

	return newGenerator(client.Models, model, opts...), nil
}

func newGenerator(m models, model string, opts ...Option) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	g := &Generator{
		models:      m,
		modelName:   model,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateContent sends the prompt to Gemini with system as the system
// instruction and returns the joined textual parts of the response.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", eris.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", eris.New("prompt must not be empty")
	}

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: g.maxTokens,
	}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", eris.Wrap(err, "generate content")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ai.ErrEmptyResponse
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
