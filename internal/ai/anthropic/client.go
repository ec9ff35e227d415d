package anthropic

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/spigell/search-calculator/internal/ai"
)

const (
	defaultModel       = "claude-sonnet-4-20250514"
	defaultMaxTokens   = 2500
	defaultTemperature = 0.4
)

// Generator sends system-instructed prompts to the Anthropic Messages API.
type Generator struct {
	client      sdk.Client
	modelName   string
	maxTokens   int64
	temperature float64
	requestOpts []option.RequestOption
}

var _ ai.Generator = (*Generator)(nil)

type Option func(*Generator)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *Generator) { g.temperature = t }
}

// WithMaxTokens caps the response length.
func WithMaxTokens(n int64) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithRequestOptions passes extra SDK options, such as a base URL, to the client.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(g *Generator) { g.requestOpts = append(g.requestOpts, opts...) }
}

// NewGenerator creates a Generator backed by the official SDK.
func NewGenerator(apiKey, model string, opts ...Option) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, eris.New("anthropic api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	g := &Generator{
		modelName:   model,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.client = sdk.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, g.requestOpts...)...)
	return g, nil
}

// GenerateContent sends a single user message and returns the joined text blocks of the reply.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	if g == nil {
		return "", eris.New("anthropic generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", eris.New("prompt must not be empty")
	}

	params := sdk.MessageNewParams{
		Model:       sdk.Model(g.modelName),
		MaxTokens:   g.maxTokens,
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
		Temperature: sdk.Float(g.temperature),
	}
	if system = strings.TrimSpace(system); system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}

	var builder strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
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
