package ai

import (
	"context"

	"github.com/rotisserie/eris"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// ErrEmptyResponse is returned by generators when the model produced no text.
var ErrEmptyResponse = eris.New("ai provider returned empty response")

// Generator sends a system instruction and a prompt to a language model and
// returns its textual answer.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}
