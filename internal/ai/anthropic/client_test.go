package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/search-calculator/internal/ai"
)

func messageServer(t *testing.T, content []map[string]any, captured *map[string]any) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/messages")
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":          "msg_test_001",
			"type":        "message",
			"role":        "assistant",
			"content":     content,
			"model":       defaultModel,
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestGenerateContent(t *testing.T) {
	var body map[string]any
	ts := messageServer(t, []map[string]any{
		{"type": "text", "text": " {\"bottomLine\": "},
		{"type": "text", "text": "\"ok\"} "},
	}, &body)

	g, err := NewGenerator("test-key", "", WithTemperature(0.3), WithMaxTokens(1200),
		WithRequestOptions(option.WithBaseURL(ts.URL), option.WithMaxRetries(0)))
	require.NoError(t, err)
	assert.Equal(t, defaultModel, g.Model())

	out, err := g.GenerateContent(context.Background(), "household strategist", "analyze this search")
	require.NoError(t, err)
	assert.Equal(t, "{\"bottomLine\":\n\"ok\"}", out)

	assert.Equal(t, defaultModel, body["model"])
	assert.EqualValues(t, 1200, body["max_tokens"])
	assert.InDelta(t, 0.3, body["temperature"], 1e-9)

	system, ok := body["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	assert.Equal(t, "household strategist", system[0].(map[string]any)["text"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestGenerateContentEmpty(t *testing.T) {
	ts := messageServer(t, []map[string]any{{"type": "text", "text": "   "}}, nil)

	g, err := NewGenerator("test-key", "claude-test", WithRequestOptions(option.WithBaseURL(ts.URL), option.WithMaxRetries(0)))
	require.NoError(t, err)

	_, err = g.GenerateContent(context.Background(), "", "prompt")
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
}

func TestGenerateContentUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)) //nolint:errcheck
	}))
	defer ts.Close()

	g, err := NewGenerator("test-key", "", WithRequestOptions(option.WithBaseURL(ts.URL), option.WithMaxRetries(0)))
	require.NoError(t, err)

	_, err = g.GenerateContent(context.Background(), "", "prompt")
	assert.ErrorContains(t, err, "anthropic: create message")
}

func TestNewGeneratorValidation(t *testing.T) {
	_, err := NewGenerator(" ", "")
	assert.ErrorContains(t, err, "api key is required")

	g, err := NewGenerator("k", "")
	require.NoError(t, err)
	_, err = g.GenerateContent(context.Background(), "", "  ")
	assert.ErrorContains(t, err, "prompt must not be empty")
}
