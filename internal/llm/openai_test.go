package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openAIChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "You are a test.", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.InDelta(t, 0.3, req.Temperature, 0.001)
		assert.Equal(t, 800, req.MaxTokens)

		json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-1",
			"model": "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": "hello back"},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
		})
	}))
	defer server.Close()

	p := NewOpenAI(&Config{Endpoint: server.URL, APIKey: "sk-test"})

	resp, err := p.Chat(context.Background(), &ChatRequest{
		SystemPrompt: "You are a test.",
		Messages:     []Message{{Role: "user", Content: "hello"}},
		Temperature:  0.3,
		MaxTokens:    800,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello back", resp.Content)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, 15, resp.TokensUsed)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestOpenAIChatNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "chatcmpl-1", "choices": []any{}})
	}))
	defer server.Close()

	p := NewOpenAI(&Config{Endpoint: server.URL, APIKey: "sk-test"})
	_, err := p.Chat(context.Background(), &ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices in response")
}

func TestOpenAIChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	p := NewOpenAI(&Config{Endpoint: server.URL, APIKey: "sk-test"})
	_, err := p.Chat(context.Background(), &ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenAIAvailability(t *testing.T) {
	withKey := NewOpenAI(&Config{APIKey: "sk-test"})
	assert.True(t, withKey.Available())
	assert.Equal(t, "openai", withKey.Name())

	without := NewOpenAI(nil)
	assert.False(t, without.Available())

	_, err := without.Chat(context.Background(), &ChatRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not configured")
}

func TestOpenAIDefaults(t *testing.T) {
	p := NewOpenAI(&Config{APIKey: "sk-test"})
	assert.Equal(t, "https://api.openai.com/v1", p.config.Endpoint)
	assert.Equal(t, "gpt-4o-mini", p.config.Model)
	assert.NotZero(t, p.config.Timeout)
}
