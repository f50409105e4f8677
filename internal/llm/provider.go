// Package llm provides the chat completion client the agent uses for
// plan generation, result synthesis, and conversational replies.
package llm

import (
	"context"
	"io"
	"time"
)

// maxErrorBodySize limits how much of an error response body is read
// back into the error message.
const maxErrorBodySize = 1 * 1024 * 1024

func readLimitedBody(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxErrorBodySize))
}

// Provider is the completion service seam. The orchestration code never
// talks HTTP itself; anything that can answer a chat request fits here.
type Provider interface {
	// Chat sends a conversation and returns the model's reply.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Name returns the provider identifier.
	Name() string

	// Available reports whether the provider is configured.
	Available() bool
}

// ChatRequest is a single completion call.
type ChatRequest struct {
	Model        string    `json:"model"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Messages     []Message `json:"messages"`
	MaxTokens    int       `json:"max_tokens,omitempty"`
	Temperature  float64   `json:"temperature,omitempty"`
}

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse carries the reply plus usage accounting.
type ChatResponse struct {
	Content          string        `json:"content"`
	Model            string        `json:"model"`
	TokensUsed       int           `json:"tokens_used,omitempty"`
	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	Duration         time.Duration `json:"duration"`
	FinishReason     string        `json:"finish_reason,omitempty"`
}
