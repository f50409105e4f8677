package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Config configures the OpenAI-compatible provider.
type Config struct {
	Endpoint    string // defaults to the public OpenAI API
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// OpenAIProvider talks to any OpenAI-compatible chat completions API.
type OpenAIProvider struct {
	config *Config
	client *http.Client
}

// NewOpenAI creates the provider, filling unset config fields with
// defaults.
func NewOpenAI(cfg *Config) *OpenAIProvider {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &OpenAIProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Available reports whether an API key is configured.
func (p *OpenAIProvider) Available() bool {
	return p.config.APIKey != ""
}

// Chat sends a chat completion request.
func (p *OpenAIProvider) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if p.config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	start := time.Now()

	wireReq := openAIChatRequest{Model: req.Model}
	if wireReq.Model == "" {
		wireReq.Model = p.config.Model
	}

	if req.SystemPrompt != "" {
		wireReq.Messages = append(wireReq.Messages, openAIMessage{
			Role:    "system",
			Content: req.SystemPrompt,
		})
	}
	for _, msg := range req.Messages {
		wireReq.Messages = append(wireReq.Messages, openAIMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	wireReq.MaxTokens = req.MaxTokens
	if wireReq.MaxTokens == 0 {
		wireReq.MaxTokens = p.config.MaxTokens
	}
	wireReq.Temperature = req.Temperature
	if wireReq.Temperature == 0 {
		wireReq.Temperature = p.config.Temperature
	}

	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.config.Endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := readLimitedBody(resp.Body)
		return nil, fmt.Errorf("completion error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var wireResp openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&wireResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(wireResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := wireResp.Choices[0]
	return &ChatResponse{
		Content:          choice.Message.Content,
		Model:            wireResp.Model,
		PromptTokens:     wireResp.Usage.PromptTokens,
		CompletionTokens: wireResp.Usage.CompletionTokens,
		TokensUsed:       wireResp.Usage.TotalTokens,
		Duration:         time.Since(start),
		FinishReason:     choice.FinishReason,
	}, nil
}

// OpenAI wire types
type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int           `json:"index"`
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
