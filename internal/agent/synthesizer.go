package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bahakizil/slack-mcp/internal/llm"
)

const synthesisSystemPrompt = "You are an expert analyst who synthesizes information from multiple sources."

// Synthesizer turns the raw outcome list back into one prose answer.
// Unlike planning, synthesis failing is fatal for the run: without it
// there is nothing presentable to hand back.
type Synthesizer struct {
	provider llm.Provider
}

// NewSynthesizer creates a result synthesizer.
func NewSynthesizer(provider llm.Provider) *Synthesizer {
	return &Synthesizer{provider: provider}
}

// Synthesize composes the final answer from the request, the plan and
// the per-step outcomes.
func (s *Synthesizer) Synthesize(ctx context.Context, request string, plan *Plan, outcomes []StepOutcome) (string, error) {
	planJSON, _ := json.Marshal(plan)
	outcomeJSON, _ := json.Marshal(outcomes)

	prompt := fmt.Sprintf(`USER REQUEST: %s

EXECUTION PLAN: %s

EXECUTION RESULTS: %s

Create a comprehensive response that:
1. Addresses the user's request completely
2. Synthesizes information from all executed tools
3. Provides clear, actionable insights
4. Is well-structured and concise`, request, planJSON, outcomeJSON)

	resp, err := s.provider.Chat(ctx, &llm.ChatRequest{
		SystemPrompt: synthesisSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens:    1500,
		Temperature:  0.7,
	})
	if err != nil {
		return "", fmt.Errorf("synthesis failed: %w", err)
	}
	if resp.Content == "" {
		return "No synthesis available", nil
	}
	return resp.Content, nil
}
