package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeRequestShape(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"Here is the summary."}}
	s := NewSynthesizer(provider)

	plan := &Plan{Reasoning: "echo once", Steps: []PlanStep{
		{Step: 1, Kind: StepKindToolExecution, Backend: "alpha", Tool: "echo"},
	}}
	outcomes := []StepOutcome{
		{Success: true, Output: "1", Backend: "alpha", Tool: "echo"},
		{Error: "Server ghost not available", Backend: "ghost", Tool: "echo"},
	}

	answer, err := s.Synthesize(context.Background(), "echo it", plan, outcomes)
	require.NoError(t, err)
	assert.Equal(t, "Here is the summary.", answer)

	reqs := provider.requests()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, synthesisSystemPrompt, req.SystemPrompt)
	assert.Equal(t, 1500, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)

	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "USER REQUEST: echo it")
	assert.Contains(t, prompt, "EXECUTION PLAN:")
	assert.Contains(t, prompt, `"reasoning":"echo once"`)
	assert.Contains(t, prompt, "EXECUTION RESULTS:")
	assert.Contains(t, prompt, `"result":"1"`)
	assert.Contains(t, prompt, "Server ghost not available")
	assert.Contains(t, prompt, "1. Addresses the user's request completely")
}

func TestSynthesizeEmptyReply(t *testing.T) {
	provider := &scriptedProvider{replies: []string{""}}
	s := NewSynthesizer(provider)

	answer, err := s.Synthesize(context.Background(), "echo it", &Plan{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "No synthesis available", answer)
}

func TestSynthesizeProviderError(t *testing.T) {
	provider := &scriptedProvider{errs: []error{errors.New("no choices in response")}}
	s := NewSynthesizer(provider)

	_, err := s.Synthesize(context.Background(), "echo it", &Plan{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "synthesis failed")
	assert.Contains(t, err.Error(), "no choices in response")
}
