package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahakizil/slack-mcp/internal/llm"
)

type fakeProvider struct {
	reply       string
	err         error
	unavailable bool
	reqs        []*llm.ChatRequest
}

func (f *fakeProvider) Chat(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Content: f.reply}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Available() bool { return !f.unavailable }

func TestChatHandlerRepliesWithPrefix(t *testing.T) {
	poster := &fakePoster{}
	provider := &fakeProvider{reply: "Happy to help!"}
	h := NewChatHandler(poster, provider, discardLogger())

	err := h.Handle(context.Background(), "hello bot", "C1")

	require.NoError(t, err)
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, post{channel: "C1", text: "🤖 Happy to help!"}, msgs[0])

	require.Len(t, provider.reqs, 1)
	req := provider.reqs[0]
	assert.Equal(t, chatSystemPrompt, req.SystemPrompt)
	assert.Equal(t, 300, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 0.001)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, llm.Message{Role: "user", Content: "hello bot"}, req.Messages[0])
}

func TestChatHandlerEmptyReplyFallsBack(t *testing.T) {
	poster := &fakePoster{}
	h := NewChatHandler(poster, &fakeProvider{}, discardLogger())

	err := h.Handle(context.Background(), "hmm", "C1")

	require.NoError(t, err)
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "🤖 I didn't understand that.", msgs[0].text)
}

func TestChatHandlerUnavailableProvider(t *testing.T) {
	poster := &fakePoster{}
	provider := &fakeProvider{unavailable: true}
	h := NewChatHandler(poster, provider, discardLogger())

	err := h.Handle(context.Background(), "hello", "C1")

	require.NoError(t, err)
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "❌ AI chat unavailable - OpenAI API key required.", msgs[0].text)
	assert.Empty(t, provider.reqs)
}

func TestChatHandlerNilProvider(t *testing.T) {
	poster := &fakePoster{}
	h := NewChatHandler(poster, nil, discardLogger())

	err := h.Handle(context.Background(), "hello", "C1")

	require.NoError(t, err)
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "❌ AI chat unavailable - OpenAI API key required.", msgs[0].text)
}

func TestChatHandlerProviderError(t *testing.T) {
	poster := &fakePoster{}
	provider := &fakeProvider{err: errors.New("rate limited")}
	h := NewChatHandler(poster, provider, discardLogger())

	err := h.Handle(context.Background(), "hello", "C1")

	require.NoError(t, err)
	msgs := poster.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "❌ Unable to process request.", msgs[0].text)
}
