package router

import (
	"context"
	"log/slog"

	"github.com/bahakizil/slack-mcp/internal/channels"
	"github.com/bahakizil/slack-mcp/internal/llm"
)

const chatSystemPrompt = `You are MCP Bot, a professional AI assistant integrated with Slack.

Your capabilities include:
• Slack workspace management
• Web research and news analysis
• Real-time automated responses
• AI-powered analysis and assistance

Provide helpful, concise, and professional responses. For web research requests, suggest using search keywords like 'search', 'research', or 'news'.`

// ChatHandler answers smalltalk with a single completion call under
// the bot persona.
type ChatHandler struct {
	poster   channels.Poster
	provider llm.Provider
	logger   *slog.Logger
}

func NewChatHandler(poster channels.Poster, provider llm.Provider, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{poster: poster, provider: provider, logger: logger}
}

func (h *ChatHandler) Handle(ctx context.Context, query, channelID string) error {
	if h.provider == nil || !h.provider.Available() {
		return h.poster.Post(ctx, channelID, "❌ AI chat unavailable - OpenAI API key required.")
	}
	resp, err := h.provider.Chat(ctx, &llm.ChatRequest{
		SystemPrompt: chatSystemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: query}},
		MaxTokens:    300,
		Temperature:  0.7,
	})
	if err != nil {
		h.logger.Error("chat completion failed", "error", err)
		return h.poster.Post(ctx, channelID, "❌ Unable to process request.")
	}
	reply := resp.Content
	if reply == "" {
		reply = "I didn't understand that."
	}
	return h.poster.Post(ctx, channelID, "🤖 "+reply)
}
