package router

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/bahakizil/slack-mcp/internal/channels"
)

// WorkspaceOps reads workspace state for the structured-query path.
type WorkspaceOps interface {
	ListChannels(ctx context.Context) string
	ChannelHistory(ctx context.Context, name string) string
	Capabilities() string
}

// Orchestrator runs the full plan-execute-synthesize loop for queries
// the keyword pass cannot answer directly.
type Orchestrator interface {
	Execute(ctx context.Context, request string, extra map[string]any) (string, error)
}

var channelListWords = []string{"list", "show", "what"}

// Channel-name extraction patterns, tried in order against the
// lowercased query.
var channelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`#(\w+)`),
	regexp.MustCompile(`(\w+)\s+channel`),
	regexp.MustCompile(`in\s+(\w+)`),
	regexp.MustCompile(`from\s+(\w+)`),
}

// WorkspaceHandler answers structured Slack questions. A second
// keyword pass picks the operation; anything unmatched goes to the
// orchestration engine with Slack sending disabled.
type WorkspaceHandler struct {
	poster channels.Poster
	ops    WorkspaceOps
	agent  Orchestrator
	logger *slog.Logger
}

func NewWorkspaceHandler(poster channels.Poster, ops WorkspaceOps, agent Orchestrator, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{poster: poster, ops: ops, agent: agent, logger: logger}
}

func (h *WorkspaceHandler) Handle(ctx context.Context, query, channelID string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("workspace query panic", "channel", channelID, "panic", rec)
			err = h.poster.Post(ctx, channelID, "❌ Unable to process Slack query.")
		}
	}()
	return h.poster.Post(ctx, channelID, h.answer(ctx, query, channelID))
}

func (h *WorkspaceHandler) answer(ctx context.Context, query, channelID string) string {
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "channel") && containsAny(lower, channelListWords):
		return h.ops.ListChannels(ctx)
	case strings.Contains(lower, "message") || strings.Contains(lower, "discuss"):
		name, ok := extractChannel(query)
		if !ok {
			return "Please specify which channel you'd like to check. Example: 'What was discussed in #general?'"
		}
		return h.ops.ChannelHistory(ctx, name)
	case strings.Contains(lower, "tool") || strings.Contains(lower, "can"):
		return h.ops.Capabilities()
	default:
		return h.complex(ctx, query, channelID)
	}
}

func (h *WorkspaceHandler) complex(ctx context.Context, query, channelID string) string {
	extra := map[string]any{
		"slack_channel":     channelID,
		"can_send_to_slack": false,
	}
	answer, err := h.agent.Execute(ctx, query, extra)
	if err != nil {
		h.logger.Error("complex query failed", "channel", channelID, "error", err)
		return "❌ Unable to process complex query."
	}
	return answer
}

func extractChannel(query string) (string, bool) {
	lower := strings.ToLower(query)
	for _, p := range channelPatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			return m[1], true
		}
	}
	return "", false
}
