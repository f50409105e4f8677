// Package workspace answers Slack-workspace questions (channel
// listings, message history, capability summaries) against the Slack
// Web API. All faults fold into user-facing status strings so callers
// can post whatever comes back.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"
)

// botDisplayName is the bot's own real name. Its posts are elided from
// history listings so the bot never quotes itself.
const botDisplayName = "MCP Bot"

const capabilitiesText = `🛠️ **Slack MCP Bot Capabilities:**

📋 **Channel Management:**
• List accessible channels
• Send messages to channels
• Read channel message history

🔍 **Web Research:**
• General web search with AI processing
• Latest news search and analysis
• Comprehensive research reports

🤖 **AI Assistant:**
• Natural language conversations
• Intelligent query routing
• Real-time automated responses

🔧 **Integration:**
• MCP tool access via Claude Desktop
• Socket Mode real-time event handling
• Autonomous task execution`

// SlackAPI is the slice of the Slack Web API the service reads from.
// *slack.Client satisfies it.
type SlackAPI interface {
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
}

// Service reads workspace state and formats it for posting back to the
// channel the question came from.
type Service struct {
	api    SlackAPI
	logger *slog.Logger
}

func NewService(api SlackAPI, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// ListChannels formats the first ten accessible unarchived channels.
func (s *Service) ListChannels(ctx context.Context) string {
	if s.api == nil {
		return "❌ Slack connection not available."
	}
	channels, _, err := s.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
		ExcludeArchived: true,
	})
	if err != nil {
		s.logger.Warn("channel list failed", "error", err)
		return fmt.Sprintf("❌ Error retrieving channels: %v", err)
	}
	if len(channels) == 0 {
		return "No accessible channels found."
	}
	if len(channels) > 10 {
		channels = channels[:10]
	}
	lines := []string{"📋 **Available Channels:**\n"}
	for _, ch := range channels {
		line := "#" + ch.Name
		if purpose := ch.Purpose.Value; purpose != "" {
			line += fmt.Sprintf(" - %s...", truncate(purpose, 50))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// ChannelHistory formats the recent conversation in the named channel.
// The name is resolved against the conversations list first; empty
// messages and the bot's own posts are skipped.
func (s *Service) ChannelHistory(ctx context.Context, name string) string {
	if s.api == nil {
		return "❌ Slack connection not available."
	}
	id, err := s.resolveChannelID(ctx, name)
	if err != nil {
		s.logger.Warn("channel resolve failed", "channel", name, "error", err)
		return fmt.Sprintf("❌ Error retrieving messages: %v", err)
	}
	if id == "" {
		return fmt.Sprintf("❌ Channel '%s' not found.", name)
	}
	history, err := s.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: id,
		Limit:     10,
	})
	if err != nil {
		s.logger.Warn("history fetch failed", "channel", name, "error", err)
		return fmt.Sprintf("❌ Error retrieving messages: %v", err)
	}
	msgs := history.Messages
	if len(msgs) == 0 {
		return fmt.Sprintf("No recent messages found in #%s.", name)
	}
	if len(msgs) > 5 {
		msgs = msgs[:5]
	}
	lines := []string{fmt.Sprintf("💬 **Recent messages from #%s:**\n", name)}
	for _, msg := range msgs {
		text := truncate(msg.Text, 100)
		if text == "" {
			continue
		}
		author := s.displayName(ctx, msg.User)
		if author == botDisplayName {
			continue
		}
		lines = append(lines, fmt.Sprintf("**%s** (%s): %s", author, formatTimestamp(msg.Timestamp), text))
	}
	if len(lines) == 1 {
		return fmt.Sprintf("No displayable messages in #%s.", name)
	}
	return strings.Join(lines, "\n\n")
}

// Capabilities returns the fixed feature summary posted when users ask
// what the bot can do.
func (s *Service) Capabilities() string {
	return capabilitiesText
}

// resolveChannelID maps a channel name to its ID via the conversations
// list. Only the first page is consulted; a miss returns "" with no
// error.
func (s *Service) resolveChannelID(ctx context.Context, name string) (string, error) {
	channels, _, err := s.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{})
	if err != nil {
		return "", err
	}
	for _, ch := range channels {
		if ch.Name == name {
			return ch.ID, nil
		}
	}
	return "", nil
}

// displayName resolves a user ID to something readable. Lookup
// failures fall back to the raw ID so the transcript stays attributable.
func (s *Service) displayName(ctx context.Context, userID string) string {
	if userID == "" {
		return "Unknown User"
	}
	user, err := s.api.GetUserInfoContext(ctx, userID)
	if err != nil || user == nil {
		return userID
	}
	if user.RealName != "" {
		return user.RealName
	}
	if user.Name != "" {
		return user.Name
	}
	return "Unknown User"
}

// formatTimestamp renders a Slack ts ("1712345678.000200") as a local
// wall-clock minute. Unparseable values pass through untouched.
func formatTimestamp(ts string) string {
	if ts == "" {
		return "Unknown time"
	}
	secs, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return ts
	}
	return time.Unix(int64(secs), 0).Format("2006-01-02 15:04")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
