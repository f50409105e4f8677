// Package slack adapts the Slack Socket Mode transport to the channels
// seam: it acknowledges every inbound frame, forwards cleaned app
// mentions, and posts replies.
package slack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/bahakizil/slack-mcp/internal/channels"
)

// acker acknowledges one Socket Mode envelope. *socketmode.Client
// satisfies it.
type acker interface {
	Ack(req socketmode.Request, payload ...interface{})
}

// Adapter drives the Socket Mode session and exposes mentions on a
// buffered channel.
type Adapter struct {
	client    *slack.Client
	socket    *socketmode.Client
	logger    *slog.Logger
	incoming  chan *channels.InboundMessage
	botUserID string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates a Slack adapter from the two tokens.
func New(botToken, appToken string, logger *slog.Logger) (*Adapter, error) {
	if botToken == "" {
		return nil, fmt.Errorf("slack bot token is required")
	}
	if appToken == "" {
		return nil, fmt.Errorf("slack app token is required for socket mode")
	}

	client := slack.New(botToken, slack.OptionAppLevelToken(appToken))
	return &Adapter{
		client:   client,
		socket:   socketmode.New(client, socketmode.OptionDebug(false)),
		logger:   logger.With("channel", "slack"),
		incoming: make(chan *channels.InboundMessage, 100),
	}, nil
}

// Start authenticates, then runs the Socket Mode session and the event
// pump in the background.
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}

	auth, err := a.client.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("slack auth failed: %w", err)
	}
	a.botUserID = auth.UserID
	a.logger.Info("slack authenticated", "bot_user", auth.UserID)

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.running = true

	go a.handleEvents(ctx)
	go func() {
		if err := a.socket.RunContext(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("socket mode stopped", "error", err)
		}
	}()

	return nil
}

// Stop ends the session and closes the mention stream.
func (a *Adapter) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	a.cancel()
	a.running = false
	close(a.incoming)
	a.logger.Info("slack adapter stopped")
	return nil
}

// Incoming returns the stream of cleaned mentions.
func (a *Adapter) Incoming() <-chan *channels.InboundMessage {
	return a.incoming
}

// Post sends plain text to a channel. Empty destinations or payloads
// are dropped without error, matching the transport's tolerance for
// no-op sends.
func (a *Adapter) Post(ctx context.Context, channelID, text string) error {
	if channelID == "" || text == "" {
		return nil
	}

	_, _, err := a.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("post to %s: %w", channelID, err)
	}
	return nil
}

// Client exposes the underlying Web API client for structured queries.
func (a *Adapter) Client() *slack.Client {
	return a.client
}

func (a *Adapter) handleEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-a.socket.Events:
			switch evt.Type {
			case socketmode.EventTypeEventsAPI:
				a.handleEventsAPI(evt, a.socket)
			case socketmode.EventTypeConnecting:
				a.logger.Debug("connecting to slack")
			case socketmode.EventTypeConnected:
				a.logger.Info("connected to slack")
			case socketmode.EventTypeConnectionError:
				a.logger.Error("slack connection error")
			}
		}
	}
}

// handleEventsAPI acks the envelope before anything else; the transport
// redelivers any frame not acknowledged inside its window.
func (a *Adapter) handleEventsAPI(evt socketmode.Event, ack acker) {
	if evt.Request != nil {
		ack.Ack(*evt.Request)
	}

	apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}
	if apiEvent.Type != slackevents.CallbackEvent {
		return
	}
	mention, ok := apiEvent.InnerEvent.Data.(*slackevents.AppMentionEvent)
	if !ok {
		return
	}
	a.forwardMention(mention)
}

// forwardMention validates and queues one mention. Events with no
// channel, no author, empty cleaned text, or authored by the bot itself
// terminate here silently.
func (a *Adapter) forwardMention(ev *slackevents.AppMentionEvent) {
	text := cleanMentionText(ev.Text, a.botUserID)
	if ev.Channel == "" || ev.User == "" || text == "" || ev.User == a.botUserID {
		return
	}

	msg := &channels.InboundMessage{
		ChannelID:  ev.Channel,
		UserID:     ev.User,
		Text:       text,
		Kind:       channels.EventMention,
		ReceivedAt: time.Now(),
	}

	select {
	case a.incoming <- msg:
	default:
		a.logger.Warn("mention queue full, dropping message", "channel", ev.Channel)
	}
}

// cleanMentionText strips the bot's own mention tag.
func cleanMentionText(text, botUserID string) string {
	if botUserID != "" {
		text = strings.ReplaceAll(text, "<@"+botUserID+">", "")
	}
	return strings.TrimSpace(text)
}
