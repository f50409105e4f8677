// Package router classifies inbound mentions and fans each one out to
// the handler for its intent class.
package router

import (
	"context"
	"log/slog"

	"github.com/bahakizil/slack-mcp/internal/channels"
	"github.com/bahakizil/slack-mcp/internal/metrics"
)

const errorMessage = "❌ An error occurred. Please try again."

// Handler processes one classified mention and posts its own replies.
// Handlers fold domain failures into posted status strings; a returned
// error means the reply itself could not be delivered.
type Handler interface {
	Handle(ctx context.Context, query, channelID string) error
}

// Router owns the classify-and-dispatch loop between the chat
// transport and the intent handlers.
type Router struct {
	poster   channels.Poster
	logger   *slog.Logger
	handlers map[Kind]Handler
}

func New(poster channels.Poster, search, workspace, chat Handler, logger *slog.Logger) *Router {
	return &Router{
		poster: poster,
		logger: logger,
		handlers: map[Kind]Handler{
			KindSearch:    search,
			KindWorkspace: workspace,
			KindChat:      chat,
		},
	}
}

// Run consumes mentions until the channel closes or the context ends.
// Each mention is dispatched on its own goroutine so a slow handler
// never blocks the feed.
func (r *Router) Run(ctx context.Context, mentions <-chan *channels.InboundMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-mentions:
			if !ok {
				return
			}
			go r.dispatch(ctx, msg)
		}
	}
}

func (r *Router) dispatch(ctx context.Context, msg *channels.InboundMessage) {
	var kind Kind
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panic", "kind", string(kind), "panic", rec)
			metrics.HandlerErrors.WithLabelValues(string(kind)).Inc()
			r.sendError(ctx, msg.ChannelID)
		}
	}()

	kind = Classify(msg.Text)
	metrics.EventsRouted.WithLabelValues(string(kind)).Inc()
	r.logger.Info("mention routed", "kind", string(kind), "channel", msg.ChannelID, "user", msg.UserID)

	handler := r.handlers[kind]
	if handler == nil {
		r.logger.Error("no handler registered", "kind", string(kind))
		r.sendError(ctx, msg.ChannelID)
		return
	}
	if err := handler.Handle(ctx, msg.Text, msg.ChannelID); err != nil {
		metrics.HandlerErrors.WithLabelValues(string(kind)).Inc()
		r.logger.Error("handler failed", "kind", string(kind), "channel", msg.ChannelID, "error", err)
	}
}

func (r *Router) sendError(ctx context.Context, channelID string) {
	if channelID == "" {
		return
	}
	if err := r.poster.Post(ctx, channelID, errorMessage); err != nil {
		r.logger.Error("error reply failed", "channel", channelID, "error", err)
	}
}
