package router

import (
	"context"
	"log/slog"

	"github.com/bahakizil/slack-mcp/internal/channels"
)

// Searcher produces the reply for a search-intent query.
type Searcher interface {
	Respond(ctx context.Context, query string) (string, error)
}

// SearchHandler posts an immediate acknowledgment, runs the search,
// and posts whatever the search service came back with.
type SearchHandler struct {
	poster   channels.Poster
	searcher Searcher
	logger   *slog.Logger
}

func NewSearchHandler(poster channels.Poster, searcher Searcher, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{poster: poster, searcher: searcher, logger: logger}
}

func (h *SearchHandler) Handle(ctx context.Context, query, channelID string) error {
	if err := h.poster.Post(ctx, channelID, "🔍 Searching..."); err != nil {
		return err
	}
	reply, err := h.searcher.Respond(ctx, query)
	if err != nil {
		h.logger.Error("search failed", "error", err)
		return h.poster.Post(ctx, channelID, "❌ Search failed. Please try again later.")
	}
	return h.poster.Post(ctx, channelID, reply)
}
