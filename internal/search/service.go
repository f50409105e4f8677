package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bahakizil/slack-mcp/internal/llm"
)

const (
	webSystemPrompt  = "You are a research assistant that processes web search results and provides comprehensive, well-formatted summaries with proper citations."
	newsSystemPrompt = "You are a professional news reporter that processes search results and provides accurate, well-formatted news summaries with focus on recent developments."
)

// Service runs a search end to end and shapes the user-facing reply.
// When a completion provider is configured the raw results are rewritten
// into a readable summary; otherwise a plain listing is returned.
type Service struct {
	client   *Client
	provider llm.Provider
	logger   *slog.Logger
}

// NewService wires the Tavily client with an optional completion
// provider. provider may be nil.
func NewService(client *Client, provider llm.Provider, logger *slog.Logger) *Service {
	return &Service{client: client, provider: provider, logger: logger}
}

// Respond produces the reply for a search-intent query. Queries that
// mention news take the news-flavored path. Search-level failures come
// back as in-band status strings; an error is returned only when the
// request context dies.
func (s *Service) Respond(ctx context.Context, query string) (string, error) {
	if strings.Contains(strings.ToLower(query), "news") {
		return s.respondNews(ctx, query)
	}
	return s.respondWeb(ctx, query)
}

func (s *Service) respondWeb(ctx context.Context, query string) (string, error) {
	if !s.client.Available() {
		return "❌ Web search unavailable - API key not configured", nil
	}

	resp, err := s.client.Search(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.logger.Warn("web search failed", "query", query, "error", err)
		return "❌ Search failed - no results returned", nil
	}

	if s.aiAvailable() {
		if out, err := s.enhance(ctx, resp, query, false); err == nil {
			return out, nil
		} else {
			s.logger.Warn("search enhancement failed, using basic format", "error", err)
		}
	}
	return formatBasicWeb(resp, query), nil
}

func (s *Service) respondNews(ctx context.Context, query string) (string, error) {
	if !s.client.Available() {
		return "❌ News search unavailable - API key not configured", nil
	}

	resp, err := s.client.News(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.logger.Warn("news search failed", "query", query, "error", err)
		return "❌ News search failed - no results returned", nil
	}

	if s.aiAvailable() {
		if out, err := s.enhance(ctx, resp, query, true); err == nil {
			return out, nil
		} else {
			s.logger.Warn("news enhancement failed, using basic format", "error", err)
		}
	}
	return formatBasicNews(resp, query), nil
}

// CuratedNews answers a news query against the curated outlet list,
// optionally restricted to the last days days. This entry point serves
// the CLI; the mention path stays on Respond.
func (s *Service) CuratedNews(ctx context.Context, query string, days int) (string, error) {
	if !s.client.Available() {
		return "❌ News search unavailable - API key not configured", nil
	}

	resp, err := s.client.CuratedNews(ctx, query, days)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.logger.Warn("curated news search failed", "query", query, "error", err)
		return "❌ News search failed - no results returned", nil
	}

	if s.aiAvailable() {
		if out, err := s.enhance(ctx, resp, query, true); err == nil {
			return out, nil
		} else {
			s.logger.Warn("news enhancement failed, using basic format", "error", err)
		}
	}
	return formatBasicNews(resp, query), nil
}

func (s *Service) aiAvailable() bool {
	return s.provider != nil && s.provider.Available()
}

// enhance rewrites raw results into a readable summary via the
// completion provider.
func (s *Service) enhance(ctx context.Context, resp *Response, query string, news bool) (string, error) {
	var system, prompt, prefix string
	if news {
		system = newsSystemPrompt
		prompt = newsPrompt(resp, query)
		prefix = "📰 **Latest News:**"
	} else {
		system = webSystemPrompt
		prompt = webPrompt(resp, query)
		prefix = "🔍 **Search Results:**"
	}

	reply, err := s.provider.Chat(ctx, &llm.ChatRequest{
		SystemPrompt: system,
		Messages:     []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens:    800,
		Temperature:  0.3,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s\n\n%s", prefix, query, reply.Content), nil
}

func webPrompt(resp *Response, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the web search results for '%s', provide a comprehensive summary.\n\n", query)
	fmt.Fprintf(&b, "Main Answer: %s\n\nTop Sources:\n", resp.Answer)

	for i, r := range firstN(resp.Results, 5) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, orElse(r.Title, "Untitled"))
		fmt.Fprintf(&b, "   URL: %s\n", orElse(r.URL, "N/A"))
		fmt.Fprintf(&b, "   Content: %s...\n\n", truncate(orElse(r.Content, "No content"), 300))
	}

	b.WriteString("Please provide a well-structured, informative summary with key findings and credible sources.")
	return b.String()
}

func newsPrompt(resp *Response, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the news search results for '%s', provide a news summary.\n\n", query)
	fmt.Fprintf(&b, "Summary: %s\n\nLatest News:\n", resp.Answer)

	for i, r := range firstN(resp.Results, 5) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, orElse(r.Title, "Untitled"))
		fmt.Fprintf(&b, "   Source: %s\n", orElse(r.URL, "N/A"))
		fmt.Fprintf(&b, "   Content: %s...\n\n", truncate(orElse(r.Content, "No content"), 300))
	}

	b.WriteString("Please provide a clear news summary highlighting recent developments with proper source attribution.")
	return b.String()
}

func formatBasicWeb(resp *Response, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 **Search Results: %s**\n\n", query)

	if resp.Answer != "" {
		fmt.Fprintf(&b, "**Summary:** %s\n\n", resp.Answer)
	}

	b.WriteString("**Key Sources:**\n")
	for i, r := range firstN(resp.Results, 3) {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, orElse(r.Title, "N/A"))
		fmt.Fprintf(&b, "   %s...\n", truncate(orElse(r.Content, "No content"), 200))
		fmt.Fprintf(&b, "   Source: %s\n\n", orElse(r.URL, "N/A"))
	}
	return b.String()
}

func formatBasicNews(resp *Response, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📰 **Latest News: %s**\n\n", query)

	if resp.Answer != "" {
		fmt.Fprintf(&b, "**Summary:** %s\n\n", resp.Answer)
	}

	b.WriteString("**Recent News:**\n")
	for i, r := range firstN(resp.Results, 3) {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, orElse(r.Title, "N/A"))
		fmt.Fprintf(&b, "   %s...\n", truncate(orElse(r.Content, "No content"), 200))
		fmt.Fprintf(&b, "   Source: %s\n\n", orElse(r.URL, "N/A"))
	}
	return b.String()
}

// FormatReport renders a research report as markdown for terminal or
// chat output.
func FormatReport(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📚 **Research: %s**\n\n", r.Topic)

	if r.Summary != "" {
		fmt.Fprintf(&b, "**Overview:** %s\n\n", r.Summary)
	}
	if len(r.KeySources) > 0 {
		b.WriteString("**Key Sources:**\n")
		for _, t := range r.KeySources {
			fmt.Fprintf(&b, "• %s\n", t)
		}
		b.WriteString("\n")
	}
	for _, sec := range r.Sections {
		fmt.Fprintf(&b, "**%s:** %s\n", sec.Area, sec.Findings)
		for _, t := range sec.Sources {
			fmt.Fprintf(&b, "• %s\n", t)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func firstN(results []Result, n int) []Result {
	if len(results) > n {
		return results[:n]
	}
	return results
}
