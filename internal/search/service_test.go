package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahakizil/slack-mcp/internal/llm"
)

type mockProvider struct {
	reply     string
	err       error
	available bool
	lastReq   *llm.ChatRequest
}

func (m *mockProvider) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.ChatResponse{Content: m.reply}, nil
}

func (m *mockProvider) Name() string    { return "mock" }
func (m *mockProvider) Available() bool { return m.available }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedTavily(t *testing.T, resp Response) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestRespondNoAPIKey(t *testing.T) {
	svc := NewService(NewClient(""), nil, quietLogger())

	out, err := svc.Respond(context.Background(), "search for gophers")
	require.NoError(t, err)
	assert.Equal(t, "❌ Web search unavailable - API key not configured", out)

	out, err = svc.Respond(context.Background(), "any news about gophers")
	require.NoError(t, err)
	assert.Equal(t, "❌ News search unavailable - API key not configured", out)
}

func TestRespondSearchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewService(NewClient("tvly-test", WithEndpoint(server.URL)), nil, quietLogger())

	out, err := svc.Respond(context.Background(), "search for gophers")
	require.NoError(t, err)
	assert.Equal(t, "❌ Search failed - no results returned", out)
}

func TestRespondBasicFormatting(t *testing.T) {
	server := fixedTavily(t, Response{
		Answer: "Gophers are rodents.",
		Results: []Result{
			{Title: "Gopher facts", URL: "https://example.com/g", Content: "Pocket gophers burrow extensively."},
		},
	})
	defer server.Close()

	svc := NewService(NewClient("tvly-test", WithEndpoint(server.URL)), nil, quietLogger())

	out, err := svc.Respond(context.Background(), "search for gophers")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "🔍 **Search Results: search for gophers**"))
	assert.Contains(t, out, "**Summary:** Gophers are rodents.")
	assert.Contains(t, out, "**Key Sources:**")
	assert.Contains(t, out, "1. **Gopher facts**")
	assert.Contains(t, out, "Source: https://example.com/g")
}

func TestRespondNewsRouting(t *testing.T) {
	var sawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		sawQuery = req.Query
		w.Write([]byte(`{"answer":"headline answer","results":[]}`))
	}))
	defer server.Close()

	svc := NewService(NewClient("tvly-test", WithEndpoint(server.URL)), nil, quietLogger())

	out, err := svc.Respond(context.Background(), "news about go releases")
	require.NoError(t, err)
	assert.Equal(t, "latest news news about go releases", sawQuery)
	assert.True(t, strings.HasPrefix(out, "📰 **Latest News: news about go releases**"))
}

func TestCuratedNewsService(t *testing.T) {
	var saw tavilyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&saw))
		w.Write([]byte(`{"answer":"curated answer","results":[]}`))
	}))
	defer server.Close()

	svc := NewService(NewClient("tvly-test", WithEndpoint(server.URL)), nil, quietLogger())

	out, err := svc.CuratedNews(context.Background(), "go releases", 3)
	require.NoError(t, err)
	assert.Equal(t, "go releases", saw.Query)
	assert.Equal(t, 3, saw.Days)
	assert.NotEmpty(t, saw.IncludeDomains)
	assert.True(t, strings.HasPrefix(out, "📰 **Latest News: go releases**"))
}

func TestCuratedNewsServiceNoAPIKey(t *testing.T) {
	svc := NewService(NewClient(""), nil, quietLogger())

	out, err := svc.CuratedNews(context.Background(), "go releases", 0)
	require.NoError(t, err)
	assert.Equal(t, "❌ News search unavailable - API key not configured", out)
}

func TestRespondEnhanced(t *testing.T) {
	server := fixedTavily(t, Response{
		Answer:  "Short answer.",
		Results: []Result{{Title: "A", URL: "https://a.example", Content: "alpha"}},
	})
	defer server.Close()

	provider := &mockProvider{reply: "Polished summary.", available: true}
	svc := NewService(NewClient("tvly-test", WithEndpoint(server.URL)), provider, quietLogger())

	out, err := svc.Respond(context.Background(), "search for gophers")
	require.NoError(t, err)
	assert.Equal(t, "🔍 **Search Results:** search for gophers\n\nPolished summary.", out)

	require.NotNil(t, provider.lastReq)
	assert.Equal(t, webSystemPrompt, provider.lastReq.SystemPrompt)
	assert.Equal(t, 800, provider.lastReq.MaxTokens)
	assert.InDelta(t, 0.3, provider.lastReq.Temperature, 0.001)
	assert.Contains(t, provider.lastReq.Messages[0].Content, "Based on the web search results for 'search for gophers'")
}

func TestRespondEnhancementFailureFallsBack(t *testing.T) {
	server := fixedTavily(t, Response{
		Answer:  "Short answer.",
		Results: []Result{{Title: "A", URL: "https://a.example", Content: "alpha"}},
	})
	defer server.Close()

	provider := &mockProvider{err: errors.New("rate limited"), available: true}
	svc := NewService(NewClient("tvly-test", WithEndpoint(server.URL)), provider, quietLogger())

	out, err := svc.Respond(context.Background(), "search for gophers")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "🔍 **Search Results: search for gophers**"),
		"provider failure falls back to basic formatting")
}

func TestWebPromptTruncation(t *testing.T) {
	long := strings.Repeat("x", 500)
	prompt := webPrompt(&Response{
		Answer:  "ans",
		Results: []Result{{Title: "T", URL: "https://t", Content: long}},
	}, "q")

	assert.Contains(t, prompt, "Content: "+strings.Repeat("x", 300)+"...")
	assert.NotContains(t, prompt, strings.Repeat("x", 301))
}

func TestFormatReport(t *testing.T) {
	out := FormatReport(&Report{
		Topic:      "quantum computing",
		Summary:    "big picture",
		KeySources: []string{"s1", "s2"},
		Sections: []ReportSection{
			{Area: "hardware", Findings: "qubit counts rising", Sources: []string{"h1"}},
		},
	})

	assert.Contains(t, out, "📚 **Research: quantum computing**")
	assert.Contains(t, out, "**Overview:** big picture")
	assert.Contains(t, out, "• s1")
	assert.Contains(t, out, "**hardware:** qubit counts rising")
}
