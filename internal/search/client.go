// Package search implements the Tavily client and the reply shaping for
// the web search path.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.tavily.com/search"

// newsDomains is the curated outlet list for recency-bounded news
// searches.
var newsDomains = []string{
	"reuters.com",
	"bbc.com",
	"cnn.com",
	"bloomberg.com",
	"techcrunch.com",
	"theverge.com",
}

// Response is a Tavily search response.
type Response struct {
	Answer  string   `json:"answer"`
	Query   string   `json:"query"`
	Results []Result `json:"results"`
}

// Result is a single search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type tavilyRequest struct {
	APIKey            string   `json:"api_key"`
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth"`
	IncludeAnswer     bool     `json:"include_answer"`
	IncludeRawContent bool     `json:"include_raw_content"`
	MaxResults        int      `json:"max_results"`
	Topic             string   `json:"topic,omitempty"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
	Days              int      `json:"days,omitempty"`
}

// Client calls the Tavily search API.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// NewClient creates a Tavily client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether an API key is configured.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Search runs a general web search: advanced depth, answer included,
// eight results.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	return c.call(ctx, &tavilyRequest{
		Query:         query,
		SearchDepth:   "advanced",
		IncludeAnswer: true,
		MaxResults:    8,
	})
}

// News runs the news-flavored search used by the chat path. The query
// is prefixed so results skew recent, and the news topic narrows the
// index.
func (c *Client) News(ctx context.Context, query string) (*Response, error) {
	return c.call(ctx, &tavilyRequest{
		Query:         "latest news " + query,
		SearchDepth:   "advanced",
		IncludeAnswer: true,
		MaxResults:    6,
		Topic:         "news",
	})
}

// CuratedNews searches a fixed set of news outlets within the last
// days days (capped at 30).
func (c *Client) CuratedNews(ctx context.Context, query string, days int) (*Response, error) {
	if days <= 0 {
		days = 7
	}
	if days > 30 {
		days = 30
	}
	return c.call(ctx, &tavilyRequest{
		Query:          query,
		SearchDepth:    "advanced",
		IncludeAnswer:  true,
		MaxResults:     5,
		IncludeDomains: newsDomains,
		Days:           days,
	})
}

// Report is the output of Research: an overview plus one section per
// focus area.
type Report struct {
	Topic      string
	Summary    string
	KeySources []string
	Sections   []ReportSection
}

// ReportSection covers one focus area of a research report.
type ReportSection struct {
	Area     string
	Findings string
	Sources  []string
}

// Research runs a deep search on the topic followed by one narrower
// search per focus area (at most three areas).
func (c *Client) Research(ctx context.Context, topic string, focusAreas []string) (*Report, error) {
	main, err := c.call(ctx, &tavilyRequest{
		Query:         topic,
		SearchDepth:   "advanced",
		IncludeAnswer: true,
		MaxResults:    5,
	})
	if err != nil {
		return nil, fmt.Errorf("research %q: %w", topic, err)
	}

	report := &Report{
		Topic:      topic,
		Summary:    main.Answer,
		KeySources: resultTitles(main.Results, 3),
	}

	if len(focusAreas) > 3 {
		focusAreas = focusAreas[:3]
	}
	for _, area := range focusAreas {
		focus, err := c.call(ctx, &tavilyRequest{
			Query:         topic + " " + area,
			SearchDepth:   "basic",
			IncludeAnswer: true,
			MaxResults:    3,
		})
		if err != nil {
			return nil, fmt.Errorf("research %q focus %q: %w", topic, area, err)
		}
		report.Sections = append(report.Sections, ReportSection{
			Area:     area,
			Findings: focus.Answer,
			Sources:  resultTitles(focus.Results, 2),
		})
	}
	return report, nil
}

func (c *Client) call(ctx context.Context, req *tavilyRequest) (*Response, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("Tavily API key not configured")
	}
	req.APIKey = c.apiKey

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api call failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api returned status %d", httpResp.StatusCode)
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

func resultTitles(results []Result, limit int) []string {
	if len(results) > limit {
		results = results[:limit]
	}
	titles := make([]string, 0, len(results))
	for _, r := range results {
		titles = append(titles, r.Title)
	}
	return titles
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

func orElse(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
