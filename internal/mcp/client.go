// Package mcp implements the JSON-RPC 2.0 over HTTP client used to talk
// to MCP tool backends. Backends expose exactly two methods, tools/list
// and tools/call, plus a plain HTTP liveness endpoint.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Per-operation timeouts. Probes must be cheap so a dead backend cannot
// stall startup; tool calls are allowed to run much longer.
const (
	ProbeTimeout = 2 * time.Second
	ListTimeout  = 10 * ProbeTimeout
	CallTimeout  = 30 * time.Second
)

// ErrInvalidResponse is returned when a tools/call response does not
// carry the expected result.content payload.
var ErrInvalidResponse = errors.New("Invalid response format")

// Tool is one entry of a backend's tool inventory.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Client speaks JSON-RPC to any backend endpoint. It is stateless and
// safe for concurrent use; the endpoint travels with each call.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a backend client. Timeouts are applied per call.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Probe checks whether the backend answers HTTP at all. Any response
// short of a server error counts as alive; 404 on the bare root is the
// normal answer from a server that only routes /mcp.
func (c *Client) Probe(ctx context.Context, endpoint string) error {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL(endpoint), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("probe: HTTP %d", resp.StatusCode)
	}
	return nil
}

// ListTools fetches the backend's tool inventory.
func (c *Client) ListTools(ctx context.Context, endpoint string) ([]Tool, error) {
	resp, err := c.post(ctx, endpoint, "tools/list", map[string]any{}, ListTimeout)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("tools/list: %s", resp.Error.Message)
	}

	var result struct {
		Tools []Tool `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("tools/list: decode result: %w", err)
	}
	return result.Tools, nil
}

// CallTool invokes one tool and returns its text payload. Failures keep
// the short form the rest of the pipeline reports to users: HTTP status
// text for transport-level rejections, ErrInvalidResponse for replies
// that do not carry result.content.
func (c *Client) CallTool(ctx context.Context, endpoint, tool string, args map[string]any) (string, error) {
	resp, err := c.post(ctx, endpoint, "tools/call", callParams{Name: tool, Arguments: args}, CallTimeout)
	if err != nil {
		return "", err
	}

	if resp.Error != nil {
		c.logger.Debug("backend reported rpc error", "tool", tool, "code", resp.Error.Code, "message", resp.Error.Message)
		return "", ErrInvalidResponse
	}
	if len(resp.Result) == 0 {
		return "", ErrInvalidResponse
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return "", ErrInvalidResponse
	}
	if len(result.Content) == 0 {
		return "", ErrInvalidResponse
	}
	if result.Content[0].Text == "" {
		return "No result", nil
	}
	return result.Content[0].Text, nil
}

func (c *Client) post(ctx context.Context, endpoint, method string, params any, timeout time.Duration) (*rpcResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// probeURL derives the liveness URL from the rpc endpoint by dropping a
// trailing /mcp path segment.
func probeURL(endpoint string) string {
	return strings.TrimSuffix(endpoint, "/mcp")
}
