package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bahakizil/slack-mcp/internal/discovery"
	"github.com/bahakizil/slack-mcp/internal/llm"
)

const planSystemPrompt = "You are an AI that creates optimal execution plans. Respond only with valid JSON."

// Generator asks the completion service to turn a request plus the tool
// catalog into a Plan.
type Generator struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewGenerator creates a plan generator.
func NewGenerator(provider llm.Provider, logger *slog.Logger) *Generator {
	return &Generator{provider: provider, logger: logger}
}

// Generate returns the parsed plan, or nil when planning failed for any
// reason: transport error, unparseable output, or an empty plan object.
// A nil plan is a value the caller reports, never an error to escalate,
// and the request is not retried.
func (g *Generator) Generate(ctx context.Context, request string, cat *discovery.Catalog, extra map[string]any) *Plan {
	resp, err := g.provider.Chat(ctx, &llm.ChatRequest{
		SystemPrompt: planSystemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: planPrompt(request, formatTools(cat), extra)},
		},
		MaxTokens:   800,
		Temperature: 0.3,
	})
	if err != nil {
		g.logger.Warn("plan request failed", "error", err)
		return nil
	}

	plan, err := parsePlan(resp.Content)
	if err != nil {
		g.logger.Warn("plan output unparseable", "error", err)
		return nil
	}
	return plan
}

// parsePlan decodes the model output, tolerating a markdown code fence
// around the JSON. An empty object counts as no plan.
func parsePlan(content string) (*Plan, error) {
	var plan Plan
	if err := json.Unmarshal([]byte(stripFences(content)), &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if plan.Reasoning == "" && len(plan.Steps) == 0 {
		return nil, fmt.Errorf("empty plan")
	}
	return &plan, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func planPrompt(request, tools string, extra map[string]any) string {
	if extra == nil {
		extra = map[string]any{}
	}
	ctxJSON, _ := json.Marshal(extra)

	var b strings.Builder
	b.WriteString("You are an autonomous AI agent with access to MCP servers and tools.\n\n")
	fmt.Fprintf(&b, "USER REQUEST: %s\n", request)
	fmt.Fprintf(&b, "CONTEXT: %s\n\n", ctxJSON)
	fmt.Fprintf(&b, "AVAILABLE TOOLS:\n%s\n", tools)
	b.WriteString(`Create a step-by-step execution plan. Respond with JSON:
{
    "reasoning": "Why you chose this approach",
    "steps": [
        {
            "step": 1,
            "kind": "tool_execution",
            "backend": "server_name",
            "tool": "tool_name",
            "arguments": {"key": "value"},
            "purpose": "Why this step is needed"
        }
    ]
}

Be intelligent about tool selection and execution order.`)
	return b.String()
}

// formatTools renders the catalog the way the planner expects: one
// uppercase header per backend, one indented line per tool.
func formatTools(cat *discovery.Catalog) string {
	var b strings.Builder
	for _, name := range cat.Backends() {
		fmt.Fprintf(&b, "\n**%s**:\n", strings.ToUpper(name))
		for _, tool := range cat.Tools(name) {
			fmt.Fprintf(&b, "  - %s: %s\n", tool.Name, tool.Description)
		}
	}
	return b.String()
}
