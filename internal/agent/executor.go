package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bahakizil/slack-mcp/internal/discovery"
)

// ToolCaller invokes one tool on a backend endpoint.
type ToolCaller interface {
	CallTool(ctx context.Context, endpoint, tool string, args map[string]any) (string, error)
}

// StepOutcome records what happened to one executed step. Backend and
// tool are echoed so a reader of the outcome list can tell which call
// produced which payload without holding the plan next to it.
type StepOutcome struct {
	Success bool   `json:"success"`
	Output  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	Backend string `json:"server,omitempty"`
	Tool    string `json:"tool,omitempty"`
}

// Executor runs a plan's steps one at a time, in order. A failed step
// becomes a failed outcome and execution moves on; nothing a backend
// does can abort the run.
type Executor struct {
	caller ToolCaller
	logger *slog.Logger
}

// NewExecutor creates a plan executor.
func NewExecutor(caller ToolCaller, logger *slog.Logger) *Executor {
	return &Executor{caller: caller, logger: logger}
}

// Execute runs every actionable step against the registry snapshot and
// returns one outcome per executed step. Steps of a kind the executor
// does not know are skipped without an outcome.
func (e *Executor) Execute(ctx context.Context, plan *Plan, reg *discovery.Registry) []StepOutcome {
	outcomes := make([]StepOutcome, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		if !step.IsToolExecution() {
			e.logger.Debug("skipping step", "step", step.Step, "kind", step.Kind)
			continue
		}
		outcomes = append(outcomes, e.runStep(ctx, step, reg))
	}
	return outcomes
}

func (e *Executor) runStep(ctx context.Context, step PlanStep, reg *discovery.Registry) StepOutcome {
	out := StepOutcome{Backend: step.Backend, Tool: step.Tool}

	backend, err := reg.Lookup(step.Backend)
	if err != nil {
		out.Error = fmt.Sprintf("Server %s not available", step.Backend)
		e.logger.Warn("step targets unknown backend", "step", step.Step, "backend", step.Backend)
		return out
	}

	args := step.Arguments
	if args == nil {
		args = map[string]any{}
	}

	e.logger.Info("executing step", "step", step.Step, "backend", step.Backend, "tool", step.Tool)
	result, err := e.caller.CallTool(ctx, backend.Endpoint, step.Tool, args)
	if err != nil {
		out.Error = err.Error()
		e.logger.Warn("step failed", "step", step.Step, "tool", step.Tool, "error", err)
		return out
	}

	out.Success = true
	out.Output = result
	return out
}
