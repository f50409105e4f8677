package agent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bahakizil/slack-mcp/internal/config"
	"github.com/bahakizil/slack-mcp/internal/discovery"
	"github.com/bahakizil/slack-mcp/internal/journal"
	"github.com/bahakizil/slack-mcp/internal/llm"
	"github.com/bahakizil/slack-mcp/internal/metrics"
)

// NoPlanMessage is the answer a run reports when the planner produced
// nothing usable. It is a reply to the user, not an error.
const NoPlanMessage = "❌ Could not create execution plan"

// Transport bundles the backend operations one run needs. *mcp.Client
// satisfies it.
type Transport interface {
	discovery.Prober
	discovery.ToolLister
	ToolCaller
}

// Agent drives a request through the whole pipeline: probe the fleet,
// catalog tools, plan, execute, synthesize. Every run rebuilds its own
// registry and catalog snapshots.
type Agent struct {
	backends []config.Backend
	client   Transport
	provider llm.Provider
	journal  *journal.Store
	logger   *slog.Logger

	generator   *Generator
	executor    *Executor
	synthesizer *Synthesizer
}

// New wires an agent. The journal store may be nil to disable run
// persistence.
func New(backends []config.Backend, client Transport, provider llm.Provider, store *journal.Store, logger *slog.Logger) *Agent {
	return &Agent{
		backends:    backends,
		client:      client,
		provider:    provider,
		journal:     store,
		logger:      logger,
		generator:   NewGenerator(provider, logger),
		executor:    NewExecutor(client, logger),
		synthesizer: NewSynthesizer(provider),
	}
}

// Available reports whether the agent has a completion provider to
// plan and synthesize with.
func (a *Agent) Available() bool {
	return a.provider != nil && a.provider.Available()
}

// Execute runs one request end to end and returns the synthesized
// answer. A planner failure short-circuits to NoPlanMessage; failed
// steps are folded into the synthesis rather than aborting; only a
// synthesis failure surfaces as an error.
func (a *Agent) Execute(ctx context.Context, request string, extra map[string]any) (string, error) {
	if !a.Available() {
		return "", errors.New("completion provider not available")
	}

	runID := uuid.NewString()
	started := time.Now()
	logger := a.logger.With("run_id", runID)
	logger.Info("run started", "request", snippet(request, 100))

	reg := discovery.BuildRegistry(ctx, a.backends, a.client, logger)
	metrics.LiveBackends.Set(float64(reg.Len()))
	cat := discovery.BuildCatalog(ctx, reg, a.client, logger)

	plan := a.generator.Generate(ctx, request, cat, extra)
	if plan == nil {
		logger.Warn("run ended without a plan")
		a.record(runID, extra, request, nil, nil, NoPlanMessage, "", started)
		return NoPlanMessage, nil
	}
	logger.Info("plan ready", "steps", len(plan.Steps), "actionable", plan.ToolExecutionCount())
	metrics.PlanSteps.Observe(float64(plan.ToolExecutionCount()))

	outcomes := a.executor.Execute(ctx, plan, reg)
	for _, out := range outcomes {
		label := "failure"
		if out.Success {
			label = "success"
		}
		metrics.ToolCalls.WithLabelValues(out.Backend, label).Inc()
	}

	answer, err := a.synthesizer.Synthesize(ctx, request, plan, outcomes)
	if err != nil {
		logger.Error("run failed", "error", err)
		a.record(runID, extra, request, plan, outcomes, "", err.Error(), started)
		return "", err
	}

	metrics.RunDuration.Observe(time.Since(started).Seconds())
	logger.Info("run finished", "duration", time.Since(started), "steps", len(outcomes))
	a.record(runID, extra, request, plan, outcomes, answer, "", started)
	return answer, nil
}

// record journals the run when a journal is configured. Writes get
// their own context so a canceled run is still recorded; failures are
// logged and never affect the answer.
func (a *Agent) record(runID string, extra map[string]any, request string, plan *Plan, outcomes []StepOutcome, answer, errMsg string, started time.Time) {
	if a.journal == nil {
		return
	}

	run := journal.Run{
		ID:         runID,
		Request:    request,
		Answer:     answer,
		Error:      errMsg,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if ch, ok := extra["slack_channel"].(string); ok {
		run.Channel = ch
	}
	if plan != nil {
		b, _ := json.Marshal(plan)
		run.Plan = string(b)
	}
	if outcomes != nil {
		b, _ := json.Marshal(outcomes)
		run.Outcomes = string(b)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.journal.Record(ctx, run); err != nil {
		a.logger.Warn("journal write failed", "run_id", runID, "error", err)
	}
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
