// Package agent implements the orchestration pipeline: discover live
// backends, catalog their tools, ask the completion service for a plan,
// execute the plan step by step, and synthesize a final answer.
package agent

import "encoding/json"

// StepKindToolExecution is the only step kind the executor acts on.
// Planners occasionally invent other kinds; those are carried in the
// plan but skipped, never treated as errors.
const StepKindToolExecution = "tool_execution"

// Plan is the planner's output: diagnostic reasoning plus ordered
// steps. A Plan is built once and never mutated; the executor derives a
// separate outcome sequence instead of editing steps in place.
type Plan struct {
	Reasoning string     `json:"reasoning"`
	Steps     []PlanStep `json:"steps"`
}

// PlanStep is one entry of a Plan.
type PlanStep struct {
	Step      int            `json:"step"`
	Kind      string         `json:"kind"`
	Backend   string         `json:"backend"`
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	Purpose   string         `json:"purpose"`
}

// UnmarshalJSON accepts both the canonical field names and the legacy
// action/server spelling the model sometimes produces.
func (s *PlanStep) UnmarshalJSON(data []byte) error {
	var raw struct {
		Step      int            `json:"step"`
		Kind      string         `json:"kind"`
		Action    string         `json:"action"`
		Backend   string         `json:"backend"`
		Server    string         `json:"server"`
		Tool      string         `json:"tool"`
		Arguments map[string]any `json:"arguments"`
		Purpose   string         `json:"purpose"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Step = raw.Step
	s.Kind = raw.Kind
	if s.Kind == "" {
		s.Kind = raw.Action
	}
	s.Backend = raw.Backend
	if s.Backend == "" {
		s.Backend = raw.Server
	}
	s.Tool = raw.Tool
	s.Arguments = raw.Arguments
	s.Purpose = raw.Purpose
	return nil
}

// IsToolExecution reports whether the executor should act on this step.
func (s PlanStep) IsToolExecution() bool {
	return s.Kind == StepKindToolExecution
}

// ToolExecutionCount returns how many steps the executor will act on,
// which is also the length of the outcome sequence it produces.
func (p *Plan) ToolExecutionCount() int {
	n := 0
	for _, s := range p.Steps {
		if s.IsToolExecution() {
			n++
		}
	}
	return n
}
