package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slackmcp_events_routed_total",
			Help: "Total number of mention events routed, by handler kind",
		},
		[]string{"kind"},
	)

	HandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slackmcp_handler_errors_total",
			Help: "Total number of handler faults caught by the router",
		},
		[]string{"kind"},
	)

	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slackmcp_tool_calls_total",
			Help: "Total number of plan steps executed, by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	PlanSteps = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slackmcp_plan_steps",
			Help:    "Number of actionable steps per generated plan",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "slackmcp_run_duration_seconds",
			Help: "End-to-end orchestration run duration in seconds",
		},
	)

	LiveBackends = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slackmcp_live_backends",
			Help: "Number of backends that answered the most recent probe",
		},
	)
)
