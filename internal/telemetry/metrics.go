package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one agent run.
// Uses a custom registry, no global state. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	ToolCallsTotal   *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec

	ModelRequestsTotal   *prometheus.CounterVec
	ModelRequestDuration *prometheus.HistogramVec
	ModelTokensUsed      *prometheus.CounterVec

	LoopRounds prometheus.Histogram
}

// NewMetrics creates Metrics with all collectors registered on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		ToolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aiagent",
			Subsystem: "tool",
			Name:      "calls_total",
			Help:      "Total tool calls by outcome.",
		}, []string{"tool", "status"}),

		ToolCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aiagent",
			Subsystem: "tool",
			Name:      "call_duration_seconds",
			Help:      "Tool call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),

		ModelRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aiagent",
			Subsystem: "model",
			Name:      "requests_total",
			Help:      "Total model requests by outcome.",
		}, []string{"status"}),

		ModelRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aiagent",
			Subsystem: "model",
			Name:      "request_duration_seconds",
			Help:      "Model request duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"status"}),

		ModelTokensUsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aiagent",
			Subsystem: "model",
			Name:      "tokens_used_total",
			Help:      "Total model tokens consumed.",
		}, []string{"direction"}),

		LoopRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aiagent",
			Subsystem: "loop",
			Name:      "rounds",
			Help:      "Model rounds per run.",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
		}),
	}

	reg.MustRegister(
		m.ToolCallsTotal,
		m.ToolCallDuration,
		m.ModelRequestsTotal,
		m.ModelRequestDuration,
		m.ModelTokensUsed,
		m.LoopRounds,
	)

	return m
}

// RecordToolCall records one tool invocation.
func (m *Metrics) RecordToolCall(tool string, failed bool, d time.Duration) {
	if m == nil {
		return
	}
	m.ToolCallsTotal.WithLabelValues(tool, status(failed)).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// RecordModelCall records one model request and the tokens it reported.
func (m *Metrics) RecordModelCall(failed bool, d time.Duration, promptTokens, responseTokens int) {
	if m == nil {
		return
	}
	s := status(failed)
	m.ModelRequestsTotal.WithLabelValues(s).Inc()
	m.ModelRequestDuration.WithLabelValues(s).Observe(d.Seconds())
	m.ModelTokensUsed.WithLabelValues("prompt").Add(float64(promptTokens))
	m.ModelTokensUsed.WithLabelValues("response").Add(float64(responseTokens))
}

// RecordRounds records the number of model rounds a run took.
func (m *Metrics) RecordRounds(rounds int) {
	if m == nil {
		return
	}
	m.LoopRounds.Observe(float64(rounds))
}

// WriteToTextfile writes the registry in the text exposition format,
// for collection by a node_exporter textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}

func status(failed bool) string {
	if failed {
		return "failure"
	}
	return "success"
}
