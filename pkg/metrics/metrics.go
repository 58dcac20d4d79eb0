package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LLM call latency in milliseconds, labeled by provider and outcome.
	LLMCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_call_latency_ms",
			Help:    "LLM completion call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"provider", "status"},
	)

	// Assistant commands executed, labeled by action kind and outcome.
	AssistantCommandCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_command_count",
			Help: "Total number of assistant commands executed",
		},
		[]string{"action", "status"}, // status: success, failed, fallback
	)

	// Full interpret-and-execute pipeline latency in milliseconds.
	AssistantPipelineLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_pipeline_latency_ms",
			Help:    "Assistant interpret-and-execute latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10),
		},
		[]string{"status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	ReminderDispatchCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_dispatch_count",
			Help: "Total number of reminder events dispatched",
		},
		[]string{"kind"}, // kind: reminder, overdue
	)
)

// RecordLLMCallLatency records one LLM completion call.
func RecordLLMCallLatency(provider, status string, duration time.Duration) {
	LLMCallLatency.WithLabelValues(provider, status).Observe(float64(duration.Milliseconds()))
}

// IncrementAssistantCommand counts one executed assistant command.
func IncrementAssistantCommand(action, status string) {
	AssistantCommandCount.WithLabelValues(action, status).Inc()
}

// RecordAssistantPipelineLatency records one full interpret-and-execute cycle.
func RecordAssistantPipelineLatency(status string, duration time.Duration) {
	AssistantPipelineLatency.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

// RecordDBQueryDuration records one repository query.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records one HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementReminderDispatch counts one dispatched reminder/overdue event.
func IncrementReminderDispatch(kind string) {
	ReminderDispatchCount.WithLabelValues(kind).Inc()
}
