// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yuno_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yuno_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LLMDuration tracks inference latency behind the ask endpoint.
	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yuno_llm_duration_seconds",
			Help:    "LLM completion duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"model", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yuno_llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// ChatTurnsTotal tracks chat turns served per site.
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yuno_chat_turns_total",
			Help: "Chat turns answered by the ask endpoint",
		},
		[]string{"site_id", "outcome"},
	)

	// WidgetRepliesTotal tracks replies appended by widget hosts, split by
	// whether the remote content or a fallback message was used.
	WidgetRepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yuno_widget_replies_total",
			Help: "Assistant replies appended by the widget",
		},
		[]string{"kind"},
	)

	// LeadsTotal tracks lead-capture submissions.
	LeadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yuno_leads_total",
			Help: "Lead capture submissions",
		},
		[]string{"kind", "outcome"},
	)

	// TranscriptPublishTotal tracks transcript messages published to NATS.
	TranscriptPublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yuno_transcript_publish_total",
			Help: "Transcript messages published to JetStream",
		},
		[]string{"role", "status"},
	)

	// WidgetsMounted tracks widget instances booted by the embed registry.
	WidgetsMounted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "yuno_widgets_mounted",
			Help: "Widget instances currently mounted",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLM records metrics for one completion.
func RecordLLM(model, status string, duration float64, tokensIn, tokensOut int) {
	LLMDuration.WithLabelValues(model, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// RecordLead records a lead submission outcome.
func RecordLead(kind, outcome string) {
	LeadsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordWidgetReply records which kind of reply the widget appended.
func RecordWidgetReply(kind string) {
	WidgetRepliesTotal.WithLabelValues(kind).Inc()
}
