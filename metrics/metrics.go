// Package metrics provides Prometheus instrumentation for the relay.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sophia_updates_total",
			Help: "Inbound webhook updates by decoded type",
		},
		[]string{"type"},
	)

	repliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sophia_replies_total",
			Help: "Replies sent to users by outcome",
		},
		[]string{"status"},
	)

	modelRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sophia_model_requests_total",
			Help: "Chat-completion requests by outcome",
		},
		[]string{"status"},
	)

	modelRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sophia_model_request_duration_seconds",
			Help:    "Duration of chat-completion requests in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 45},
		},
	)

	conversationsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sophia_conversations_tracked",
			Help: "Number of conversations currently held in memory",
		},
	)
)

// RecordUpdate counts one decoded inbound update ("command", "text",
// "dropped" or "decode_error").
func RecordUpdate(updateType string) {
	updatesTotal.WithLabelValues(updateType).Inc()
}

// RecordReply counts one user-facing reply ("ok" or "apology").
func RecordReply(status string) {
	repliesTotal.WithLabelValues(status).Inc()
}

// RecordModelRequest records one chat-completion call.
func RecordModelRequest(status string, duration time.Duration) {
	modelRequestsTotal.WithLabelValues(status).Inc()
	modelRequestDuration.Observe(duration.Seconds())
}

// SetConversationsTracked updates the tracked-conversation gauge.
func SetConversationsTracked(n int) {
	conversationsTracked.Set(float64(n))
}
