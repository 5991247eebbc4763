package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Action outcome labels for RecordAction.
const (
	StatusSuccess = "success"
	StatusPrompt  = "prompt"
	StatusError   = "error"
	StatusUnknown = "unknown"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Backend metrics
	BackendRequestsTotal   *prometheus.CounterVec
	BackendDurationSeconds *prometheus.HistogramVec

	// Action metrics
	ActionRequestsTotal   *prometheus.CounterVec
	ActionDurationSeconds *prometheus.HistogramVec

	// Webhook metrics
	WebhookRequestsTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Backend metrics
		BackendRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mercabot_backend_requests_total",
				Help: "Total number of store backend requests by collection and status",
			},
			[]string{"collection", "status"}, // status: success, error, not_found
		),

		BackendDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mercabot_backend_duration_seconds",
				Help:    "Store backend request duration in seconds by collection",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}, // Matches 5s backend timeout
			},
			[]string{"collection"}, // collection: orders, customers, products, payments
		),

		// Action metrics
		ActionRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mercabot_action_requests_total",
				Help: "Total number of executed actions by action name and status",
			},
			[]string{"action", "status"}, // status: success, prompt, error, unknown
		),

		ActionDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mercabot_action_duration_seconds",
				Help:    "Action execution duration in seconds by action name",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"action"},
		),

		// Webhook metrics
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mercabot_webhook_requests_total",
				Help: "Total number of webhook requests by status",
			},
			[]string{"status"}, // status: ok, bad_request, unknown_action, rate_limited
		),

		// HTTP metrics
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "mercabot_http_errors_total",
				Help: "Total number of HTTP errors by type and module",
			},
			[]string{"error_type", "module"},
		),
	}

	return m
}

// RecordBackendRequest records a store backend request with its outcome
func (m *Metrics) RecordBackendRequest(collection, status string, duration float64) {
	m.BackendRequestsTotal.WithLabelValues(collection, status).Inc()
	m.BackendDurationSeconds.WithLabelValues(collection).Observe(duration)
}

// RecordAction records an executed action with its outcome
func (m *Metrics) RecordAction(action, status string, duration float64) {
	m.ActionRequestsTotal.WithLabelValues(action, status).Inc()
	m.ActionDurationSeconds.WithLabelValues(action).Observe(duration)
}

// RecordWebhook records a webhook request
func (m *Metrics) RecordWebhook(status string) {
	m.WebhookRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHTTPError records an HTTP error
func (m *Metrics) RecordHTTPError(errorType, module string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, module).Inc()
}
