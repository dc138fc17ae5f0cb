// Package metrics defines the Prometheus metrics of the action server.
// All Record* helpers are safe on a nil *Metrics so that tests and the CLI
// can run actions without a registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	factory promauto.Factory

	// Dispatch metrics
	DispatchTotal           *prometheus.CounterVec
	DispatchDurationSeconds *prometheus.HistogramVec

	// Outbound call metrics
	ExternalRequestsTotal   *prometheus.CounterVec
	ExternalDurationSeconds *prometheus.HistogramVec
	DegradedTotal           *prometheus.CounterVec

	// Audio store metrics
	AudioUploadsTotal *prometheus.CounterVec

	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds prometheus.Histogram
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		factory: factory,
		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actions_dispatch_total",
				Help: "Total number of action dispatches by action and outcome",
			},
			[]string{"action", "outcome"}, // outcome: ok, degraded, panic, unknown
		),

		DispatchDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "actions_dispatch_duration_seconds",
				Help:    "Action dispatch duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"action"},
		),

		ExternalRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actions_external_requests_total",
				Help: "Total outbound service calls by service and result",
			},
			[]string{"service", "result"}, // result: success or a failure kind
		),

		ExternalDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "actions_external_duration_seconds",
				Help:    "Outbound service call duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30}, // up to the speech timeout
			},
			[]string{"service"},
		),

		DegradedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actions_degraded_total",
				Help: "Replies substituted after an outbound failure, by service and kind",
			},
			[]string{"service", "kind"},
		),

		AudioUploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actions_audio_uploads_total",
				Help: "Synthesized clips stored in the audio store by result",
			},
			[]string{"result"}, // result: success, error
		),

		WebhookRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actions_webhook_requests_total",
				Help: "Total webhook requests by HTTP status class",
			},
			[]string{"status"}, // status: ok, bad_request
		),

		WebhookDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "actions_webhook_duration_seconds",
				Help:    "Webhook request handling duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
	}
}

// RecordDispatch records one finished dispatch.
func (m *Metrics) RecordDispatch(action, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.DispatchTotal.WithLabelValues(action, outcome).Inc()
	m.DispatchDurationSeconds.WithLabelValues(action).Observe(seconds)
}

// RecordExternal records one outbound call.
func (m *Metrics) RecordExternal(service, result string, seconds float64) {
	if m == nil {
		return
	}
	m.ExternalRequestsTotal.WithLabelValues(service, result).Inc()
	m.ExternalDurationSeconds.WithLabelValues(service).Observe(seconds)
}

// RecordDegraded counts a substituted reply.
func (m *Metrics) RecordDegraded(service, kind string) {
	if m == nil {
		return
	}
	m.DegradedTotal.WithLabelValues(service, kind).Inc()
}

// RecordAudioUpload counts a clip upload attempt.
func (m *Metrics) RecordAudioUpload(result string) {
	if m == nil {
		return
	}
	m.AudioUploadsTotal.WithLabelValues(result).Inc()
}

// RecordWebhook records one webhook request.
func (m *Metrics) RecordWebhook(status string, seconds float64) {
	if m == nil {
		return
	}
	m.WebhookRequestsTotal.WithLabelValues(status).Inc()
	m.WebhookDurationSeconds.Observe(seconds)
}

// ObserveLogDrops exports dropped() as actions_log_records_dropped_total.
// Call it once per registry.
func (m *Metrics) ObserveLogDrops(dropped func() uint64) {
	if m == nil || dropped == nil {
		return
	}
	m.factory.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "actions_log_records_dropped_total",
			Help: "Log records discarded because the remote log buffer was full",
		},
		func() float64 { return float64(dropped()) },
	)
}
