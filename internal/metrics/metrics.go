package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts and times repository operations. Each Recorder owns its
// registry so tests and embedders never collide on global registration.
type Recorder struct {
	registry *prometheus.Registry

	// Operations by op (load, save, add, ...) and outcome (ok, not_found, ...)
	Operations *prometheus.CounterVec
	// Duration of each operation, storage round trips included
	Duration *prometheus.HistogramVec
	// Reminder deliveries by outcome
	Reminders *prometheus.CounterVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streakone_repository_operations_total",
				Help: "Total repository operations",
			},
			[]string{"op", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "streakone_repository_operation_duration_seconds",
				Help:    "Repository operation duration seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"op"},
		),
		Reminders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streakone_reminders_delivered_total",
				Help: "Reminder notifications by delivery outcome",
			},
			[]string{"outcome"},
		),
	}
	r.registry.MustRegister(r.Operations, r.Duration, r.Reminders)
	return r
}

// Observe records one finished repository operation.
func (r *Recorder) Observe(op, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.Operations.WithLabelValues(op, outcome).Inc()
	r.Duration.WithLabelValues(op).Observe(d.Seconds())
}

// ReminderDelivered records the outcome of a reminder delivery.
func (r *Recorder) ReminderDelivered(outcome string) {
	if r == nil {
		return
	}
	r.Reminders.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
