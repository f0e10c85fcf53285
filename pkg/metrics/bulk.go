package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BulkActionMetrics tracks the per-item outcomes of bulk lead operations.
type BulkActionMetrics struct {
	items    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewBulkActionMetrics registers bulk action metrics on the provided registerer.
func NewBulkActionMetrics(reg prometheus.Registerer) *BulkActionMetrics {
	if reg == nil {
		return &BulkActionMetrics{}
	}
	items := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bulk_action_items",
		Help: "Lead items processed by bulk actions, labelled by outcome.",
	}, []string{"action", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bulk_action_duration_seconds",
		Help:    "Duration of bulk lead actions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})
	reg.MustRegister(items, duration)
	return &BulkActionMetrics{items: items, duration: duration}
}

// ObserveBatch records one completed bulk action run.
func (b *BulkActionMetrics) ObserveBatch(action string, succeeded, skipped, failed int, elapsed time.Duration) {
	if b == nil || b.items == nil {
		return
	}
	action = normalizeLabel(action)
	b.items.WithLabelValues(action, "succeeded").Add(float64(succeeded))
	b.items.WithLabelValues(action, "skipped").Add(float64(skipped))
	b.items.WithLabelValues(action, "failed").Add(float64(failed))
	b.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}
