package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records reconciliation outcomes for payment events.
type PaymentMetrics struct {
	applied   *prometheus.CounterVec
	duplicate *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_reconciliation_applied",
		Help: "Payment events that transitioned a payment to a terminal status.",
	}, []string{"source"})
	duplicate := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_reconciliation_duplicate",
		Help: "Payment events ignored because the payment was already settled.",
	}, []string{"source"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_reconciliation_rejected",
		Help: "Payment events rejected during validation or reconciliation.",
	}, []string{"source"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_reconciliation_duration_seconds",
		Help:    "Duration of payment reconciliation in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	reg.MustRegister(applied, duplicate, rejected, duration)
	return &PaymentMetrics{
		applied:   applied,
		duplicate: duplicate,
		rejected:  rejected,
		duration:  duration,
	}
}

// IncApplied increments the applied counter for the named event source.
func (p *PaymentMetrics) IncApplied(source string) {
	if p == nil || p.applied == nil {
		return
	}
	p.applied.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncDuplicate increments the duplicate counter for the named event source.
func (p *PaymentMetrics) IncDuplicate(source string) {
	if p == nil || p.duplicate == nil {
		return
	}
	p.duplicate.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncRejected increments the rejected counter for the named event source.
func (p *PaymentMetrics) IncRejected(source string) {
	if p == nil || p.rejected == nil {
		return
	}
	p.rejected.WithLabelValues(normalizeLabel(source)).Inc()
}

// ObserveDuration records the reconciliation duration for the named source.
func (p *PaymentMetrics) ObserveDuration(source string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

func normalizeLabel(source string) string {
	if source == "" {
		return "unknown"
	}
	return source
}
