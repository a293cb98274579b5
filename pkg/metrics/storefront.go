package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records checkout submissions and Telegram deliveries.
type StorefrontMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	checkoutTotal    *prometheus.CounterVec
	notifyTotal      *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	checkoutTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
	notifyTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telegram_notifications_total",
		Help: "Telegram notification attempts by kind and outcome.",
	}, []string{"kind", "outcome"})
	reg.MustRegister(checkoutDuration, checkoutTotal, notifyTotal)
	return &StorefrontMetrics{
		checkoutDuration: checkoutDuration,
		checkoutTotal:    checkoutTotal,
		notifyTotal:      notifyTotal,
	}
}

// ObserveCheckout records a checkout submission and its duration.
func (s *StorefrontMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if s == nil || s.checkoutDuration == nil {
		return
	}
	label := normalizeLabel(outcome)
	s.checkoutDuration.WithLabelValues(label).Observe(duration.Seconds())
	s.checkoutTotal.WithLabelValues(label).Inc()
}

// IncNotification counts a Telegram delivery attempt.
func (s *StorefrontMetrics) IncNotification(kind, outcome string) {
	if s == nil || s.notifyTotal == nil {
		return
	}
	s.notifyTotal.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
