package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MailMetrics records delivery attempts per transport in the fallback chain.
type MailMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewMailMetrics registers the mail delivery metrics on the provided registerer.
func NewMailMetrics(reg prometheus.Registerer) *MailMetrics {
	if reg == nil {
		return &MailMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mail_send_duration_seconds",
		Help:    "Duration of mail transport send attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"transport"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_send_success",
		Help: "Successful mail sends per transport.",
	}, []string{"transport"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_send_failure",
		Help: "Failed mail sends per transport.",
	}, []string{"transport"})
	reg.MustRegister(duration, success, failure)
	return &MailMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for one send attempt.
func (m *MailMetrics) ObserveDuration(transport string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(transport)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named transport.
func (m *MailMetrics) IncSuccess(transport string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(transport)).Inc()
}

// IncFailure increments the failure counter for the named transport.
func (m *MailMetrics) IncFailure(transport string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(transport)).Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
