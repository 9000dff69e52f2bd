// Package metrics exposes payment gate counters and latencies to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "x402"

type Prometheus struct {
	verifications       *prometheus.CounterVec
	verificationLatency *prometheus.HistogramVec
	facilitatorCalls    *prometheus.CounterVec
	facilitatorLatency  *prometheus.HistogramVec
	gateDecisions       *prometheus.CounterVec
}

// New registers the collectors with reg. Registering twice on the same registry panics.
func New(reg prometheus.Registerer) *Prometheus {
	m := &Prometheus{
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Payment verifications by outcome.",
		}, []string{"outcome"}),
		verificationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "verification_duration_seconds",
			Help:      "Time spent verifying a payment, facilitator call included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		facilitatorCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facilitator_calls_total",
			Help:      "Facilitator verify calls by outcome.",
		}, []string{"outcome"}),
		facilitatorLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "facilitator_call_duration_seconds",
			Help:      "Facilitator verify call latency.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"outcome"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Paywall decisions by policy and state.",
		}, []string{"policy", "state"}),
	}

	reg.MustRegister(
		m.verifications,
		m.verificationLatency,
		m.facilitatorCalls,
		m.facilitatorLatency,
		m.gateDecisions,
	)
	return m
}

func (m *Prometheus) ObserveVerification(outcome string, elapsed time.Duration) {
	m.verifications.WithLabelValues(outcome).Inc()
	m.verificationLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Prometheus) ObserveFacilitatorCall(outcome string, elapsed time.Duration) {
	m.facilitatorCalls.WithLabelValues(outcome).Inc()
	m.facilitatorLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Prometheus) ObserveGateDecision(policy, state string) {
	m.gateDecisions.WithLabelValues(policy, state).Inc()
}
