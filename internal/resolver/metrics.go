package resolver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments probe attempts and resolutions. A nil *Metrics records nothing.
type Metrics struct {
	probeAttempts *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
	resolutions   *prometheus.CounterVec
	resolveTime   prometheus.Histogram
}

// NewMetrics creates the resolver collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		probeAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "obsprobe",
				Subsystem: "resolver",
				Name:      "probe_attempts_total",
				Help:      "Total probe attempts by probe and outcome",
			},
			[]string{"probe", "outcome"},
		),
		probeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "obsprobe",
				Subsystem: "resolver",
				Name:      "probe_duration_seconds",
				Help:      "Probe latency by probe",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
			},
			[]string{"probe"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "obsprobe",
				Subsystem: "resolver",
				Name:      "resolutions_total",
				Help:      "Total resolutions by selected strategy and confidence",
			},
			[]string{"strategy", "confidence"},
		),
		resolveTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "obsprobe",
				Subsystem: "resolver",
				Name:      "resolution_duration_seconds",
				Help:      "Wall time of a full resolution",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
	}

	reg.MustRegister(m.probeAttempts, m.probeDuration, m.resolutions, m.resolveTime)

	return m
}

func (m *Metrics) observeProbe(probe string, outcome Outcome, took time.Duration) {
	if m == nil {
		return
	}

	m.probeAttempts.WithLabelValues(probe, string(outcome)).Inc()
	m.probeDuration.WithLabelValues(probe).Observe(took.Seconds())
}

func (m *Metrics) observeResolution(strategy, confidence string, took time.Duration) {
	if m == nil {
		return
	}

	if strategy == "" {
		strategy = "none"
	}

	m.resolutions.WithLabelValues(strategy, confidence).Inc()
	m.resolveTime.Observe(took.Seconds())
}
