// Package metrics exposes Prometheus instrumentation for action handling and
// key redemption.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "keyforge"

// Outcome labels for ActionCounter.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Metrics struct {
	ActionCounter     *prometheus.CounterVec
	ActionDuration    *prometheus.HistogramVec
	ValidationCounter *prometheus.CounterVec
	gatherer          prometheus.Gatherer
}

// NewMetrics registers the collectors on reg. reg should also implement
// prometheus.Gatherer for Handler to serve it.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ActionCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Actions handled, by action and outcome.",
		}, []string{"action", "outcome"}),
		ActionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Time spent handling an action.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		ValidationCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Key redemptions, by decision reason.",
		}, []string{"reason"}),
	}

	for _, c := range []prometheus.Collector{m.ActionCounter, m.ActionDuration, m.ValidationCounter} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}
	return m, nil
}

func (m *Metrics) RecordAction(action, outcome string, elapsed time.Duration) {
	m.ActionCounter.WithLabelValues(action, outcome).Inc()
	m.ActionDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordValidation(reason string) {
	m.ValidationCounter.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
