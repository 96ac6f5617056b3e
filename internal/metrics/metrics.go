// Package metrics holds the Prometheus collectors of the proxy functions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "guardduty_proxy"

// Metrics groups the collectors updated by the handlers.
type Metrics struct {
	registry *prometheus.Registry

	Invocations        *prometheus.CounterVec
	DownstreamDuration *prometheus.HistogramVec
}

// New creates the collectors on a dedicated registry, together with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Number of function invocations by function and outcome.",
		}, []string{"function", "outcome"}),
		DownstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "downstream_duration_seconds",
			Help:      "Duration of GuardDuty API calls by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(
		m.Invocations,
		m.DownstreamDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveInvocation counts one finished invocation.
func (m *Metrics) ObserveInvocation(function, outcome string) {
	if m == nil {
		return
	}
	m.Invocations.WithLabelValues(function, outcome).Inc()
}

// ObserveDownstream records the duration of one GuardDuty call started at start.
func (m *Metrics) ObserveDownstream(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.DownstreamDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
