// Package metrics holds the Prometheus collectors of the API process.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "contractorhub"

// Result label values.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics groups the domain counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	EntitlementResolutions *prometheus.CounterVec
	BillingToggles         *prometheus.CounterVec
	BillingCreateRetries   prometheus.Counter
	AnalyticsDropped       prometheus.Counter
}

// New registers every collector on registry. Passing nil creates a private registry.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		EntitlementResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entitlement_resolutions_total",
			Help:      "Entitlement resolutions by outcome.",
		}, []string{"result"}),
		BillingToggles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "billing_toggles_total",
			Help:      "Billing pause toggles by outcome.",
		}, []string{"result"}),
		BillingCreateRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "billing_create_retries_total",
			Help:      "Billing get-or-create attempts that lost a unique constraint race and re-read.",
		}),
		AnalyticsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_events_dropped_total",
			Help:      "Analytics events that could not be published.",
		}),
	}
}

// NewDefault also registers the Go runtime and process collectors.
func NewDefault() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(registry)
}

func (m *Metrics) ObserveEntitlement(result string) {
	if m == nil {
		return
	}
	m.EntitlementResolutions.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveToggle(result string) {
	if m == nil {
		return
	}
	m.BillingToggles.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCreateRetry() {
	if m == nil {
		return
	}
	m.BillingCreateRetries.Inc()
}

func (m *Metrics) ObserveAnalyticsDropped() {
	if m == nil {
		return
	}
	m.AnalyticsDropped.Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
