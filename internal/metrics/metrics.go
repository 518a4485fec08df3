// Package metrics bundles Prometheus collectors for the resolution and
// enrichment pipeline on a dedicated registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector the pipeline reports to. All increment
// helpers are nil-safe so components can run without metrics wired.
type Metrics struct {
	Registry                *prometheus.Registry
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec
	DescribeTiersTotal      *prometheus.CounterVec
	SentinelsTotal          *prometheus.CounterVec
	ResolveErrorsTotal      *prometheus.CounterVec
}

// New constructs and registers all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	providerRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibliomatch_provider_requests_total",
			Help: "Requests issued to external providers by outcome.",
		},
		[]string{"provider", "outcome"},
	)
	providerDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bibliomatch_provider_request_duration_seconds",
			Help:    "Latency of external provider requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	describeTiers := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibliomatch_describe_tiers_total",
			Help: "Description fallback tier attempts by outcome.",
		},
		[]string{"tier", "outcome"},
	)
	sentinels := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibliomatch_describe_sentinels_total",
			Help: "Descriptions that settled to a sentinel text, by kind.",
		},
		[]string{"kind"},
	)
	resolveErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibliomatch_resolve_errors_total",
			Help: "Title resolution failures by error type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(providerRequests, providerDuration, describeTiers, sentinels, resolveErrors)

	return &Metrics{
		Registry:                registry,
		ProviderRequestsTotal:   providerRequests,
		ProviderRequestDuration: providerDuration,
		DescribeTiersTotal:      describeTiers,
		SentinelsTotal:          sentinels,
		ResolveErrorsTotal:      resolveErrors,
	}
}

// IncProviderRequest counts one provider request with its outcome label.
func (m *Metrics) IncProviderRequest(provider, outcome string) {
	if m == nil {
		return
	}
	m.ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
}

// ObserveProviderDuration records the latency of one provider request.
func (m *Metrics) ObserveProviderDuration(provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequestDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// IncDescribeTier counts a fallback tier attempt.
func (m *Metrics) IncDescribeTier(tier, outcome string) {
	if m == nil {
		return
	}
	m.DescribeTiersTotal.WithLabelValues(tier, outcome).Inc()
}

// IncSentinel counts a description that settled to a sentinel text.
func (m *Metrics) IncSentinel(kind string) {
	if m == nil {
		return
	}
	m.SentinelsTotal.WithLabelValues(kind).Inc()
}

// IncResolveError counts a failed title resolution by error type.
func (m *Metrics) IncResolveError(errorType string) {
	if m == nil {
		return
	}
	m.ResolveErrorsTotal.WithLabelValues(errorType).Inc()
}
