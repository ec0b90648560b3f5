package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks upstream traffic and sync outcomes.
// All methods are safe on a nil receiver so collaborators can run without metrics.
type Metrics struct {
	registry *prometheus.Registry

	UpstreamRequests    *prometheus.CounterVec
	UpstreamDuration    *prometheus.HistogramVec
	IdentitiesCreated   prometheus.Counter
	IdentitiesRefreshed prometheus.Counter
	ItemsIngested       prometheus.Counter
	ItemsRejected       prometheus.Counter
	EnrichmentFailures  prometheus.Counter
	TokensIssued        *prometheus.CounterVec
}

// New creates a Metrics instance registered on its own registry,
// together with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "steamsync_upstream_requests_total",
			Help: "Steam API calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "steamsync_upstream_duration_seconds",
			Help:    "Duration of Steam API calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		IdentitiesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "steamsync_identities_created_total",
			Help: "Identities mirrored from Steam",
		}),
		IdentitiesRefreshed: f.NewCounter(prometheus.CounterOpts{
			Name: "steamsync_identities_refreshed_total",
			Help: "Identities overwritten from a fresh Steam snapshot",
		}),
		ItemsIngested: f.NewCounter(prometheus.CounterOpts{
			Name: "steamsync_inventory_items_ingested_total",
			Help: "Inventory items inserted by sync",
		}),
		ItemsRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "steamsync_inventory_items_rejected_total",
			Help: "Inventory descriptions skipped as malformed",
		}),
		EnrichmentFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "steamsync_enrichment_failures_total",
			Help: "Best-effort game enrichment tasks that failed",
		}),
		TokensIssued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "steamsync_tokens_issued_total",
			Help: "Tokens issued by class",
		}, []string{"class"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUpstream records one Steam call.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveUpstream(endpoint, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncIdentityCreated() {
	if m == nil {
		return
	}
	m.IdentitiesCreated.Inc()
}

func (m *Metrics) IncIdentityRefreshed() {
	if m == nil {
		return
	}
	m.IdentitiesRefreshed.Inc()
}

func (m *Metrics) AddItemsIngested(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ItemsIngested.Add(float64(n))
}

func (m *Metrics) AddItemsRejected(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ItemsRejected.Add(float64(n))
}

func (m *Metrics) IncEnrichmentFailure() {
	if m == nil {
		return
	}
	m.EnrichmentFailures.Inc()
}

func (m *Metrics) IncTokenIssued(class string) {
	if m == nil {
		return
	}
	m.TokensIssued.WithLabelValues(class).Inc()
}
