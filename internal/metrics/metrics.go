package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the portal
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	SponsorApplicationsTotal *prometheus.CounterVec
	EmailsTotal              *prometheus.CounterVec
	DocumentsUploadedTotal   *prometheus.CounterVec
	EventSignupsTotal        *prometheus.CounterVec
	RateLimitedTotal         *prometheus.CounterVec
}

// NewMetricsRegistry registers every metric with reg. The server passes
// prometheus.DefaultRegisterer; tests pass a fresh prometheus.NewRegistry().
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "portal_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		SponsorApplicationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_sponsor_applications_total",
				Help: "Sponsor application submissions by outcome",
			},
			[]string{"outcome"},
		),
		EmailsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_emails_total",
				Help: "Transactional emails by template and outcome",
			},
			[]string{"template", "outcome"},
		),
		DocumentsUploadedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_documents_uploaded_total",
				Help: "Documents uploaded by access level",
			},
			[]string{"access_level"},
		),
		EventSignupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_event_signups_total",
				Help: "Event signup transitions by resulting status",
			},
			[]string{"status"},
		),
		RateLimitedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_rate_limited_total",
				Help: "Requests rejected by the per-IP limiter",
			},
			[]string{"endpoint"},
		),
	}
}
