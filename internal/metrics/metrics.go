package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is implemented by the Prometheus metrics and the no-op fallback
type Recorder interface {
	RecordOAuthCallback(success bool)
	RecordTokenStored(success bool)
	RecordSiteRegistration(result string)
	RecordUpstreamCall(operation string, success bool, duration time.Duration)
	RecordSnapshotRefresh(success bool)
	RecordLeaderboardCache(hit bool)
	RecordDatabaseQueryError(operation string)
	SetSitesRegistered(count int)
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Authentication
	OAuthCallbackTotal *prometheus.CounterVec
	TokensStoredTotal  *prometheus.CounterVec

	// Ingestion
	SiteRegistrationsTotal *prometheus.CounterVec
	SnapshotRefreshTotal   *prometheus.CounterVec
	SitesRegistered        prometheus.Gauge

	// Search Console API
	UpstreamCallsTotal    *prometheus.CounterVec
	UpstreamCallDuration  *prometheus.HistogramVec
	LeaderboardCacheTotal *prometheus.CounterVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns Prometheus-backed metrics when enabled and a no-op recorder
// otherwise. Registration with the default registry happens only once.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		OAuthCallbackTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_oauth_callback_total",
				Help: "Total number of Google OAuth callbacks",
			},
			[]string{"result"}, // success, error
		),
		TokensStoredTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_provider_tokens_stored_total",
				Help: "Total number of Google credential upserts",
			},
			[]string{"result"},
		),
		SiteRegistrationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaderboard_site_registrations_total",
				Help: "Total number of site registration attempts",
			},
			[]string{"result"}, // success, unauthenticated, bad_request, no_credential, conflict, upstream_error, error
		),
		SnapshotRefreshTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaderboard_snapshot_refresh_total",
				Help: "Total number of per-site snapshot refreshes",
			},
			[]string{"result"},
		),
		SitesRegistered: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "leaderboard_sites_registered",
				Help: "Current number of sites on the leaderboard",
			},
		),
		UpstreamCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchconsole_calls_total",
				Help: "Total number of Search Console API calls",
			},
			[]string{"operation", "result"},
		),
		UpstreamCallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "searchconsole_call_duration_seconds",
				Help:    "Search Console API call latency",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"operation"},
		),
		LeaderboardCacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaderboard_cache_requests_total",
				Help: "Leaderboard cache lookups",
			},
			[]string{"result"}, // hit, miss
		),
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"},
		),
	}
}

func boolResult(success bool) string {
	if success {
		return resultSuccess
	}
	return resultError
}

// RecordOAuthCallback records the outcome of a Google callback
func (m *Metrics) RecordOAuthCallback(success bool) {
	m.OAuthCallbackTotal.WithLabelValues(boolResult(success)).Inc()
}

// RecordTokenStored records a credential upsert after sign-in or refresh
func (m *Metrics) RecordTokenStored(success bool) {
	m.TokensStoredTotal.WithLabelValues(boolResult(success)).Inc()
}

// RecordSiteRegistration records the outcome of POST /websites
func (m *Metrics) RecordSiteRegistration(result string) {
	m.SiteRegistrationsTotal.WithLabelValues(result).Inc()
}

// RecordUpstreamCall records one Search Console API call
func (m *Metrics) RecordUpstreamCall(operation string, success bool, duration time.Duration) {
	m.UpstreamCallsTotal.WithLabelValues(operation, boolResult(success)).Inc()
	m.UpstreamCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSnapshotRefresh records one site processed by the refresh command
func (m *Metrics) RecordSnapshotRefresh(success bool) {
	m.SnapshotRefreshTotal.WithLabelValues(boolResult(success)).Inc()
}

// RecordLeaderboardCache records a leaderboard cache lookup
func (m *Metrics) RecordLeaderboardCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.LeaderboardCacheTotal.WithLabelValues(result).Inc()
}

// RecordDatabaseQueryError records a failed query
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}

// SetSitesRegistered sets the registered site gauge
func (m *Metrics) SetSitesRegistered(count int) {
	m.SitesRegistered.Set(float64(count))
}
