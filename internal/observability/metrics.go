package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the bridge.
type Metrics struct {
	// Refresh cycle metrics. feed={weather,lightning}, outcome={success,error}.
	RefreshTotal    *prometheus.CounterVec
	RefreshDuration *prometheus.HistogramVec // labels: feed

	// Age of the weather snapshot currently served, in seconds.
	SnapshotAgeSeconds prometheus.Gauge

	// Lightning strikes retained after radius filtering.
	LightningStrikes prometheus.Gauge

	// Entity states pushed to the Kafka sink.
	StatesPublished prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge

	// Upstream circuit breaker state. 1 when open.
	BreakerOpen prometheus.Gauge
}

// ObserveGeocodeRequest records one geocoding API call.
func (m *Metrics) ObserveGeocodeRequest(outcome string, duration time.Duration) {
	m.GeocodeRequests.WithLabelValues(outcome).Inc()
	m.GeocodeAPIDuration.Observe(duration.Seconds())
}

// ObserveGeocodeCache records one geocoding cache lookup.
func (m *Metrics) ObserveGeocodeCache(result string) {
	m.GeocodeCache.WithLabelValues(result).Inc()
}

// SetBreakerOpen records the upstream circuit breaker state.
func (m *Metrics) SetBreakerOpen(open bool) {
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}

// NewMetrics creates and registers all bridge metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fmi_bridge",
			Name:      "refresh_total",
			Help:      "Refresh cycles by feed and outcome.",
		}, []string{"feed", "outcome"}),
		RefreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fmi_bridge",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-shape-publish cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"feed"}),
		SnapshotAgeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fmi_bridge",
			Name:      "snapshot_age_seconds",
			Help:      "Age of the weather snapshot currently served.",
		}),
		LightningStrikes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fmi_bridge",
			Name:      "lightning_strikes",
			Help:      "Strikes inside the configured radius in the latest refresh.",
		}),
		StatesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fmi_bridge",
			Name:      "states_published_total",
			Help:      "Entity state documents written to the sink topic.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fmi_bridge",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fmi_bridge",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fmi_bridge",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fmi_bridge",
			Name:      "geocode_enabled",
			Help:      "1 when place-name resolution is enabled, 0 otherwise.",
		}),
		BreakerOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fmi_bridge",
			Name:      "upstream_breaker_open",
			Help:      "1 when the upstream circuit breaker is open.",
		}),
	}

	prometheus.MustRegister(
		m.RefreshTotal,
		m.RefreshDuration,
		m.SnapshotAgeSeconds,
		m.LightningStrikes,
		m.StatesPublished,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
		m.BreakerOpen,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RefreshTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fmi_bridge", Name: "refresh_total"}, []string{"feed", "outcome"}),
		RefreshDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "fmi_bridge", Name: "refresh_duration_seconds"}, []string{"feed"}),
		SnapshotAgeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fmi_bridge", Name: "snapshot_age_seconds"}),
		LightningStrikes:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fmi_bridge", Name: "lightning_strikes"}),
		StatesPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fmi_bridge", Name: "states_published_total"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fmi_bridge", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fmi_bridge", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fmi_bridge", Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fmi_bridge", Name: "geocode_enabled"}),
		BreakerOpen:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fmi_bridge", Name: "upstream_breaker_open"}),
	}
}
