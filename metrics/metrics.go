// Package metrics exposes Prometheus instrumentation for the HTTP surface.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the skydome metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Requests  *prometheus.CounterVec   // route, code, method
	Durations *prometheus.HistogramVec // route, code, method

	SceneBuilds   prometheus.Histogram
	SkippedCities prometheus.Counter
	StaleSearches prometheus.Counter
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil. Registering twice on one registry reuses the existing
// collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skydome_http_requests_total",
		Help: "Handled HTTP requests by route, status code and method.",
	}, []string{"route", "code", "method"}), "skydome_http_requests_total")
	if err != nil {
		return nil, err
	}
	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skydome_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"route", "code", "method"}), "skydome_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}
	builds, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "skydome_scene_build_duration_seconds",
		Help:    "Time to compose one scene.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}), "skydome_scene_build_duration_seconds")
	if err != nil {
		return nil, err
	}
	skipped, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skydome_skipped_cities_total",
		Help: "Cities left out of a scene because their location did not resolve.",
	}), "skydome_skipped_cities_total")
	if err != nil {
		return nil, err
	}
	stale, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skydome_geocode_stale_total",
		Help: "Geocoding results discarded because a newer query superseded them.",
	}), "skydome_geocode_stale_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		Requests:      requests,
		Durations:     durations,
		SceneBuilds:   builds,
		SkippedCities: skipped,
		StaleSearches: stale,
	}, nil
}

// Instrument wraps h so its requests are counted and timed under route.
func (c *Collector) Instrument(route string, h http.Handler) http.Handler {
	if c == nil {
		return h
	}
	labels := prometheus.Labels{"route": route}
	return promhttp.InstrumentHandlerDuration(c.Durations.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(c.Requests.MustCurryWith(labels), h))
}

// Handler exposes the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveScene records one scene build.
func (c *Collector) ObserveScene(seconds float64, skipped int) {
	if c == nil {
		return
	}
	c.SceneBuilds.Observe(seconds)
	c.SkippedCities.Add(float64(skipped))
}

// ObserveSearch records the outcome of a liveness-guarded search.
func (c *Collector) ObserveSearch(applied bool) {
	if c == nil || applied {
		return
	}
	c.StaleSearches.Inc()
}

func register[T prometheus.Collector](reg prometheus.Registerer, col T, name string) (T, error) {
	if err := reg.Register(col); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return col, nil
}
