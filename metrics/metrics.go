package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ViewsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "toiletfinder_views_active",
		Help: "Number of open map views",
	})
	LocationFixesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toiletfinder_location_fixes_total",
		Help: "Total geolocation fixes reported by browsers",
	})
	LocationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toiletfinder_location_failures_total",
		Help: "Total geolocation failures by reason",
	}, []string{"reason"})
	SelectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toiletfinder_selections_total",
		Help: "Total toilet selections",
	})
	RouteBuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toiletfinder_route_builds_total",
		Help: "Route overlay builds by outcome (ok, failed, superseded)",
	}, []string{"outcome"})
	RouteDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "toiletfinder_route_duration_ms",
		Help:    "Routing provider call duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000},
	}, []string{"provider"})
	RouteCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toiletfinder_route_cache_hits_total",
		Help: "Total route cache hits",
	})
	RouteCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toiletfinder_route_cache_misses_total",
		Help: "Total route cache misses",
	})
)

func init() {
	prometheus.MustRegister(ViewsActive)
	prometheus.MustRegister(LocationFixesTotal)
	prometheus.MustRegister(LocationFailuresTotal)
	prometheus.MustRegister(SelectionsTotal)
	prometheus.MustRegister(RouteBuildsTotal)
	prometheus.MustRegister(RouteDurationMs)
	prometheus.MustRegister(RouteCacheHitsTotal)
	prometheus.MustRegister(RouteCacheMissesTotal)
}

func Handler() http.Handler { return promhttp.Handler() }
