// Package metrics exports Prometheus metrics for the content service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all content-service Prometheus metrics.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	PageNotFoundTotal *prometheus.CounterVec
	EmptyResultTotal  *prometheus.CounterVec
	ResearchFallbacks prometheus.Counter
}

// New registers and returns the service metrics.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "content_http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "content_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"route"}),

		PageNotFoundTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "content_page_not_found_total",
			Help: "Route parameters that resolved to no content record",
		}, []string{"collection"}),

		EmptyResultTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "content_empty_result_total",
			Help: "Filter or search requests that yielded zero records",
		}, []string{"collection"}),

		ResearchFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "content_research_fallback_total",
			Help: "Research queries answered with the fixed fallback payload",
		}),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware observes request counts and latencies per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
