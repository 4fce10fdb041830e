package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akeren/waitlist-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "waitlist_api"

type metrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	rateLimited *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	labels := []string{"method", "route", "status"}

	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status.",
		}, labels),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, labels),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected with 429, by route.",
		}, []string{"route"}),
	}

	reg.MustRegister(m.requests, m.latency, m.rateLimited)
	return m
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

func (m *metrics) observe(c *gin.Context, start time.Time) {
	route := routeLabel(c)
	status := strconv.Itoa(c.Writer.Status())

	m.requests.WithLabelValues(c.Request.Method, route, status).Inc()
	m.latency.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
}

// recordRateLimited is a no-op when metrics are disabled.
func (routerService *RouterService) recordRateLimited(c *gin.Context) {
	if routerService.metrics == nil {
		return
	}
	routerService.metrics.rateLimited.WithLabelValues(routeLabel(c)).Inc()
}

// mountMetrics serves a private registry on /metrics unless METRICS_ENABLED=false.
func (routerService *RouterService) mountMetrics() {
	if !utils.EnvBool("METRICS_ENABLED", true) {
		routerService.logger.Info("Metrics disabled (METRICS_ENABLED=false)")
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	m := newMetrics(reg)
	routerService.metrics = m

	routerService.engine.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.observe(c, start)
	})

	routerService.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	// No CORS preflight for the scrape endpoint.
	routerService.engine.OPTIONS("/metrics", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNoContent)
	})

	routerService.logger.Info("Metrics endpoint mounted", "path", "/metrics")
}
