// Package metrics exposes HTTP and lending counters for prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	ServiceName string

	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	statusCategory  *prometheus.CounterVec
	lendingActions  *prometheus.CounterVec
	penaltiesIssued prometheus.Counter
}

func New(serviceName string) *Metrics {
	m := &Metrics{
		ServiceName: serviceName,
		registry:    prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusCategory: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category"},
		),
		lendingActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_lending_actions_total",
				Help: "Reserve, borrow and return attempts by outcome",
			},
			[]string{"action", "outcome"},
		),
		penaltiesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "library_penalties_total",
			Help: "Penalties recorded for late returns",
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.statusCategory,
		m.lendingActions,
		m.penaltiesIssued,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records one observation per request, labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		m.requests.WithLabelValues(m.ServiceName, c.Request.Method, path, statusStr).Inc()
		m.duration.WithLabelValues(m.ServiceName, c.Request.Method, path, statusStr).
			Observe(time.Since(start).Seconds())
		if category := statusCategory(status); category != "" {
			m.statusCategory.WithLabelValues(m.ServiceName, category).Inc()
		}
	}
}

// ObserveLending counts a reserve/borrow/return attempt. err == nil is a success.
func (m *Metrics) ObserveLending(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	m.lendingActions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) ObservePenalty() {
	m.penaltiesIssued.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}
