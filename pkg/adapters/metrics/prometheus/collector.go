package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	analyzeRequests *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
	dependencyUp    *prometheus.GaugeVec
}

// NewCollector creates a new Prometheus metrics collector registered on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kdp_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kdp_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
			},
			[]string{"method", "route"},
		),
		analyzeRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kdp_analyze_requests_total",
				Help: "Total number of keyword analysis requests by outcome",
			},
			[]string{"outcome"},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kdp_events_published_total",
				Help: "Total number of analysis events published",
			},
			[]string{"topic", "status"},
		),
		dependencyUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kdp_dependency_up",
				Help: "Whether a dependency answered its last health check (1) or not (0)",
			},
			[]string{"dependency"},
		),
	}
}

// ObserveHTTPRequest records a served HTTP request
func (c *Collector) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAnalyzeRequest increments the analyze counter for outcome
func (c *Collector) RecordAnalyzeRequest(outcome string) {
	c.analyzeRequests.WithLabelValues(outcome).Inc()
}

// RecordEventPublished increments the published events counter
func (c *Collector) RecordEventPublished(topic, status string) {
	c.eventsPublished.WithLabelValues(topic, status).Inc()
}

// SetDependencyUp sets the health gauge of a dependency
func (c *Collector) SetDependencyUp(dependency string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	c.dependencyUp.WithLabelValues(dependency).Set(v)
}
