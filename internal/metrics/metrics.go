// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder interface {
	RecordRequest(method string, route string, status int, duration time.Duration)
	RecordNotificationFailure(kind string)
	RecordStoreRetry(op string)
}

type Collector struct {
	requests             *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	notificationFailures *prometheus.CounterVec
	storeRetries         *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_notification_failures_total",
			Help: "Emails that could not be handed to the mailer.",
		}, []string{"kind"}),
		storeRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_store_retries_total",
			Help: "Store calls retried after a transient failure or version conflict.",
		}, []string{"op"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.notificationFailures,
		c.storeRetries,
	)

	return c
}

func (c *Collector) RecordRequest(method string, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordNotificationFailure(kind string) {
	c.notificationFailures.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordStoreRetry(op string) {
	c.storeRetries.WithLabelValues(op).Inc()
}

// Nop discards everything. Used when no registry is wired.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordNotificationFailure(string)                 {}
func (Nop) RecordStoreRetry(string)                          {}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute serves /metrics for the separate metrics listener.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
