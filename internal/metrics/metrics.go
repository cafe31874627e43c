// Package metrics collects and exposes Prometheus metrics for the
// HTTP surface and the auth flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the Prometheus instruments. It satisfies
// service.AuthMetrics so the auth service can count outcomes without
// knowing about Prometheus.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	signups         prometheus.Counter
	logins          prometheus.Counter
	logouts         prometheus.Counter
	rotations       prometheus.Counter
	refreshFailures *prometheus.CounterVec
}

// NewCollector builds a Collector and registers its instruments on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jotter_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jotter_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jotter_signups_total",
			Help: "Accounts created.",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jotter_logins_total",
			Help: "Successful logins.",
		}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jotter_logouts_total",
			Help: "Sessions ended by logout.",
		}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jotter_refresh_rotations_total",
			Help: "Refresh tokens successfully rotated.",
		}),
		refreshFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jotter_refresh_failures_total",
			Help: "Rejected refresh attempts by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.signups,
		c.logins,
		c.logouts,
		c.rotations,
		c.refreshFailures,
	)

	return c
}

// RecordHTTPRequest counts one served request and observes its latency.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSignup counts a created account.
func (c *Collector) RecordSignup() { c.signups.Inc() }

// RecordLogin counts a successful login.
func (c *Collector) RecordLogin() { c.logins.Inc() }

// RecordLogout counts a session ended by logout.
func (c *Collector) RecordLogout() { c.logouts.Inc() }

// RecordRotation counts a successful refresh rotation.
func (c *Collector) RecordRotation() { c.rotations.Inc() }

// RecordRefreshFailure counts a rejected refresh attempt.
func (c *Collector) RecordRefreshFailure(reason string) {
	c.refreshFailures.WithLabelValues(reason).Inc()
}

// Handler returns the scrape endpoint for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
