package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	SessionsRecorded *prometheus.CounterVec
	MinutesPractised prometheus.Counter
	Errors           *prometheus.CounterVec

	// Bus metrics
	QueryDuration *prometheus.HistogramVec
	QueryResults  *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry so that several
// instances can coexist in tests.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SessionsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_recorded_total",
				Help:      "Total number of practice sessions recorded",
			},
			[]string{"technique", "completed"},
		),
		MinutesPractised: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "minutes_practised_total",
				Help:      "Total whole minutes practised across all users",
			},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Application errors by type",
			},
			[]string{"type"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Query handler duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		QueryResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_results_total",
				Help:      "Query outcomes by type",
			},
			[]string{"query", "outcome"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.SessionsRecorded,
		c.MinutesPractised,
		c.Errors,
		c.QueryDuration,
		c.QueryResults,
	)
	return c
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordSession counts a recorded session
func (c *Collector) RecordSession(_ context.Context, techniqueID string, durationSeconds int, completed bool) {
	c.SessionsRecorded.WithLabelValues(techniqueID, strconv.FormatBool(completed)).Inc()
	c.MinutesPractised.Add(float64(durationSeconds / 60))
}

// RecordError counts an application error
func (c *Collector) RecordError(_ context.Context, errorType string) {
	c.Errors.WithLabelValues(errorType).Inc()
}

// StartTimer starts timing a query
func (c *Collector) StartTimer(_ string, label string) Timer {
	return &queryTimer{
		start:    time.Now(),
		observer: c.QueryDuration.WithLabelValues(label),
	}
}

// Increment counts a query outcome. The metric name is the outcome.
func (c *Collector) Increment(metric, label string) {
	c.QueryResults.WithLabelValues(label, metric).Inc()
}

// Timer measures an interval
type Timer interface {
	Stop()
}

type queryTimer struct {
	start    time.Time
	observer prometheus.Observer
}

func (t *queryTimer) Stop() {
	t.observer.Observe(time.Since(t.start).Seconds())
}
