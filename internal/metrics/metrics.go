// Package metrics exposes Prometheus collectors for the split service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitshare/internal/models"
)

const namespace = "splitshare"

// Metrics owns a dedicated registry so tests can create independent instances.
type Metrics struct {
	registry *prometheus.Registry

	splitsInitialized *prometheus.CounterVec
	shareEdits        *prometheus.CounterVec
	validations       *prometheus.CounterVec
	activeDrafts      prometheus.Gauge
	requestDuration   *prometheus.HistogramVec
}

// New registers every collector, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		splitsInitialized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_initialized_total",
			Help:      "Splits built from scratch, by strategy.",
		}, []string{"strategy"}),
		shareEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_edits_total",
			Help:      "Edits applied to a single share, by kind (percentage or amount).",
		}, []string{"kind"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "split_validations_total",
			Help:      "Submission checks, by strategy and result.",
		}, []string{"strategy", "result"}),
		activeDrafts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_drafts",
			Help:      "Drafts currently held in memory.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.splitsInitialized,
		m.shareEdits,
		m.validations,
		m.activeDrafts,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SplitInitialized(strategy models.Strategy) {
	m.splitsInitialized.WithLabelValues(string(strategy)).Inc()
}

func (m *Metrics) ShareEdited(kind string) {
	m.shareEdits.WithLabelValues(kind).Inc()
}

func (m *Metrics) SplitValidated(strategy models.Strategy, ok bool) {
	result := "invalid"
	if ok {
		result = "valid"
	}
	m.validations.WithLabelValues(string(strategy), result).Inc()
}

func (m *Metrics) DraftsActive(n int) {
	m.activeDrafts.Set(float64(n))
}

// ObserveRequest records one HTTP request. route is the matched route
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
