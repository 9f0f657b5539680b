package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	gatherer   prometheus.Gatherer
	operations *prometheus.CounterVec
	requests   *prometheus.HistogramVec
	wsClients  prometheus.Gauge
}

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := NewWithRegisterer(reg)
	m.gatherer = reg
	return m
}

// NewWithRegisterer registers the collectors on reg. A nil reg yields
// Metrics that record nothing.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cesta",
		Name:      "operations_total",
		Help:      "Shopping operations by name and outcome.",
	}, []string{"op", "outcome"})
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cesta",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	wsClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cesta",
		Name:      "websocket_clients",
		Help:      "Connected websocket clients.",
	})
	reg.MustRegister(operations, requests, wsClients)
	m := &Metrics{
		operations: operations,
		requests:   requests,
		wsClients:  wsClients,
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// RecordOperation counts one shopping operation outcome.
func (m *Metrics) RecordOperation(op, outcome string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) SetClients(n int) {
	if m == nil || m.wsClients == nil {
		return
	}
	m.wsClients.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
