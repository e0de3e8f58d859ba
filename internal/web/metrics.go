package web

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alnah/dictaphone/internal/session"
)

// Surfaces that run an analyze cycle.
const (
	surfaceAPI  = "api"
	surfaceForm = "form"
)

// metrics counts analyze cycles. Each Server owns its registry so tests
// and multiple servers in one process do not collide.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dictaphone",
				Name:      "analyze_requests_total",
				Help:      "Analyze cycles by surface, provider and final status.",
			},
			[]string{"provider", "status", "surface"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dictaphone",
				Name:      "upstream_latency_seconds",
				Help:      "Upstream call latency in seconds. Blank input is not counted.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
	}
	m.registry.MustRegister(m.requests, m.latency)
	return m
}

// observe records one cycle. called is false when the reducer rejected
// the input before any upstream request.
func (m *metrics) observe(surface string, st session.State, called bool, d time.Duration) {
	m.requests.WithLabelValues(st.Provider, st.Status.String(), surface).Inc()
	if called {
		m.latency.WithLabelValues(st.Provider).Observe(d.Seconds())
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
