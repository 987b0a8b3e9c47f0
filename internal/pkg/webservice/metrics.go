package webservice

import (
	"errors"
	"time"

	"github.com/ohowland/gridviz/internal/pkg/dataset"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridviz_cluster_requests_total",
			Help: "Cluster recomputations by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridviz_cluster_duration_seconds",
			Help:    "Time spent clustering one hour.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	m.registry.MustRegister(m.requests, m.duration)
	return m
}

func (m *metrics) observe(start time.Time, err error) {
	m.duration.Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		m.requests.WithLabelValues("ok").Inc()
	case errors.Is(err, dataset.ErrInvalidParameter):
		m.requests.WithLabelValues("invalid").Inc()
	default:
		m.requests.WithLabelValues("error").Inc()
	}
}

// observeSocket records a websocket exchange, whose failures travel in the
// reply body.
func (m *metrics) observeSocket(start time.Time) {
	m.duration.Observe(time.Since(start).Seconds())
	m.requests.WithLabelValues("socket").Inc()
}
