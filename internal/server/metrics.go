package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conversion results used as the "result" label.
const (
	resultOK              = "ok"
	resultInvalidRequest  = "invalid_request"
	resultConversionError = "conversion_error"
)

type metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// newMetrics registers the server's collectors on a private registry so
// several servers can live in one process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "avro_mapper_conversions_total",
			Help: "Conversion requests by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "avro_mapper_conversion_duration_seconds",
			Help:    "Time spent converting a record, decoding and encoding included.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(m.conversions, m.duration)

	return m
}

func (m *metrics) observe(result string, started time.Time) {
	m.conversions.WithLabelValues(result).Inc()
	m.duration.Observe(time.Since(started).Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
