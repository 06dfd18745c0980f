package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledmatrix"

// Collector holds the server metrics
type Collector struct {
	Connections   prometheus.Counter
	Active        prometheus.Gauge
	Messages      *prometheus.CounterVec
	Rejected      *prometheus.CounterVec
	Frames        prometheus.Counter
	Patterns      *prometheus.CounterVec
	RenderSeconds prometheus.Histogram
	Elements      prometheus.Gauge
	Disconnects   *prometheus.CounterVec
}

// New registers the server metrics with reg
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		Connections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Total number of accepted protocol connections",
		}),
		Active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_active",
			Help:      "1 while a protocol connection is being served",
		}),
		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of decoded messages by type",
		}, []string{"type"}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_rejected_total",
			Help:      "Total number of rejected messages by reason",
		}, []string{"reason"}),
		Frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      "Total number of image frames shown",
		}),
		Patterns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "patterns_total",
			Help:      "Total number of completed test patterns by name",
		}, []string{"pattern"}),
		RenderSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent writing one frame to the driver",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		Elements: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "matrix_elements",
			Help:      "Element count of the configured matrix, 0 when unconfigured",
		}),
		Disconnects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disconnects_total",
			Help:      "Total number of finished connections by cause",
		}, []string{"cause"}),
	}
}
