package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loganalyzer"

// Line status label values
const (
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// AnalyzerMetrics holds the Prometheus metrics of one analysis run.
type AnalyzerMetrics struct {
	registry *prometheus.Registry

	LinesTotal     *prometheus.CounterVec
	RecordsLoaded  prometheus.Gauge
	BytesExchanged prometheus.Gauge
	EventsPerSec   prometheus.Gauge
	LoadDuration   prometheus.Histogram
	QueryErrors    *prometheus.CounterVec
}

// NewAnalyzerMetrics registers the metrics on a private registry.
func NewAnalyzerMetrics() *AnalyzerMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &AnalyzerMetrics{
		registry: reg,
		LinesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "lines_total",
			Help:      "Total number of log lines processed by status.",
		}, []string{"status"}), // status: accepted, rejected
		RecordsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "records",
			Help:      "Number of records held by the loaded log file.",
		}),
		BytesExchanged: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "bytes_exchanged",
			Help:      "Header plus response bytes across all records.",
		}),
		EventsPerSec: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "events_per_second",
			Help:      "Records per second between the first and last record.",
		}),
		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "duration_seconds",
			Help:      "Time spent reading and parsing the log file.",
			Buckets:   prometheus.DefBuckets,
		}),
		QueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "errors_total",
			Help:      "Queries without a defined result.",
		}, []string{"query"}),
	}
}

// ObserveLoad records the outcome of a load
func (m *AnalyzerMetrics) ObserveLoad(accepted, rejected int, elapsed time.Duration) {
	m.LinesTotal.WithLabelValues(StatusAccepted).Add(float64(accepted))
	m.LinesTotal.WithLabelValues(StatusRejected).Add(float64(rejected))
	m.RecordsLoaded.Set(float64(accepted))
	m.LoadDuration.Observe(elapsed.Seconds())
}

// Registry exposes the registry for gathering
func (m *AnalyzerMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in the text exposition format, for the
// node exporter textfile collector.
func (m *AnalyzerMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
