// Package metrics exposes Prometheus instrumentation for report building and
// audience resolution.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registry-bound collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Full statistics report latency
	ReportLatency prometheus.Histogram

	// Grouped read latency by view ("taxonomy", "gender", "new_students", ...)
	GroupReadLatency *prometheus.HistogramVec

	// Schema probe failures by entity
	ProbeFailures *prometheus.CounterVec

	// Resolved audience sizes by audience type
	AudienceSize *prometheus.HistogramVec
}

// New registers the collectors with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ReportLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "registry_statistics_report_duration_seconds",
			Help:    "Duration of a full statistics report including schema probing",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		GroupReadLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_group_read_duration_seconds",
			Help:    "Duration of grouped count reads by view",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"view"}),

		ProbeFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_schema_probe_failures_total",
			Help: "Schema metadata probes that failed, by entity",
		}, []string{"entity"}),

		AudienceSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_audience_recipients",
			Help:    "Number of recipients returned per audience resolution",
			Buckets: []float64{0, 1, 10, 50, 100, 250, 500, 1000},
		}, []string{"audience"}),
	}
}

// ObserveReport records the duration of one statistics report.
func (m *Metrics) ObserveReport(d time.Duration) {
	if m != nil {
		m.ReportLatency.Observe(d.Seconds())
	}
}

// ObserveGroupRead records the duration of one grouped read.
func (m *Metrics) ObserveGroupRead(view string, d time.Duration) {
	if m != nil {
		m.GroupReadLatency.WithLabelValues(view).Observe(d.Seconds())
	}
}

// IncProbeFailure counts a failed schema probe.
func (m *Metrics) IncProbeFailure(entity string) {
	if m != nil {
		m.ProbeFailures.WithLabelValues(entity).Inc()
	}
}

// ObserveAudience records the size of a resolved audience.
func (m *Metrics) ObserveAudience(audience string, n int) {
	if m != nil {
		m.AudienceSize.WithLabelValues(audience).Observe(float64(n))
	}
}
