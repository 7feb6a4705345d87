package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveReport(time.Second)
	m.ObserveGroupRead("taxonomy", time.Second)
	m.IncProbeFailure("students")
	m.ObserveAudience("all", 3)
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.IncProbeFailure("students")
	m.IncProbeFailure("students")
	m.ObserveGroupRead("taxonomy", 20*time.Millisecond)
	m.ObserveAudience("newStudents", 12)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ProbeFailures.WithLabelValues("students")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GroupReadLatency))
	assert.Equal(t, 1, testutil.CollectAndCount(m.AudienceSize))
}
