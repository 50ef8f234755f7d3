package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/primaryfuel/core/factory"
	coremetrics "github.com/kilianp07/primaryfuel/core/metrics"
)

func TestPromSink_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(PromConfig{}, reg, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordRun(sampleRun()))
	require.NoError(t, sink.RecordStage(coremetrics.StageEvent{Stage: "fuel_shares", Duration: time.Millisecond}))

	assert.Equal(t, 12.0, testutil.ToFloat64(sink.records.WithLabelValues("boiler")))
	assert.Equal(t, 4.0, testutil.ToFloat64(sink.rows.WithLabelValues("boiler")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.dropped.WithLabelValues("boiler")))

	expected := `
# HELP primary_fuel_assignments_total Number of entity-periods assigned to each primary fuel
# TYPE primary_fuel_assignments_total counter
primary_fuel_assignments_total{granularity="boiler",primary_fuel="NG"} 3
primary_fuel_assignments_total{granularity="boiler",primary_fuel="unknown"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.primary, strings.NewReader(expected)))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.stages))
}

func TestPromSink_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(PromConfig{}, reg, reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(PromConfig{}, reg, reg)
	require.NoError(t, err)
	require.NoError(t, first.RecordRun(sampleRun()))
	require.NoError(t, second.RecordRun(sampleRun()))
	assert.Equal(t, 24.0, testutil.ToFloat64(first.records.WithLabelValues("boiler")))
}

func TestPromSink_Push(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(PromConfig{PushURL: srv.URL, Job: "egrid"}, reg, reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordRun(sampleRun()))
	assert.Equal(t, "/metrics/job/egrid", path)
}

func TestMetricsFactory_Builtins(t *testing.T) {
	s, err := coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "prometheus", Conf: map[string]any{"job": "x"}}})
	require.NoError(t, err)
	assert.IsType(t, &PromSink{}, s)
}
