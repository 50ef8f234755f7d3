package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/primaryfuel/config"
	"github.com/kilianp07/primaryfuel/core/factory"
	"github.com/kilianp07/primaryfuel/core/fuel"
	coremetrics "github.com/kilianp07/primaryfuel/core/metrics"
	"github.com/kilianp07/primaryfuel/core/model"
)

const input = `plant_id_eia,boiler_id,report_date,fuel_type_code,fuel_consumed_units,fuel_mmbtu_per_unit
10,1,2020-06-01,NG,1000,1.03
10,2,2020-06-01,DFO,10,5.8
11,1,2020-06-01,BIT,0,19
`

func newTestService(t *testing.T, mutate func(*config.Config)) *Service {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "bf.csv")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))
	threshold := 0.9
	cfg := &config.Config{
		Fuel:   fuel.Config{Level: "plant", Threshold: &threshold},
		Source: factory.ModuleConfig{Type: "csv", Conf: map[string]any{"path": path}},
		Output: config.OutputConfig{Format: "json"},
	}
	if mutate != nil {
		mutate(cfg)
	}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	svc, err := New(cfg)
	require.NoError(t, err)
	return svc
}

func TestServiceClassify(t *testing.T) {
	sharesPath := filepath.Join(t.TempDir(), "shares.csv")
	svc := newTestService(t, func(c *config.Config) {
		c.Output.SharesPath = sharesPath
	})
	var out bytes.Buffer
	res, err := svc.Classify(context.Background(), &out)
	require.NoError(t, err)
	require.Len(t, res.Primary, 1)
	assert.Equal(t, "NG", res.Primary[0].PrimaryFuel)
	assert.Equal(t, 1, res.Shares.Dropped)
	assert.JSONEq(t, `[{"plant_id_eia":10,"report_date":"2020-06-01","primary_fuel":"NG"}]`, out.String())

	data, err := os.ReadFile(sharesPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"plant_id_eia":10`)
}

func TestServiceShares(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "shares.json")
	svc := newTestService(t, func(c *config.Config) {
		c.Fuel.Level = "boiler"
		c.Output.Path = dest
	})
	res, err := svc.Shares(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, model.GranularityBoiler, res.Shares.Granularity)
	assert.Equal(t, 2, res.Shares.Len())
	_, err = os.Stat(dest)
	assert.NoError(t, err)
}

func TestNewServiceErrors(t *testing.T) {
	_, err := New(&config.Config{Source: factory.ModuleConfig{Type: "ftp"}, Logging: config.LoggingConfig{Level: "info"}})
	assert.ErrorContains(t, err, "source")
	assert.ErrorContains(t, err, "csv")

	_, err = New(&config.Config{
		Source:  factory.ModuleConfig{Type: "csv", Conf: map[string]any{"path": "x.csv"}},
		Fuel:    fuel.Config{Level: "unit"},
		Logging: config.LoggingConfig{Level: "info"},
	})
	assert.Error(t, err)
}

type closingSink struct{ closed bool }

func (c *closingSink) RecordRun(coremetrics.RunEvent) error { return nil }

func (c *closingSink) Close() { c.closed = true }

func TestServiceClose(t *testing.T) {
	sink := &closingSink{}
	require.NoError(t, coremetrics.RegisterMetricsSink("closing", func(map[string]any) (coremetrics.MetricsSink, error) {
		return sink, nil
	}))
	svc := newTestService(t, func(c *config.Config) {
		c.Metrics.Sinks = []factory.ModuleConfig{{Type: "closing"}}
		c.Logging.File = filepath.Join(t.TempDir(), "pf.log")
	})
	_, err := svc.Classify(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, svc.Close())
	assert.True(t, sink.closed)
}
