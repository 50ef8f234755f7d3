package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `fuel:
  level: boiler
  threshold: 0.8
  duplicates: sum
  workers: 4
  fuels: [BIT, NG]
source:
  type: sqlite
  conf:
    path: pudl.sqlite
    start_date: "2019-01-01"
output:
  format: json
  path: primary.json
  shares_path: shares.json
metrics:
  sinks:
    - type: "nop"
logging:
  level: debug
  format: console
  file: logs/pf.log
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"fuel.level", cfg.Fuel.Level, "boiler"},
		{"fuel.threshold", *cfg.Fuel.Threshold, 0.8},
		{"fuel.duplicates", cfg.Fuel.Duplicates, "sum"},
		{"fuel.workers", cfg.Fuel.Workers, 4},
		{"fuel.fuels", len(cfg.Fuel.Fuels), 2},
		{"source.type", cfg.Source.Type, "sqlite"},
		{"source.path", cfg.Source.Conf["path"], "pudl.sqlite"},
		{"output.format", cfg.Output.Format, "json"},
		{"output.shares_path", cfg.Output.SharesPath, "shares.json"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.max_size_mb", cfg.Logging.MaxSizeMB, 100},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
	opts := cfg.Logging.Options()
	assert.Equal(t, "logs/pf.log", opts.File)
}

func TestLoadDefaults(t *testing.T) {
	path := writeFile(t, "config.json", `{"source": {"type": "csv", "conf": {"path": "bf.csv"}}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "plant", cfg.Fuel.Level)
	require.NotNil(t, cfg.Fuel.Threshold)
	assert.Equal(t, 0.9, *cfg.Fuel.Threshold)
	assert.Equal(t, "reject", cfg.Fuel.Duplicates)
	assert.Equal(t, 1, cfg.Fuel.Workers)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "-", cfg.Output.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", "fuel:\n  threshold: 0.8\n")
	t.Setenv("PF_FUEL__LEVEL", "boiler")
	t.Setenv("PF_OUTPUT__FORMAT", "json")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "boiler", cfg.Fuel.Level)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 0.8, *cfg.Fuel.Threshold)
}

func TestLoadZeroThreshold(t *testing.T) {
	path := writeFile(t, "config.yaml", "fuel:\n  threshold: 0\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Fuel.Threshold)
	assert.Equal(t, 0.0, *cfg.Fuel.Threshold)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "plant", cfg.Fuel.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", ""))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeFile(t, "config.yaml", "fuel:\n  level: generator\n"))
	assert.ErrorContains(t, err, "fuel")

	_, err = Load(writeFile(t, "config.yaml", "output:\n  format: xml\n"))
	assert.ErrorContains(t, err, "output")

	_, err = Load(writeFile(t, "config.yaml", "logging:\n  level: loud\n"))
	assert.ErrorContains(t, err, "logging")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
