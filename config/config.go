package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/primaryfuel/core/factory"
	"github.com/kilianp07/primaryfuel/core/fuel"
	"github.com/kilianp07/primaryfuel/core/metrics"
)

// EnvPrefix marks environment variables overriding file settings.
// PF_FUEL__THRESHOLD=0.8 sets fuel.threshold.
const EnvPrefix = "PF_"

type Config struct {
	Fuel    fuel.Config          `json:"fuel"`
	Source  factory.ModuleConfig `json:"source"`
	Output  OutputConfig         `json:"output"`
	Metrics metrics.Config       `json:"metrics"`
	Logging LoggingConfig        `json:"logging"`
}

// Load reads the configuration file at path, applies environment overrides
// and defaults, then validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Fuel.SetDefaults()
	c.Output.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Fuel.Validate(); err != nil {
		return fmt.Errorf("fuel: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
