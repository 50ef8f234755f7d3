package config

import (
	"fmt"
	"strings"

	"github.com/kilianp07/primaryfuel/infra/logger"
)

// LoggingConfig defines log verbosity, format and optional file rotation.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level"`
	// Format selects "json" or "console" output.
	Format string `json:"format"`
	// File writes logs to a rotating file instead of stderr.
	File string `json:"file"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if c.File != "" && c.MaxSizeMB == 0 {
		c.MaxSizeMB = 100
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %s", c.Level)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("unknown format %s", c.Format)
	}
	return nil
}

// Options converts the settings for logger.Configure.
func (c LoggingConfig) Options() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}
