package fuel

import (
	"fmt"
	"math"

	"github.com/kilianp07/primaryfuel/core/model"
)

// Config holds the determination settings.
type Config struct {
	// Level is "plant" or "boiler".
	Level string `json:"level"`
	// Threshold is the minimum heat share for a fuel to be primary. Nil
	// selects DefaultThreshold; zero and negative values are honored.
	Threshold *float64 `json:"threshold"`
	// Duplicates is "reject" or "sum" and only applies at boiler level.
	Duplicates string `json:"duplicates"`
	// Workers above one pivots plants concurrently.
	Workers int `json:"workers"`
	// Fuels pins fuel columns that appear even when unused.
	Fuels []string `json:"fuels"`
}

// DefaultThreshold mirrors the usual eGRID primary fuel cut-off.
const DefaultThreshold = 0.9

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	// plant is the level eGRID publishes primary fuels at.
	if c.Level == "" {
		c.Level = model.GranularityPlant.String()
	}
	if c.Threshold == nil {
		t := DefaultThreshold
		c.Threshold = &t
	}
	if c.Duplicates == "" {
		c.Duplicates = DuplicatesReject.String()
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
}

// Validate checks that the settings can be parsed.
func (c Config) Validate() error {
	if _, err := model.ParseGranularity(c.Level); err != nil {
		return err
	}
	if _, err := ParseDuplicatePolicy(c.Duplicates); err != nil {
		return err
	}
	if c.Threshold != nil && math.IsNaN(*c.Threshold) {
		return fmt.Errorf("threshold must be a number")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}
