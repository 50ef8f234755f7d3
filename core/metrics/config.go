package metrics

import "github.com/kilianp07/primaryfuel/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}
