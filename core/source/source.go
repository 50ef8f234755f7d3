// Package source defines where fuel consumption records come from. Readers are
// created from configuration through the factory registry; infra/source
// registers the "csv" and "sqlite" implementations.
package source

import (
	"context"

	"github.com/kilianp07/primaryfuel/core/factory"
	"github.com/kilianp07/primaryfuel/core/model"
)

// Reader loads boiler fuel consumption records.
type Reader interface {
	Read(ctx context.Context) ([]model.FuelConsumptionRecord, error)
}

var registry = factory.NewRegistry[Reader]()

// Register adds a reader factory identified by name.
func Register(name string, f factory.Factory[Reader]) error {
	return registry.Register(name, f)
}

// New creates a Reader from the provided configuration.
func New(cfg factory.ModuleConfig) (Reader, error) {
	return registry.Create(cfg)
}

// Types lists the registered reader types.
func Types() []string { return registry.Names() }
