package metrics

import (
	"fmt"

	"github.com/kilianp07/primaryfuel/core/factory"
)

var sinkRegistry = factory.NewRegistry[MetricsSink]()

func init() {
	_ = RegisterMetricsSink("nop", func(map[string]any) (MetricsSink, error) {
		return NopSink{}, nil
	})
}

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewMetricsSink creates a MetricsSink from the provided configuration. No
// configuration yields a NopSink and several yield a MultiSink.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	switch len(cfgs) {
	case 0:
		return NopSink{}, nil
	case 1:
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]MetricsSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, fmt.Errorf("metrics sink %d: %w", i, err)
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
