package metrics

import (
	"github.com/kilianp07/primaryfuel/core/factory"
	coremetrics "github.com/kilianp07/primaryfuel/core/metrics"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("prometheus", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c PromConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPromSink(c)
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}
