// Package metrics defines the sinks that record primary fuel runs. Concrete
// Prometheus and InfluxDB sinks live in infra/metrics and register themselves
// with the factory under "prometheus" and "influx". Multiple configured sinks
// are combined into a MultiSink.
package metrics
