package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	coremetrics "github.com/kilianp07/primaryfuel/core/metrics"
)

// PromConfig configures the Prometheus sink. Batch runs exit before a scrape
// can happen, so metrics are pushed to a Pushgateway when PushURL is set.
type PromConfig struct {
	PushURL string `json:"push_url"`
	Job     string `json:"job"`
}

// PromSink records run summaries in Prometheus metrics.
type PromSink struct {
	records  *prometheus.CounterVec
	rows     *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	primary  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	stages   *prometheus.HistogramVec

	gatherer prometheus.Gatherer
	pushURL  string
	job      string
}

// NewPromSink registers run metrics on the default Prometheus registry.
func NewPromSink(cfg PromConfig) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer and
// pushes what the gatherer collects. A nil registerer defaults to the global
// Prometheus registry.
func NewPromSinkWithRegistry(cfg PromConfig, reg prometheus.Registerer, g prometheus.Gatherer) (*PromSink, error) {
	if reg == nil {
		reg, g = prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	}
	labels := []string{"granularity"}
	s := &PromSink{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fuel_records_processed_total",
			Help: "Number of fuel consumption records processed",
		}, labels),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fuel_share_rows_total",
			Help: "Number of entity-periods with fuel shares",
		}, labels),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fuel_zero_heat_dropped_total",
			Help: "Number of entity-periods dropped for zero total heat",
		}, labels),
		primary: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "primary_fuel_assignments_total",
			Help: "Number of entity-periods assigned to each primary fuel",
		}, []string{"granularity", "primary_fuel"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "primary_fuel_run_duration_seconds",
			Help:    "Duration of primary fuel determination runs",
			Buckets: prometheus.DefBuckets,
		}, labels),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "primary_fuel_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		gatherer: g,
		pushURL:  cfg.PushURL,
		job:      cfg.Job,
	}
	if s.job == "" {
		s.job = "primaryfuel"
	}
	var err error
	if s.records, err = registerCounter(reg, s.records); err != nil {
		return nil, err
	}
	if s.rows, err = registerCounter(reg, s.rows); err != nil {
		return nil, err
	}
	if s.dropped, err = registerCounter(reg, s.dropped); err != nil {
		return nil, err
	}
	if s.primary, err = registerCounter(reg, s.primary); err != nil {
		return nil, err
	}
	if s.duration, err = registerHistogram(reg, s.duration); err != nil {
		return nil, err
	}
	if s.stages, err = registerHistogram(reg, s.stages); err != nil {
		return nil, err
	}
	return s, nil
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

func registerHistogram(reg prometheus.Registerer, h *prometheus.HistogramVec) (*prometheus.HistogramVec, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec), nil
		}
		return nil, err
	}
	return h, nil
}

// RecordRun updates the counters and pushes them when a Pushgateway is configured.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	level := ev.Granularity.String()
	s.records.WithLabelValues(level).Add(float64(ev.Records))
	s.rows.WithLabelValues(level).Add(float64(ev.ShareRows))
	s.dropped.WithLabelValues(level).Add(float64(ev.Dropped))
	for fuel, n := range ev.PrimaryCounts {
		s.primary.WithLabelValues(level, fuel).Add(float64(n))
	}
	s.duration.WithLabelValues(level).Observe(ev.Duration.Seconds())
	return s.Push()
}

// RecordStage observes the stage duration.
func (s *PromSink) RecordStage(ev coremetrics.StageEvent) error {
	s.stages.WithLabelValues(ev.Stage).Observe(ev.Duration.Seconds())
	return nil
}

// Push sends the gathered metrics to the Pushgateway. It is a no-op without PushURL.
func (s *PromSink) Push() error {
	if s.pushURL == "" {
		return nil
	}
	if err := push.New(s.pushURL, s.job).Gatherer(s.gatherer).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
