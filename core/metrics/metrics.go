package metrics

import (
	"time"

	"github.com/kilianp07/primaryfuel/core/model"
)

// RunEvent summarizes one primary fuel determination run.
type RunEvent struct {
	RunID       string
	Granularity model.Granularity
	Threshold   float64
	Records     int
	ShareRows   int
	// Dropped counts entity-periods removed for zero total heat.
	Dropped int
	// PrimaryCounts maps each assigned primary fuel, including
	// model.Unknown, to the number of entity-periods it was assigned to.
	PrimaryCounts map[string]int
	Duration      time.Duration
	Time          time.Time
}

// Unknown returns the number of entity-periods without a primary fuel.
func (e RunEvent) Unknown() int { return e.PrimaryCounts[model.Unknown] }

// MetricsSink records run summaries for observability purposes.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// StageEvent reports the duration of a single pipeline stage.
type StageEvent struct {
	RunID    string
	Stage    string
	Rows     int
	Duration time.Duration
}

// StageRecorder is implemented by sinks able to record stage timings.
type StageRecorder interface {
	RecordStage(ev StageEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error     { return nil }
func (NopSink) RecordStage(StageEvent) error { return nil }

// Closer is implemented by sinks that hold client connections.
type Closer interface {
	Close()
}

// Close releases the sink's resources when it implements Closer.
func Close(s MetricsSink) {
	if c, ok := s.(Closer); ok {
		c.Close()
	}
}
