package metrics

// MultiSink fans run events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordStage forwards stage timings to sinks implementing StageRecorder.
func (m *MultiSink) RecordStage(ev StageEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(StageRecorder); ok {
			if err := rec.RecordStage(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink implementing Closer.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		Close(s)
	}
}
