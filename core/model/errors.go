package model

import (
	"errors"
	"fmt"
)

// ErrDuplicateRecord is wrapped by InvalidRecordError when two records share
// the same boiler level aggregation key.
var ErrDuplicateRecord = errors.New("duplicate record")

// InvalidRecordError reports a missing or malformed required field.
type InvalidRecordError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *InvalidRecordError) Error() string {
	msg := fmt.Sprintf("invalid record %d: %s %s", e.Index, e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidRecordError) Unwrap() error { return e.Err }

// EmptyResultWarning is informational: a stage produced no usable rows.
type EmptyResultWarning struct {
	Stage  string
	Reason string
}

func (w EmptyResultWarning) Error() string {
	return fmt.Sprintf("%s: empty result: %s", w.Stage, w.Reason)
}
