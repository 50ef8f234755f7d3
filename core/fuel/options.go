package fuel

import (
	"fmt"
	"strings"
)

// DuplicatePolicy controls boiler level records that share a
// (plant, boiler, period, fuel) key.
type DuplicatePolicy int

const (
	// DuplicatesReject fails with an InvalidRecordError.
	DuplicatesReject DuplicatePolicy = iota
	// DuplicatesSum adds the heat of duplicate records.
	DuplicatesSum
)

func (p DuplicatePolicy) String() string {
	if p == DuplicatesSum {
		return "sum"
	}
	return "reject"
}

// ParseDuplicatePolicy converts "reject" or "sum".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return DuplicatesReject, nil
	case "sum":
		return DuplicatesSum, nil
	default:
		return DuplicatesReject, fmt.Errorf("unknown duplicate policy %q", s)
	}
}

type options struct {
	duplicates DuplicatePolicy
	vocabulary []string
}

// Option customizes ComputeFuelShares.
type Option func(*options)

// WithDuplicatePolicy sets the boiler level duplicate handling.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) { o.duplicates = p }
}

// WithVocabulary pins fuel columns that appear in the table even when no
// record uses them. Observed fuels are always added.
func WithVocabulary(fuels ...string) Option {
	return func(o *options) { o.vocabulary = append(o.vocabulary, fuels...) }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
