package source

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseReportDate accepts the date layouts found in EIA 923 extracts. An empty
// value yields the zero time so record validation can report it.
func parseReportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
