package model

import (
	"fmt"
	"strings"
)

// Granularity selects the entity level at which fuel shares are aggregated.
type Granularity int

const (
	GranularityPlant Granularity = iota
	GranularityBoiler
)

// String returns the configuration name of the granularity.
func (g Granularity) String() string {
	switch g {
	case GranularityPlant:
		return "plant"
	case GranularityBoiler:
		return "boiler"
	default:
		return "unknown"
	}
}

// ParseGranularity converts "plant" or "boiler" into a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plant":
		return GranularityPlant, nil
	case "boiler":
		return GranularityBoiler, nil
	default:
		return GranularityPlant, fmt.Errorf("unknown granularity %q", s)
	}
}
