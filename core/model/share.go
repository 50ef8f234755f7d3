package model

import (
	"strings"
	"time"
)

// Unknown is the primary fuel assigned when no fuel reaches the threshold.
const Unknown = "unknown"

// EntityKey identifies an entity-period. BoilerID is empty at plant level.
type EntityKey struct {
	PlantID    int
	BoilerID   string
	ReportDate time.Time
}

// Less orders keys by plant, boiler and report date.
func (k EntityKey) Less(o EntityKey) bool {
	if k.PlantID != o.PlantID {
		return k.PlantID < o.PlantID
	}
	if c := strings.Compare(k.BoilerID, o.BoilerID); c != 0 {
		return c < 0
	}
	return k.ReportDate.Before(o.ReportDate)
}

// FuelShareRow holds the fraction of heat supplied by each fuel type.
type FuelShareRow struct {
	Key    EntityKey
	Shares map[string]float64
}

// ShareTable is the wide-format output of the fuel share calculation.
type ShareTable struct {
	Granularity Granularity
	// Fuels is the sorted fuel vocabulary; every row carries each of them.
	Fuels []string
	Rows  []FuelShareRow
	// Dropped counts entity-periods removed for zero total heat.
	Dropped int
}

// Len returns the number of rows.
func (t ShareTable) Len() int { return len(t.Rows) }

// PrimaryFuelRow is the classification of one entity-period.
type PrimaryFuelRow struct {
	Key         EntityKey
	PrimaryFuel string
}
