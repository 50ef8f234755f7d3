package model

import (
	"math"
	"time"
)

// FuelConsumptionRecord is one row of boiler fuel consumption for a month.
// Missing numeric values are represented as NaN.
type FuelConsumptionRecord struct {
	PlantID           int
	BoilerID          string
	ReportDate        time.Time
	FuelTypeCode      string
	FuelConsumedUnits float64
	FuelMMBTUPerUnit  float64 // heat content per unit in MMBTU
}

// Heat returns the heat content of the consumed fuel in MMBTU.
func (r FuelConsumptionRecord) Heat() float64 {
	return r.FuelConsumedUnits * r.FuelMMBTUPerUnit
}

// Validate reports the first missing or malformed field required at the given
// granularity. index identifies the record in its input collection.
func (r FuelConsumptionRecord) Validate(level Granularity, index int) error {
	switch {
	case r.PlantID <= 0:
		return &InvalidRecordError{Index: index, Field: ColPlantID, Reason: "must be a positive id"}
	case level == GranularityBoiler && r.BoilerID == "":
		return &InvalidRecordError{Index: index, Field: ColBoilerID, Reason: "required at boiler level"}
	case r.ReportDate.IsZero():
		return &InvalidRecordError{Index: index, Field: ColReportDate, Reason: "missing"}
	case r.FuelTypeCode == "":
		return &InvalidRecordError{Index: index, Field: ColFuelTypeCode, Reason: "missing"}
	case !finite(r.FuelConsumedUnits):
		return &InvalidRecordError{Index: index, Field: ColFuelConsumedUnits, Reason: "missing or not finite"}
	case !finite(r.FuelMMBTUPerUnit):
		return &InvalidRecordError{Index: index, Field: ColFuelMMBTUPerUnit, Reason: "missing or not finite"}
	}
	return nil
}

// Key returns the entity-period key of the record at the given granularity.
func (r FuelConsumptionRecord) Key(level Granularity) EntityKey {
	k := EntityKey{PlantID: r.PlantID, ReportDate: r.ReportDate.UTC()}
	if level == GranularityBoiler {
		k.BoilerID = r.BoilerID
	}
	return k
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
