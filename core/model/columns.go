package model

// Column names used at the table boundary.
const (
	ColPlantID           = "plant_id_eia"
	ColBoilerID          = "boiler_id"
	ColReportDate        = "report_date"
	ColFuelTypeCode      = "fuel_type_code"
	ColFuelConsumedUnits = "fuel_consumed_units"
	ColFuelMMBTUPerUnit  = "fuel_mmbtu_per_unit"
	ColPrimaryFuel       = "primary_fuel"
	ColShare             = "share"
)

// KeyColumns returns the key column names for the granularity.
func KeyColumns(level Granularity) []string {
	if level == GranularityBoiler {
		return []string{ColPlantID, ColBoilerID, ColReportDate}
	}
	return []string{ColPlantID, ColReportDate}
}
