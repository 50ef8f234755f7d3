package fuel

import (
	"time"

	"github.com/kilianp07/primaryfuel/core/model"
)

var (
	jan = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb = time.Date(2019, time.February, 1, 0, 0, 0, 0, time.UTC)
)

func rec(plant int, boiler string, date time.Time, fuel string, units, perUnit float64) model.FuelConsumptionRecord {
	return model.FuelConsumptionRecord{
		PlantID:           plant,
		BoilerID:          boiler,
		ReportDate:        date,
		FuelTypeCode:      fuel,
		FuelConsumedUnits: units,
		FuelMMBTUPerUnit:  perUnit,
	}
}

func thresholdOf(v float64) *float64 { return &v }

func plantKey(plant int, date time.Time) model.EntityKey {
	return model.EntityKey{PlantID: plant, ReportDate: date}
}
