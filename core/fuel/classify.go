package fuel

import (
	"math"

	"github.com/kilianp07/primaryfuel/core/model"
)

// ClassifyPrimaryFuel assigns each row of the share table the fuel with the
// largest share among those reaching threshold. Ties go to the
// lexicographically first fuel code. Rows where no fuel reaches the threshold
// are labelled model.Unknown.
func ClassifyPrimaryFuel(table model.ShareTable, threshold float64) ([]model.PrimaryFuelRow, error) {
	out := make([]model.PrimaryFuelRow, 0, len(table.Rows))
	for i, row := range table.Rows {
		if err := validateKey(row.Key, table.Granularity, i); err != nil {
			return nil, err
		}
		fuel, err := primaryFuel(row, threshold, i)
		if err != nil {
			return nil, err
		}
		out = append(out, model.PrimaryFuelRow{Key: row.Key, PrimaryFuel: fuel})
	}
	return out, nil
}

func primaryFuel(row model.FuelShareRow, threshold float64, index int) (string, error) {
	best := ""
	var bestShare float64
	for fuel, share := range row.Shares {
		if math.IsNaN(share) {
			return "", &model.InvalidRecordError{Index: index, Field: fuel, Reason: "share is NaN"}
		}
		if share < threshold {
			continue
		}
		if best == "" || share > bestShare || (share == bestShare && fuel < best) {
			best, bestShare = fuel, share
		}
	}
	if best == "" {
		return model.Unknown, nil
	}
	return best, nil
}

func validateKey(k model.EntityKey, level model.Granularity, index int) error {
	switch {
	case k.PlantID <= 0:
		return &model.InvalidRecordError{Index: index, Field: model.ColPlantID, Reason: "missing"}
	case level == model.GranularityBoiler && k.BoilerID == "":
		return &model.InvalidRecordError{Index: index, Field: model.ColBoilerID, Reason: "missing"}
	case k.ReportDate.IsZero():
		return &model.InvalidRecordError{Index: index, Field: model.ColReportDate, Reason: "missing"}
	}
	return nil
}
