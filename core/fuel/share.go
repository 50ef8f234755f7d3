package fuel

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/primaryfuel/core/model"
)

// heatKey is the long-format aggregation key.
type heatKey struct {
	entity model.EntityKey
	fuel   string
}

// heatTable holds aggregated heat per entity-period and fuel. order keeps the
// first-seen order of entities and first the index of their first record.
type heatTable struct {
	heat  map[model.EntityKey]map[string]float64
	order []model.EntityKey
	first map[model.EntityKey]int
}

// ComputeFuelShares converts consumption records into per-fuel heat shares for
// every entity-period at the requested granularity. Entity-periods with zero
// total heat are dropped. An empty table is not an error.
func ComputeFuelShares(records []model.FuelConsumptionRecord, level model.Granularity, opts ...Option) (model.ShareTable, error) {
	o := buildOptions(opts)
	if err := validateRecords(records, level); err != nil {
		return model.ShareTable{Granularity: level}, err
	}
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	ht, err := aggregate(records, idx, level, o.duplicates)
	if err != nil {
		return model.ShareTable{Granularity: level}, err
	}
	fuels := vocabulary(records, o.vocabulary)
	rows, dropped, err := pivot(ht, fuels)
	if err != nil {
		return model.ShareTable{Granularity: level}, err
	}
	sortRows(rows)
	return model.ShareTable{Granularity: level, Fuels: fuels, Rows: rows, Dropped: dropped}, nil
}

func validateRecords(records []model.FuelConsumptionRecord, level model.Granularity) error {
	for i, r := range records {
		if err := r.Validate(level, i); err != nil {
			return err
		}
	}
	return nil
}

// aggregate sums heat for the records selected by idx. Plant level always sums
// across boilers; boiler level applies the duplicate policy.
func aggregate(records []model.FuelConsumptionRecord, idx []int, level model.Granularity, dup DuplicatePolicy) (heatTable, error) {
	ht := heatTable{
		heat:  make(map[model.EntityKey]map[string]float64),
		first: make(map[model.EntityKey]int),
	}
	seen := make(map[heatKey]int)
	for _, i := range idx {
		r := records[i]
		k := heatKey{entity: r.Key(level), fuel: r.FuelTypeCode}
		if level == model.GranularityBoiler && dup == DuplicatesReject {
			if first, ok := seen[k]; ok {
				return heatTable{}, &model.InvalidRecordError{
					Index:  i,
					Field:  model.ColFuelTypeCode,
					Reason: "repeats record " + strconv.Itoa(first),
					Err:    model.ErrDuplicateRecord,
				}
			}
			seen[k] = i
		}
		heat := r.Heat()
		if !finite(heat) {
			return heatTable{}, &model.InvalidRecordError{
				Index:  i,
				Field:  model.ColFuelConsumedUnits,
				Reason: "heat overflows",
			}
		}
		byFuel, ok := ht.heat[k.entity]
		if !ok {
			byFuel = make(map[string]float64)
			ht.heat[k.entity] = byFuel
			ht.order = append(ht.order, k.entity)
			ht.first[k.entity] = i
		}
		byFuel[k.fuel] += heat
	}
	return ht, nil
}

// vocabulary returns the sorted union of observed and pinned fuel codes.
func vocabulary(records []model.FuelConsumptionRecord, pinned []string) []string {
	set := make(map[string]struct{}, len(pinned))
	for _, f := range pinned {
		if f != "" {
			set[f] = struct{}{}
		}
	}
	for _, r := range records {
		set[r.FuelTypeCode] = struct{}{}
	}
	fuels := make([]string, 0, len(set))
	for f := range set {
		fuels = append(fuels, f)
	}
	sort.Strings(fuels)
	return fuels
}

// pivot turns aggregated heat into share rows over fuels. Fuels absent for an
// entity-period count as zero heat. A total that is not finite is reported
// against the first record of the entity-period.
func pivot(ht heatTable, fuels []string) ([]model.FuelShareRow, int, error) {
	rows := make([]model.FuelShareRow, 0, len(ht.order))
	dropped := 0
	values := make([]float64, len(fuels))
	for _, key := range ht.order {
		byFuel := ht.heat[key]
		for i, f := range fuels {
			values[i] = byFuel[f]
		}
		total := floats.Sum(values)
		if !finite(total) {
			return nil, 0, &model.InvalidRecordError{
				Index:  ht.first[key],
				Field:  model.ColFuelConsumedUnits,
				Reason: "total heat overflows",
			}
		}
		if total == 0 {
			dropped++
			continue
		}
		shares := make(map[string]float64, len(fuels))
		for i, f := range fuels {
			shares[f] = values[i] / total
		}
		rows = append(rows, model.FuelShareRow{Key: key, Shares: shares})
	}
	return rows, dropped, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func sortRows(rows []model.FuelShareRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key.Less(rows[j].Key) })
}
