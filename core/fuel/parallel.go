package fuel

import (
	"context"
	"errors"
	"sync"

	"github.com/kilianp07/primaryfuel/core/model"
)

// ComputeFuelSharesParallel produces the same table as ComputeFuelShares but
// pivots plants on up to workers goroutines. Records are sharded by plant id
// and every shard is pivoted against the vocabulary of the whole input.
func ComputeFuelSharesParallel(ctx context.Context, records []model.FuelConsumptionRecord, level model.Granularity, workers int, opts ...Option) (model.ShareTable, error) {
	if workers <= 1 {
		return ComputeFuelShares(records, level, opts...)
	}
	o := buildOptions(opts)
	empty := model.ShareTable{Granularity: level}
	if err := validateRecords(records, level); err != nil {
		return empty, err
	}
	fuels := vocabulary(records, o.vocabulary)

	shards := make([][]int, workers)
	for i, r := range records {
		s := r.PlantID % workers
		shards[s] = append(shards[s], i)
	}

	type result struct {
		rows     []model.FuelShareRow
		dropped  int
		err      error
		pivotErr error
	}
	results := make([]result, workers)
	var wg sync.WaitGroup
	for s := range shards {
		if len(shards[s]) == 0 {
			continue
		}
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[s].err = err
				return
			}
			ht, err := aggregate(records, shards[s], level, o.duplicates)
			if err != nil {
				results[s].err = err
				return
			}
			results[s].rows, results[s].dropped, results[s].pivotErr = pivot(ht, fuels)
		}(s)
	}
	wg.Wait()

	// Aggregation errors win over pivot errors, as in ComputeFuelShares.
	var aggErr, pivotErr *model.InvalidRecordError
	for _, r := range results {
		if r.err != nil {
			var ire *model.InvalidRecordError
			if !errors.As(r.err, &ire) {
				return empty, r.err
			}
			aggErr = lowest(aggErr, ire)
		}
		if r.pivotErr != nil {
			var ire *model.InvalidRecordError
			if !errors.As(r.pivotErr, &ire) {
				return empty, r.pivotErr
			}
			pivotErr = lowest(pivotErr, ire)
		}
	}
	if aggErr != nil {
		return empty, aggErr
	}
	if pivotErr != nil {
		return empty, pivotErr
	}

	table := model.ShareTable{Granularity: level, Fuels: fuels}
	for _, r := range results {
		table.Rows = append(table.Rows, r.rows...)
		table.Dropped += r.dropped
	}
	sortRows(table.Rows)
	return table, nil
}

func lowest(cur, next *model.InvalidRecordError) *model.InvalidRecordError {
	if cur == nil || next.Index < cur.Index {
		return next
	}
	return cur
}
