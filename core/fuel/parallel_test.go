package fuel

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/primaryfuel/core/model"
)

func manyRecords() []model.FuelConsumptionRecord {
	fuels := []string{"BIT", "NG", "DFO", "SUB"}
	var out []model.FuelConsumptionRecord
	for plant := 1; plant <= 25; plant++ {
		for b := 0; b < 3; b++ {
			for i, f := range fuels {
				units := float64((plant*7+b*3+i*5)%11) * 10
				out = append(out, rec(plant, fmt.Sprintf("B%d", b), jan, f, units, float64(i+1)))
				out = append(out, rec(plant, fmt.Sprintf("B%d", b), feb, f, units/2, float64(i+1)))
			}
		}
	}
	return out
}

func TestComputeFuelSharesParallel_MatchesSequential(t *testing.T) {
	records := manyRecords()
	for _, level := range []model.Granularity{model.GranularityPlant, model.GranularityBoiler} {
		want, err := ComputeFuelShares(records, level)
		require.NoError(t, err)
		for _, workers := range []int{0, 1, 2, 4, 7} {
			got, err := ComputeFuelSharesParallel(context.Background(), records, level, workers)
			require.NoError(t, err)
			assert.Equal(t, want, got, "level %s workers %d", level, workers)
		}
	}
}

func TestComputeFuelSharesParallel_Errors(t *testing.T) {
	records := manyRecords()
	records = append(records, records[3])
	_, err := ComputeFuelSharesParallel(context.Background(), records, model.GranularityBoiler, 4)
	require.ErrorIs(t, err, model.ErrDuplicateRecord)

	_, seqErr := ComputeFuelShares(records, model.GranularityBoiler)
	assert.Equal(t, seqErr.Error(), err.Error())

	overflow := append(manyRecords(), rec(7, "B9", jan, "COAL", 1e300, 1e8), rec(7, "B9", jan, "GAS", 1e300, 1e8))
	_, err = ComputeFuelSharesParallel(context.Background(), overflow, model.GranularityBoiler, 4)
	_, seqErr = ComputeFuelShares(overflow, model.GranularityBoiler)
	require.Error(t, seqErr)
	require.Error(t, err)
	assert.Equal(t, seqErr.Error(), err.Error())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ComputeFuelSharesParallel(ctx, manyRecords(), model.GranularityPlant, 4)
	assert.ErrorIs(t, err, context.Canceled)
}
