package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boilerFuelCSV = `plant_id_eia,boiler_id,report_date,fuel_type_code,fuel_consumed_units,fuel_mmbtu_per_unit
1,B1,2019-01-01,COAL,100,1
1,B1,2019-01-01,GAS,0,1
2,B1,2019-01-01,COAL,60,1
2,B2,2019-01-01,GAS,40,1
3,B1,2019-01-01,COAL,0,1
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bf.csv")
	require.NoError(t, os.WriteFile(path, []byte(boilerFuelCSV), 0o644))
	return path
}

func TestClassifyCommand(t *testing.T) {
	t.Setenv("APP_ENV", "")
	out, err := execute(t, "classify", "--input", writeInput(t), "--threshold", "0.9")
	require.NoError(t, err)
	want := "plant_id_eia,report_date,primary_fuel\n1,2019-01-01,COAL\n2,2019-01-01,unknown\n"
	assert.Equal(t, want, out)

	out, err = execute(t, "classify", "-i", writeInput(t), "-t", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "2,2019-01-01,COAL\n")
}

func TestClassifyCommand_ZeroThreshold(t *testing.T) {
	t.Setenv("APP_ENV", "")
	out, err := execute(t, "classify", "--input", writeInput(t), "--threshold", "0")
	require.NoError(t, err)
	assert.Equal(t, "plant_id_eia,report_date,primary_fuel\n1,2019-01-01,COAL\n2,2019-01-01,COAL\n", out)
}

func TestClassifyCommand_BoilerToFile(t *testing.T) {
	t.Setenv("APP_ENV", "")
	dest := filepath.Join(t.TempDir(), "primary.csv")
	_, err := execute(t, "classify", "-i", writeInput(t), "-l", "boiler", "-o", dest)
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "plant_id_eia,boiler_id,report_date,primary_fuel\n"+
		"1,B1,2019-01-01,COAL\n2,B1,2019-01-01,COAL\n2,B2,2019-01-01,GAS\n", string(data))
}

func TestSharesCommand(t *testing.T) {
	t.Setenv("APP_ENV", "")
	out, err := execute(t, "shares", "-i", writeInput(t))
	require.NoError(t, err)
	assert.Equal(t, "plant_id_eia,report_date,COAL,GAS\n1,2019-01-01,1,0\n2,2019-01-01,0.6,0.4\n", out)
}

func TestCommandErrors(t *testing.T) {
	t.Setenv("APP_ENV", "")
	_, err := execute(t, "classify")
	assert.ErrorContains(t, err, "no record source")

	_, err = execute(t, "classify", "-i", writeInput(t), "-l", "unit")
	assert.Error(t, err)

	_, err = execute(t, "shares", "-i", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
