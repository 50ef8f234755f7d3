package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/kilianp07/primaryfuel/core/model"
)

var requiredColumns = []string{
	model.ColPlantID,
	model.ColReportDate,
	model.ColFuelTypeCode,
	model.ColFuelConsumedUnits,
	model.ColFuelMMBTUPerUnit,
}

// CSVReader reads records from a CSV file with a header row. Column order is
// free; boiler_id is optional. Path "-" reads standard input.
type CSVReader struct {
	Path  string
	Stdin io.Reader
}

// NewCSVReader returns a reader for the file at path.
func NewCSVReader(path string) *CSVReader {
	return &CSVReader{Path: path, Stdin: os.Stdin}
}

// Read opens the file and parses every row.
func (c *CSVReader) Read(ctx context.Context) ([]model.FuelConsumptionRecord, error) {
	if c.Path == "-" {
		return ParseCSV(ctx, c.Stdin)
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Path, err)
	}
	defer func() { _ = f.Close() }()
	return ParseCSV(ctx, f)
}

// ParseCSV parses records from r. Empty numeric cells become NaN and are
// rejected later by record validation; malformed cells fail immediately with
// an InvalidRecordError indexed by data row.
func ParseCSV(ctx context.Context, r io.Reader) ([]model.FuelConsumptionRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv header missing column %s", name)
		}
	}
	boilerCol, hasBoiler := cols[model.ColBoilerID]

	var out []model.FuelConsumptionRecord
	for index := 0; ; index++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", index, err)
		}
		if index%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := parseRow(row, cols, index)
		if err != nil {
			return nil, err
		}
		if hasBoiler {
			rec.BoilerID = strings.TrimSpace(row[boilerCol])
		}
		out = append(out, rec)
	}
}

func parseRow(row []string, cols map[string]int, index int) (model.FuelConsumptionRecord, error) {
	var rec model.FuelConsumptionRecord
	cell := func(name string) string { return strings.TrimSpace(row[cols[name]]) }

	if s := cell(model.ColPlantID); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			return rec, &model.InvalidRecordError{Index: index, Field: model.ColPlantID, Reason: "not an integer", Err: err}
		}
		rec.PlantID = id
	}
	date, err := parseReportDate(cell(model.ColReportDate))
	if err != nil {
		return rec, &model.InvalidRecordError{Index: index, Field: model.ColReportDate, Reason: "malformed", Err: err}
	}
	rec.ReportDate = date
	rec.FuelTypeCode = cell(model.ColFuelTypeCode)
	if rec.FuelConsumedUnits, err = parseFloat(cell(model.ColFuelConsumedUnits)); err != nil {
		return rec, &model.InvalidRecordError{Index: index, Field: model.ColFuelConsumedUnits, Reason: "not a number", Err: err}
	}
	if rec.FuelMMBTUPerUnit, err = parseFloat(cell(model.ColFuelMMBTUPerUnit)); err != nil {
		return rec, &model.InvalidRecordError{Index: index, Field: model.ColFuelMMBTUPerUnit, Reason: "not a number", Err: err}
	}
	return rec, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
