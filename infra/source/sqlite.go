package source

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/kilianp07/primaryfuel/core/model"
	_ "modernc.org/sqlite"
)

// DefaultTable is the EIA 923 boiler fuel table name.
const DefaultTable = "boiler_fuel_eia923"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteReader reads records from a boiler fuel table in a SQLite database.
type SQLiteReader struct {
	Path  string
	Table string
	// Start and End optionally bound report_date (inclusive, compared as text).
	Start string
	End   string
}

// NewSQLiteReader returns a reader for the default table of the database at path.
func NewSQLiteReader(path string) *SQLiteReader {
	return &SQLiteReader{Path: path, Table: DefaultTable}
}

func (s *SQLiteReader) query() (string, []any, error) {
	table := s.Table
	if table == "" {
		table = DefaultTable
	}
	if !identRe.MatchString(table) {
		return "", nil, fmt.Errorf("invalid table name %q", table)
	}
	q := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s`,
		model.ColPlantID, model.ColBoilerID, model.ColReportDate,
		model.ColFuelTypeCode, model.ColFuelConsumedUnits, model.ColFuelMMBTUPerUnit, table)
	var where []string
	var args []any
	if s.Start != "" {
		where = append(where, model.ColReportDate+" >= ?")
		args = append(args, s.Start)
	}
	if s.End != "" {
		where = append(where, model.ColReportDate+" <= ?")
		args = append(args, s.End)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return q + " ORDER BY rowid", args, nil
}

// Read loads every matching row. NULL numeric values become NaN.
func (s *SQLiteReader) Read(ctx context.Context) ([]model.FuelConsumptionRecord, error) {
	q, args, err := s.query()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.FuelConsumptionRecord
	for index := 0; rows.Next(); index++ {
		var (
			plant        sql.NullInt64
			boiler, date sql.NullString
			fuel         sql.NullString
			units, mmbtu sql.NullFloat64
		)
		if err := rows.Scan(&plant, &boiler, &date, &fuel, &units, &mmbtu); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", index, err)
		}
		reportDate, err := parseReportDate(date.String)
		if err != nil {
			return nil, &model.InvalidRecordError{Index: index, Field: model.ColReportDate, Reason: "malformed", Err: err}
		}
		out = append(out, model.FuelConsumptionRecord{
			PlantID:           int(plant.Int64),
			BoilerID:          boiler.String,
			ReportDate:        reportDate,
			FuelTypeCode:      fuel.String,
			FuelConsumedUnits: nullFloat(units),
			FuelMMBTUPerUnit:  nullFloat(mmbtu),
		})
	}
	return out, rows.Err()
}

func nullFloat(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
