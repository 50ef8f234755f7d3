package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/primaryfuel/core/model"
)

// DateLayout is the report_date format used in exported tables.
const DateLayout = "2006-01-02"

// Format selects the serialization of exported tables.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

// WritePrimary writes the primary fuel table in the given format.
func WritePrimary(w io.Writer, f Format, level model.Granularity, rows []model.PrimaryFuelRow) error {
	if f == FormatJSON {
		return WritePrimaryJSON(w, level, rows)
	}
	return WritePrimaryCSV(w, level, rows)
}

// WriteShares writes the fuel share table in the given format.
func WriteShares(w io.Writer, f Format, table model.ShareTable) error {
	if f == FormatJSON {
		return WriteSharesJSON(w, table)
	}
	return WriteSharesCSV(w, table)
}

// WritePrimaryCSV writes plant_id_eia, [boiler_id,] report_date, primary_fuel.
func WritePrimaryCSV(w io.Writer, level model.Granularity, rows []model.PrimaryFuelRow) error {
	cw := csv.NewWriter(w)
	header := append(model.KeyColumns(level), model.ColPrimaryFuel)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(append(keyCells(level, r.Key), r.PrimaryFuel)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSharesCSV writes the key columns followed by one column per fuel.
func WriteSharesCSV(w io.Writer, table model.ShareTable) error {
	cw := csv.NewWriter(w)
	header := append(model.KeyColumns(table.Granularity), table.Fuels...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range table.Rows {
		rec := keyCells(table.Granularity, r.Key)
		for _, f := range table.Fuels {
			rec = append(rec, strconv.FormatFloat(r.Shares[f], 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePrimaryJSON writes the primary fuel table as a JSON array of objects.
func WritePrimaryJSON(w io.Writer, level model.Granularity, rows []model.PrimaryFuelRow) error {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		obj := keyObject(level, r.Key)
		obj[model.ColPrimaryFuel] = r.PrimaryFuel
		out = append(out, obj)
	}
	return json.NewEncoder(w).Encode(out)
}

// WriteSharesJSON writes the share table as a JSON array of objects keyed by
// column name.
func WriteSharesJSON(w io.Writer, table model.ShareTable) error {
	out := make([]map[string]any, 0, len(table.Rows))
	for _, r := range table.Rows {
		obj := keyObject(table.Granularity, r.Key)
		for _, f := range table.Fuels {
			obj[f] = r.Shares[f]
		}
		out = append(out, obj)
	}
	return json.NewEncoder(w).Encode(out)
}

func keyCells(level model.Granularity, k model.EntityKey) []string {
	cells := []string{strconv.Itoa(k.PlantID)}
	if level == model.GranularityBoiler {
		cells = append(cells, k.BoilerID)
	}
	return append(cells, k.ReportDate.Format(DateLayout))
}

func keyObject(level model.Granularity, k model.EntityKey) map[string]any {
	obj := map[string]any{
		model.ColPlantID:    k.PlantID,
		model.ColReportDate: k.ReportDate.Format(DateLayout),
	}
	if level == model.GranularityBoiler {
		obj[model.ColBoilerID] = k.BoilerID
	}
	return obj
}
