package source

import (
	"fmt"

	"github.com/kilianp07/primaryfuel/core/factory"
	coresource "github.com/kilianp07/primaryfuel/core/source"
)

// init registers built-in record readers.
func init() {
	_ = coresource.Register("csv", func(conf map[string]any) (coresource.Reader, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("csv source: path is required")
		}
		return NewCSVReader(c.Path), nil
	})

	_ = coresource.Register("sqlite", func(conf map[string]any) (coresource.Reader, error) {
		var c struct {
			Path  string `json:"path"`
			Table string `json:"table"`
			Start string `json:"start_date"`
			End   string `json:"end_date"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("sqlite source: path is required")
		}
		r := NewSQLiteReader(c.Path)
		if c.Table != "" {
			r.Table = c.Table
		}
		r.Start, r.End = c.Start, c.End
		return r, nil
	})
}
