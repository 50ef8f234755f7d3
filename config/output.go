package config

import "github.com/kilianp07/primaryfuel/pkg/export"

// OutputConfig defines where result tables are written.
type OutputConfig struct {
	// Format is "csv" or "json".
	Format string `json:"format"`
	// Path receives the main table; "-" is standard output.
	Path string `json:"path"`
	// SharesPath optionally receives the fuel share table during classify.
	SharesPath string `json:"shares_path"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = string(export.FormatCSV)
	}
	if c.Path == "" {
		c.Path = "-"
	}
}

// Validate checks the output format.
func (c OutputConfig) Validate() error {
	_, err := export.ParseFormat(c.Format)
	return err
}
