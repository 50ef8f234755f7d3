package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/primaryfuel/app"
	"github.com/kilianp07/primaryfuel/config"
	"github.com/kilianp07/primaryfuel/core/fuel"
)

var (
	cfgPath    string
	inputPath  string
	level      string
	threshold  float64
	format     string
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:          "primaryfuel",
	Short:        "Determine the primary fuel of boilers and plants from EIA 923 boiler fuel data",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	pf.StringVarP(&inputPath, "input", "i", "", "boiler fuel CSV file, overrides the configured source")
	pf.StringVarP(&level, "level", "l", "", "aggregation level: plant or boiler")
	pf.Float64VarP(&threshold, "threshold", "t", fuel.DefaultThreshold, "minimum heat share for a primary fuel")
	pf.StringVarP(&format, "format", "f", "", "output format: csv or json")
	pf.StringVarP(&outputPath, "output", "o", "", "output file, - for stdout")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration and applies flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Source.Type = "csv"
		cfg.Source.Conf = map[string]any{"path": inputPath}
	}
	if flags.Changed("level") {
		cfg.Fuel.Level = level
	}
	if flags.Changed("threshold") {
		t := threshold
		cfg.Fuel.Threshold = &t
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("output") {
		cfg.Output.Path = outputPath
	}
	if cfg.Source.Type == "" {
		return nil, fmt.Errorf("no record source: set --input or source in the configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newService builds the service and a context canceled on interrupt.
func newService(cmd *cobra.Command) (*app.Service, context.Context, context.CancelFunc, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return svc, ctx, stop, nil
}
