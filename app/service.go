package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kilianp07/primaryfuel/config"
	"github.com/kilianp07/primaryfuel/core/fuel"
	coremetrics "github.com/kilianp07/primaryfuel/core/metrics"
	"github.com/kilianp07/primaryfuel/core/model"
	"github.com/kilianp07/primaryfuel/core/source"
	"github.com/kilianp07/primaryfuel/infra/logger"
	_ "github.com/kilianp07/primaryfuel/infra/metrics"
	_ "github.com/kilianp07/primaryfuel/infra/source"
	"github.com/kilianp07/primaryfuel/pkg/export"
)

// Service wires a record source, the fuel pipeline and the table writers.
type Service struct {
	Reader   source.Reader
	Pipeline *fuel.Pipeline
	sink     coremetrics.MetricsSink
	format   export.Format
	output   config.OutputConfig
	log      logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Configure(cfg.Logging.Options()); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	reader, err := source.New(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("source (registered: %s): %w", strings.Join(source.Types(), ", "), err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	pipeline, err := fuel.NewPipeline(cfg.Fuel, logger.New("fuel"), sink)
	if err != nil {
		coremetrics.Close(sink)
		return nil, err
	}
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		coremetrics.Close(sink)
		return nil, err
	}
	return &Service{
		Reader:   reader,
		Pipeline: pipeline,
		sink:     sink,
		format:   format,
		output:   cfg.Output,
		log:      logg,
	}, nil
}

// Close releases the metrics clients and the log file.
func (s *Service) Close() error {
	coremetrics.Close(s.sink)
	return logger.Close()
}

func (s *Service) read(ctx context.Context) ([]model.FuelConsumptionRecord, error) {
	records, err := s.Reader.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	s.log.Infof("loaded %d fuel consumption records", len(records))
	return records, nil
}

// Classify determines primary fuels and writes them to stdout or the
// configured path. The share table is also written when shares_path is set.
func (s *Service) Classify(ctx context.Context, stdout io.Writer) (fuel.Result, error) {
	records, err := s.read(ctx)
	if err != nil {
		return fuel.Result{}, err
	}
	res, err := s.Pipeline.Run(ctx, records)
	if err != nil {
		return res, err
	}
	if s.output.SharesPath != "" {
		if err := s.writeTo(s.output.SharesPath, stdout, func(w io.Writer) error {
			return export.WriteShares(w, s.format, res.Shares)
		}); err != nil {
			return res, fmt.Errorf("write shares: %w", err)
		}
	}
	err = s.writeTo(s.output.Path, stdout, func(w io.Writer) error {
		return export.WritePrimary(w, s.format, s.Pipeline.Granularity(), res.Primary)
	})
	if err != nil {
		return res, fmt.Errorf("write primary fuel: %w", err)
	}
	return res, nil
}

// Shares computes the fuel share table only and writes it.
func (s *Service) Shares(ctx context.Context, stdout io.Writer) (fuel.Result, error) {
	records, err := s.read(ctx)
	if err != nil {
		return fuel.Result{}, err
	}
	res, err := s.Pipeline.Shares(ctx, records)
	if err != nil {
		return res, err
	}
	err = s.writeTo(s.output.Path, stdout, func(w io.Writer) error {
		return export.WriteShares(w, s.format, res.Shares)
	})
	if err != nil {
		return res, fmt.Errorf("write shares: %w", err)
	}
	return res, nil
}

func (s *Service) writeTo(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	s.log.Infof("wrote %s", path)
	return f.Close()
}
