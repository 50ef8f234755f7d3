package fuel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/primaryfuel/core/logger"
	"github.com/kilianp07/primaryfuel/core/metrics"
	"github.com/kilianp07/primaryfuel/core/model"
)

// Stage names reported in logs, warnings and stage metrics.
const (
	StageShares   = "fuel_shares"
	StageClassify = "primary_fuel"
)

// Result is the outcome of a full determination run.
type Result struct {
	RunID    string
	Shares   model.ShareTable
	Primary  []model.PrimaryFuelRow
	Warnings []model.EmptyResultWarning
}

// Pipeline runs the share calculation and the classification in sequence.
type Pipeline struct {
	level      model.Granularity
	threshold  float64
	duplicates DuplicatePolicy
	workers    int
	fuels      []string
	log        logger.Logger
	sink       metrics.MetricsSink
	now        func() time.Time
}

// NewPipeline validates cfg and builds a Pipeline. A nil logger or sink
// disables logging or metrics.
func NewPipeline(cfg Config, log logger.Logger, sink metrics.MetricsSink) (*Pipeline, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("fuel config: %w", err)
	}
	level, _ := model.ParseGranularity(cfg.Level)
	dup, _ := ParseDuplicatePolicy(cfg.Duplicates)
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Pipeline{
		level:      level,
		threshold:  *cfg.Threshold,
		duplicates: dup,
		workers:    cfg.Workers,
		fuels:      cfg.Fuels,
		log:        log,
		sink:       sink,
		now:        time.Now,
	}, nil
}

// Granularity returns the level the pipeline aggregates at.
func (p *Pipeline) Granularity() model.Granularity { return p.level }

// Threshold returns the primary fuel threshold.
func (p *Pipeline) Threshold() float64 { return p.threshold }

// Shares runs the share calculation only.
func (p *Pipeline) Shares(ctx context.Context, records []model.FuelConsumptionRecord) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := p.log.With("run_id", res.RunID)
	start := p.now()
	table, err := p.shares(ctx, res.RunID, log, records)
	if err != nil {
		return res, err
	}
	res.Shares = table
	if w, ok := emptySharesWarning(table); ok {
		log.Warnf("%v", w)
		res.Warnings = append(res.Warnings, w)
	}
	p.record(log, res, len(records), start)
	return res, nil
}

// Run computes fuel shares and then classifies every entity-period.
func (p *Pipeline) Run(ctx context.Context, records []model.FuelConsumptionRecord) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := p.log.With("run_id", res.RunID)
	start := p.now()

	table, err := p.shares(ctx, res.RunID, log, records)
	if err != nil {
		return res, err
	}
	res.Shares = table
	if w, ok := emptySharesWarning(table); ok {
		log.Warnf("%v", w)
		res.Warnings = append(res.Warnings, w)
	}

	stageStart := p.now()
	primary, err := ClassifyPrimaryFuel(table, p.threshold)
	if err != nil {
		log.Errorf("classify primary fuel: %v", err)
		return res, fmt.Errorf("classify primary fuel: %w", err)
	}
	res.Primary = primary
	p.recordStage(log, res.RunID, StageClassify, len(primary), stageStart)

	counts := primaryCounts(primary)
	if len(primary) > 0 && counts[model.Unknown] == len(primary) {
		w := model.EmptyResultWarning{
			Stage:  StageClassify,
			Reason: fmt.Sprintf("no fuel reached threshold %g", p.threshold),
		}
		log.Warnf("%v", w)
		res.Warnings = append(res.Warnings, w)
	}
	log.Infow("primary fuel determined", map[string]any{
		"granularity": p.level.String(),
		"threshold":   p.threshold,
		"rows":        len(primary),
		"unknown":     counts[model.Unknown],
	})
	p.record(log, res, len(records), start)
	return res, nil
}

func (p *Pipeline) shares(ctx context.Context, runID string, log logger.Logger, records []model.FuelConsumptionRecord) (model.ShareTable, error) {
	start := p.now()
	opts := []Option{WithDuplicatePolicy(p.duplicates), WithVocabulary(p.fuels...)}
	table, err := ComputeFuelSharesParallel(ctx, records, p.level, p.workers, opts...)
	if err != nil {
		log.Errorf("compute fuel shares: %v", err)
		return table, fmt.Errorf("compute fuel shares: %w", err)
	}
	log.Debugw("fuel shares computed", map[string]any{
		"records": len(records),
		"rows":    table.Len(),
		"fuels":   len(table.Fuels),
		"dropped": table.Dropped,
	})
	p.recordStage(log, runID, StageShares, table.Len(), start)
	return table, nil
}

func (p *Pipeline) recordStage(log logger.Logger, runID, stage string, rows int, start time.Time) {
	rec, ok := p.sink.(metrics.StageRecorder)
	if !ok {
		return
	}
	ev := metrics.StageEvent{RunID: runID, Stage: stage, Rows: rows, Duration: p.now().Sub(start)}
	if err := rec.RecordStage(ev); err != nil {
		log.Warnf("record stage metrics: %v", err)
	}
}

func (p *Pipeline) record(log logger.Logger, res Result, records int, start time.Time) {
	now := p.now()
	ev := metrics.RunEvent{
		RunID:         res.RunID,
		Granularity:   p.level,
		Threshold:     p.threshold,
		Records:       records,
		ShareRows:     res.Shares.Len(),
		Dropped:       res.Shares.Dropped,
		PrimaryCounts: primaryCounts(res.Primary),
		Duration:      now.Sub(start),
		Time:          now,
	}
	if err := p.sink.RecordRun(ev); err != nil {
		log.Warnf("record run metrics: %v", err)
	}
}

func emptySharesWarning(t model.ShareTable) (model.EmptyResultWarning, bool) {
	if t.Len() > 0 || t.Dropped == 0 {
		return model.EmptyResultWarning{}, false
	}
	return model.EmptyResultWarning{
		Stage:  StageShares,
		Reason: fmt.Sprintf("all %d entity-periods had zero total heat", t.Dropped),
	}, true
}

func primaryCounts(rows []model.PrimaryFuelRow) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.PrimaryFuel]++
	}
	return counts
}
