package metrics

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/primaryfuel/core/metrics"
	"github.com/kilianp07/primaryfuel/infra/logger"
)

// InfluxConfig holds the InfluxDB connection settings.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes run summaries to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one run point and one assignment point per primary fuel.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, runPoints(ev)...)
}

// Close releases the client resources.
func (s *InfluxSink) Close() { s.client.Close() }

func runPoints(ev coremetrics.RunEvent) []*write.Point {
	level := ev.Granularity.String()
	points := []*write.Point{
		write.NewPointWithMeasurement("primary_fuel_run").
			AddTag("run_id", ev.RunID).
			AddTag("granularity", level).
			AddField("threshold", ev.Threshold).
			AddField("records", ev.Records).
			AddField("share_rows", ev.ShareRows).
			AddField("dropped", ev.Dropped).
			AddField("unknown", ev.Unknown()).
			AddField("duration_ms", ev.Duration.Milliseconds()).
			SetTime(ev.Time),
	}
	fuels := make([]string, 0, len(ev.PrimaryCounts))
	for f := range ev.PrimaryCounts {
		fuels = append(fuels, f)
	}
	sort.Strings(fuels)
	for _, f := range fuels {
		points = append(points, write.NewPointWithMeasurement("primary_fuel_assignment").
			AddTag("run_id", ev.RunID).
			AddTag("granularity", level).
			AddTag("primary_fuel", f).
			AddField("count", ev.PrimaryCounts[f]).
			SetTime(ev.Time))
	}
	return points
}
