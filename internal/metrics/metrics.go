// Package metrics exposes the service's counters on a Prometheus registry
// through the OpenTelemetry metric SDK.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
)

const meterName = "softball-lineup"

const (
	AttrResult    = "result"
	AttrOutcome   = "outcome"
	AttrReason    = "reason"
	AttrOperation = "operation"
	AttrStatus    = "status"
)

// Recorder is nil-safe: a nil *Recorder records nothing.
type Recorder struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler

	atBats      metric.Int64Counter
	rejections  metric.Int64Counter
	saves       metric.Int64Counter
	saveLatency metric.Float64Histogram
	liveClients metric.Int64UpDownCounter
	rpcs        metric.Int64Counter
}

// New builds a private registry, so tests and multiple servers never
// collide on the default one.
func New() (*Recorder, error) {
	reg := prometheus.NewRegistry()
	exp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	meter := provider.Meter(meterName)

	r := &Recorder{
		provider: provider,
		handler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	if r.atBats, err = meter.Int64Counter("softball.at_bats",
		metric.WithDescription("At-bats recorded, by result and whether they corrected an earlier entry")); err != nil {
		return nil, err
	}
	if r.rejections, err = meter.Int64Counter("softball.at_bat_rejections",
		metric.WithDescription("At-bat entries refused, by reason")); err != nil {
		return nil, err
	}
	if r.saves, err = meter.Int64Counter("softball.saves",
		metric.WithDescription("Spreadsheet saves, by operation and status")); err != nil {
		return nil, err
	}
	if r.saveLatency, err = meter.Float64Histogram("softball.save_duration_ms",
		metric.WithDescription("Spreadsheet save latency in milliseconds")); err != nil {
		return nil, err
	}
	if r.liveClients, err = meter.Int64UpDownCounter("softball.live_clients",
		metric.WithDescription("Connected live box score viewers")); err != nil {
		return nil, err
	}
	if r.rpcs, err = meter.Int64Counter("softball.rpc_requests",
		metric.WithDescription("RPC requests, by operation and status")); err != nil {
		return nil, err
	}
	return r, nil
}

// Handler serves the Prometheus scrape endpoint.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return r.handler
}

func (r *Recorder) AtBatRecorded(ctx context.Context, result, outcome string) {
	if r == nil {
		return
	}
	r.atBats.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrResult, result),
		attribute.String(AttrOutcome, outcome),
	))
}

func (r *Recorder) AtBatRejected(ctx context.Context, reason string) {
	if r == nil {
		return
	}
	r.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrReason, reason)))
}

// Saved records one spreadsheet write; operation is "game" or "lineup".
func (r *Recorder) Saved(ctx context.Context, operation string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrStatus, status),
	)
	r.saves.Add(ctx, 1, attrs)
	r.saveLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (r *Recorder) LiveClients(ctx context.Context, delta int64) {
	if r == nil {
		return
	}
	r.liveClients.Add(ctx, delta)
}

func (r *Recorder) RPC(ctx context.Context, operation, status string) {
	if r == nil {
		return
	}
	r.rpcs.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrStatus, status),
	))
}

func (r *Recorder) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.provider.Shutdown(ctx)
}

func register(lc fx.Lifecycle) (*Recorder, error) {
	r, err := New()
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: r.Shutdown})
	return r, nil
}

var Module = fx.Provide(register)
