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
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
)

const meterName = "premscout"

// Attribute keys shared by all instruments.
const (
	AttrMethod = "method"
	AttrPath   = "path"
	AttrStatus = "status"
	AttrFeed   = "feed"
	AttrTool   = "tool"
	AttrResult = "result"
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled     bool
	ServiceName string
}

// Setup configures OpenTelemetry metrics backed by a Prometheus registry.
// It returns a Recorder, the Prometheus HTTP handler (nil when disabled), and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = meterName
	}

	reg := prometheus.NewRegistry()
	exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	inst, err := newOtelInstruments(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return newRecorder(inst), handler, provider.Shutdown, nil
}

type otelInstruments struct {
	ctx              context.Context
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	feedAttempts     metric.Int64Counter
	feedErrors       metric.Int64Counter
	feedLatencyMs    metric.Float64Histogram
	catalogLoads     metric.Int64Counter
	catalogRecords   metric.Int64Gauge
	catalogLatencyMs metric.Float64Histogram
	toolCalls        metric.Int64Counter
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter(meterName)

	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}
	feedAttempts, err := meter.Int64Counter("feed_fetch_attempts_total")
	if err != nil {
		return nil, err
	}
	feedErrors, err := meter.Int64Counter("feed_fetch_errors_total")
	if err != nil {
		return nil, err
	}
	feedLatency, err := meter.Float64Histogram("feed_fetch_duration_ms")
	if err != nil {
		return nil, err
	}
	catalogLoads, err := meter.Int64Counter("catalog_loads_total")
	if err != nil {
		return nil, err
	}
	catalogRecords, err := meter.Int64Gauge("catalog_records")
	if err != nil {
		return nil, err
	}
	catalogLatency, err := meter.Float64Histogram("catalog_load_duration_ms")
	if err != nil {
		return nil, err
	}
	toolCalls, err := meter.Int64Counter("tool_calls_total")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:              context.Background(),
		requests:         requests,
		requestLatencyMs: requestLatency,
		feedAttempts:     feedAttempts,
		feedErrors:       feedErrors,
		feedLatencyMs:    feedLatency,
		catalogLoads:     catalogLoads,
		catalogRecords:   catalogRecords,
		catalogLatencyMs: catalogLatency,
		toolCalls:        toolCalls,
	}, nil
}

func resultAttr(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String(AttrResult, "error")
	}
	return attribute.String(AttrResult, "ok")
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	)
	o.requests.Add(o.ctx, 1, attrs)
	o.requestLatencyMs.Record(o.ctx, float64(duration.Milliseconds()), attrs)
}

func (o *otelInstruments) recordFeedAttempt(feed string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String(AttrFeed, feed))
	o.feedAttempts.Add(o.ctx, 1, attrs)
	o.feedLatencyMs.Record(o.ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		o.feedErrors.Add(o.ctx, 1, attrs)
	}
}

func (o *otelInstruments) recordCatalogLoad(records int, duration time.Duration, err error) {
	o.catalogLoads.Add(o.ctx, 1, metric.WithAttributes(resultAttr(err)))
	o.catalogLatencyMs.Record(o.ctx, float64(duration.Milliseconds()))
	if err == nil {
		o.catalogRecords.Record(o.ctx, int64(records))
	}
}

func (o *otelInstruments) recordToolCall(tool string, err error) {
	o.toolCalls.Add(o.ctx, 1, metric.WithAttributes(attribute.String(AttrTool, tool), resultAttr(err)))
}
