package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records logwatch metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordMessage records one inbound payload and its size.
	RecordMessage(ctx context.Context, sizeBytes int)

	// RecordDecodeFailure records a payload that failed structured decode.
	RecordDecodeFailure(ctx context.Context)

	// RecordDispatch records one completed dispatch with its duration.
	RecordDispatch(ctx context.Context, eventType string, duration time.Duration)

	// RecordHandlerError records a captured handler failure.
	RecordHandlerError(ctx context.Context, eventType, handler string)

	// RecordBenchRequest records one bench request with its outcome.
	RecordBenchRequest(ctx context.Context, duration time.Duration, success bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	messages        metric.Int64Counter
	messageSize     metric.Int64Histogram
	decodeFailures  metric.Int64Counter
	dispatches      metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	handlerErrors   metric.Int64Counter
	benchRequests   metric.Int64Counter
	benchLatency    metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("logwatch")

	messages, err := meter.Int64Counter("logwatch.listener.messages",
		metric.WithDescription("Number of inbound messages received"),
	)
	if err != nil {
		return nil, err
	}

	messageSize, err := meter.Int64Histogram("logwatch.listener.message_size_bytes",
		metric.WithDescription("Inbound message size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	decodeFailures, err := meter.Int64Counter("logwatch.listener.decode_failures",
		metric.WithDescription("Number of payloads that failed structured decode"),
	)
	if err != nil {
		return nil, err
	}

	dispatches, err := meter.Int64Counter("logwatch.dispatch.count",
		metric.WithDescription("Number of dispatched events"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("logwatch.dispatch.latency_ms",
		metric.WithDescription("Dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	handlerErrors, err := meter.Int64Counter("logwatch.dispatch.handler_errors",
		metric.WithDescription("Number of captured handler failures"),
	)
	if err != nil {
		return nil, err
	}

	benchRequests, err := meter.Int64Counter("logwatch.bench.requests",
		metric.WithDescription("Number of bench requests issued"),
	)
	if err != nil {
		return nil, err
	}

	benchLatency, err := meter.Float64Histogram("logwatch.bench.request_latency_ms",
		metric.WithDescription("Bench request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		messages:        messages,
		messageSize:     messageSize,
		decodeFailures:  decodeFailures,
		dispatches:      dispatches,
		dispatchLatency: dispatchLatency,
		handlerErrors:   handlerErrors,
		benchRequests:   benchRequests,
		benchLatency:    benchLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordMessage records one inbound payload.
func (m *otelMetrics) RecordMessage(ctx context.Context, sizeBytes int) {
	m.messages.Add(ctx, 1)
	m.messageSize.Record(ctx, int64(sizeBytes))
}

// RecordDecodeFailure records a failed decode.
func (m *otelMetrics) RecordDecodeFailure(ctx context.Context) {
	m.decodeFailures.Add(ctx, 1)
}

// RecordDispatch records one completed dispatch.
func (m *otelMetrics) RecordDispatch(ctx context.Context, eventType string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("event_type", eventType),
	}
	m.dispatches.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordHandlerError records a captured handler failure.
func (m *otelMetrics) RecordHandlerError(ctx context.Context, eventType, handler string) {
	m.handlerErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.String("handler", handler),
	))
}

// RecordBenchRequest records one bench request.
func (m *otelMetrics) RecordBenchRequest(ctx context.Context, duration time.Duration, success bool) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.benchRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.benchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
