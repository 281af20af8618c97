package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// testMeterProvider wires a manual reader so recorded values can be read
// back synchronously.
func testMeterProvider(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	return reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func counterValue(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", m.Data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecordMessage(t *testing.T) {
	reader := testMeterProvider(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordMessage(ctx, 128)
	m.RecordMessage(ctx, 256)

	metrics := collect(t, reader)

	messages, ok := metrics["logwatch.listener.messages"]
	require.True(t, ok, "messages counter not found")
	assert.EqualValues(t, 2, counterValue(t, messages))

	size, ok := metrics["logwatch.listener.message_size_bytes"]
	require.True(t, ok, "message size histogram not found")
	hist, ok := size.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.EqualValues(t, 2, hist.DataPoints[0].Count)
	assert.EqualValues(t, 384, hist.DataPoints[0].Sum)
}

func TestRecordDecodeFailure(t *testing.T) {
	reader := testMeterProvider(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordDecodeFailure(context.Background())

	metrics := collect(t, reader)
	failures, ok := metrics["logwatch.listener.decode_failures"]
	require.True(t, ok, "decode failures counter not found")
	assert.EqualValues(t, 1, counterValue(t, failures))
}

func TestRecordDispatch(t *testing.T) {
	reader := testMeterProvider(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordDispatch(ctx, "created", 5*time.Millisecond)
	m.RecordDispatch(ctx, "created", 7*time.Millisecond)
	m.RecordDispatch(ctx, "deleted", time.Millisecond)

	metrics := collect(t, reader)

	dispatches, ok := metrics["logwatch.dispatch.count"]
	require.True(t, ok, "dispatch counter not found")
	assert.EqualValues(t, 3, counterValue(t, dispatches))

	sum, ok := dispatches.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	// One data point per event_type attribute value.
	assert.Len(t, sum.DataPoints, 2)

	latency, ok := metrics["logwatch.dispatch.latency_ms"]
	require.True(t, ok, "dispatch latency histogram not found")
	_, ok = latency.Data.(metricdata.Histogram[float64])
	assert.True(t, ok)
}

func TestRecordHandlerError(t *testing.T) {
	reader := testMeterProvider(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordHandlerError(context.Background(), "created", "audit")

	metrics := collect(t, reader)
	errs, ok := metrics["logwatch.dispatch.handler_errors"]
	require.True(t, ok, "handler errors counter not found")
	assert.EqualValues(t, 1, counterValue(t, errs))
}

func TestRecordBenchRequest(t *testing.T) {
	reader := testMeterProvider(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordBenchRequest(ctx, 3*time.Millisecond, true)
	m.RecordBenchRequest(ctx, 9*time.Millisecond, false)

	metrics := collect(t, reader)
	requests, ok := metrics["logwatch.bench.requests"]
	require.True(t, ok, "bench requests counter not found")
	assert.EqualValues(t, 2, counterValue(t, requests))

	sum, ok := requests.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	// Success and failure are distinct attribute sets.
	assert.Len(t, sum.DataPoints, 2)
}

func TestNewMetricsRecorderReturnsRecorder(t *testing.T) {
	testMeterProvider(t)
	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	// Must not panic regardless of backing implementation.
	recorder.RecordMessage(context.Background(), 1)
}
