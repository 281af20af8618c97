package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "INFO", "bogus", ""} {
		logger := NewLogger(level, false)
		require.NotNil(t, logger, "level %q", level)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	logger := NewLogger("info", true)
	require.NotNil(t, logger)
	logger.Info("json format smoke test")
}

func TestEnrichLogger(t *testing.T) {
	base := NewLogger("info", false)
	enriched := EnrichLogger(base, "session-1", "ws://test/ws/logs")
	require.NotNil(t, enriched)
	assert.NotEqual(t, base, enriched)

	assert.Nil(t, EnrichLogger(nil, "s", "e"))
}

func TestTimedOperation(t *testing.T) {
	elapsed := TimedOperation()
	time.Sleep(10 * time.Millisecond)
	ms := elapsed()
	assert.GreaterOrEqual(t, ms, float64(10))
}

func TestNoopMetricsDoesNothing(t *testing.T) {
	m := NoopMetrics{}
	ctx := context.Background()
	m.RecordMessage(ctx, 1)
	m.RecordDecodeFailure(ctx)
	m.RecordDispatch(ctx, "created", time.Millisecond)
	m.RecordHandlerError(ctx, "created", "h")
	m.RecordBenchRequest(ctx, time.Millisecond, true)
}

func TestNoopSpanManager(t *testing.T) {
	sm := NoopSpanManager{}
	ctx := context.Background()

	sctx, span := sm.StartSessionSpan(ctx, "ws://x")
	assert.Equal(t, ctx, sctx)
	assert.False(t, span.SpanContext().IsValid())

	dctx, dspan := sm.StartDispatchSpan(ctx, "created")
	assert.Equal(t, ctx, dctx)
	sm.EndSpanWithError(dspan, nil)
	sm.AddSpanEvent(ctx, "noop")
}
