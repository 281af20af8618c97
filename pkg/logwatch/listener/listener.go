// Package listener owns the connection lifecycle: it dials the event feed,
// decodes each inbound message, and hands the result to the handler
// registry.
//
// The receive loop is sequential and cooperative. Each message is fully
// decoded and dispatched, with every matching handler run to completion,
// before the next message is read. A slow handler therefore delays
// everything behind it; there is no concurrent dispatch of distinct
// messages.
package listener

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/randalmurphal/logwatch/pkg/logwatch/event"
	lwerrors "github.com/randalmurphal/logwatch/pkg/logwatch/errors"
	"github.com/randalmurphal/logwatch/pkg/logwatch/observability"
)

// Stream yields raw message payloads from an established connection until
// the peer closes it or the session is cancelled.
type Stream interface {
	// Next blocks until the next payload arrives. It returns io.EOF on a
	// clean close, the context error when cancelled, and a transport-level
	// error otherwise.
	Next(ctx context.Context) ([]byte, error)

	// Close releases the connection. Safe to call more than once.
	Close() error
}

// Dialer establishes a Stream to an endpoint.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Stream, error)
}

// Listener runs one listen session against an endpoint, routing every
// decoded event through the registry.
type Listener struct {
	dialer   Dialer
	registry *event.Registry
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager

	state atomic.Int32
}

// Option configures a Listener.
type Option func(*Listener)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Listener) {
		l.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(l *Listener) {
		l.metrics = m
	}
}

// WithSpanManager sets the trace span manager.
func WithSpanManager(s observability.SpanManager) Option {
	return func(l *Listener) {
		l.spans = s
	}
}

// New creates a Listener. The registry must be fully populated before
// Listen is called; it is treated as read-only afterwards.
func New(dialer Dialer, registry *event.Registry, opts ...Option) *Listener {
	l := &Listener{
		dialer:   dialer,
		registry: registry,
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Listen connects to endpoint and processes inbound messages until the
// stream ends.
//
// The returned error is nil on a clean close or cancellation (graceful
// termination), a *ConnectError when the connection cannot be established,
// and a *TransportError when the connection drops mid-stream. Decode and
// handler faults are reported and never terminate the session.
func (l *Listener) Listen(ctx context.Context, endpoint string) error {
	l.setState(StateConnecting)
	l.logger.Info("connecting", slog.String("endpoint", endpoint))

	stream, err := l.dialer.Dial(ctx, endpoint)
	if err != nil {
		l.setState(StateClosed)
		if ctx.Err() != nil {
			l.logger.Info("interrupted while connecting")
			return nil
		}
		cerr := &lwerrors.ConnectError{Endpoint: endpoint, Err: err}
		l.logger.Error("connect failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return cerr
	}
	defer stream.Close()

	l.setState(StateConnected)
	l.logger.Info("connected, listening for events", slog.String("endpoint", endpoint))

	sctx, span := l.spans.StartSessionSpan(ctx, endpoint)
	var terminal error
	defer func() {
		l.spans.EndSpanWithError(span, terminal)
	}()

	for {
		l.setState(StateReceiving)
		payload, err := stream.Next(sctx)
		if err != nil {
			l.setState(StateClosed)
			switch {
			case errors.Is(err, io.EOF):
				l.logger.Info("stream closed by peer")
				return nil
			case ctx.Err() != nil:
				l.logger.Info("disconnected")
				return nil
			default:
				terminal = &lwerrors.TransportError{Endpoint: endpoint, Err: err}
				l.logger.Error("transport fault",
					slog.String("endpoint", endpoint),
					slog.String("error", err.Error()))
				return terminal
			}
		}

		l.metrics.RecordMessage(sctx, len(payload))
		l.setState(StateDispatching)
		l.process(sctx, payload)
	}
}

// process decodes and dispatches one payload. Faults are contained here so
// a single bad message never terminates the session.
func (l *Listener) process(ctx context.Context, payload []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			l.logger.Error("message processing panic", slog.Any("panic", rec))
		}
	}()

	evt, err := event.Decode(payload)
	if err != nil {
		l.metrics.RecordDecodeFailure(ctx)
		l.logger.Error("failed to parse message", slog.String("error", err.Error()))
		return
	}

	dctx, span := l.spans.StartDispatchSpan(ctx, evt.Type())
	start := time.Now()
	l.registry.Dispatch(dctx, evt)
	l.spans.EndSpanWithError(span, nil)
	l.metrics.RecordDispatch(ctx, evt.Type(), time.Since(start))
}

// ExitCode maps the result of Listen onto the process exit contract:
// 0 for graceful termination, 1 for a terminal fault.
func ExitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}
