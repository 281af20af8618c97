package event

import (
	"context"
	"fmt"
	"log/slog"

	lwerrors "github.com/randalmurphal/logwatch/pkg/logwatch/errors"
)

// Registry maps an event type to the ordered sequence of handlers
// interested in it. Registration order is dispatch order.
//
// Registration happens once during startup wiring and is not synchronized;
// Dispatch treats the mapping as read-only after that.
type Registry struct {
	handlers   map[string][]Handler
	middleware []Middleware
	logger     *slog.Logger
	onError    func(evt Event, handler string, err error)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithOnError sets a hook called for every captured handler failure,
// in addition to the structured log line.
func WithOnError(fn func(evt Event, handler string, err error)) RegistryOption {
	return func(r *Registry) {
		r.onError = fn
	}
}

// NewRegistry creates an empty handler registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		handlers: make(map[string][]Handler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Use adds middleware applied to subsequently registered handlers.
func (r *Registry) Use(mw Middleware) {
	r.middleware = append(r.middleware, mw)
}

// Register appends h to the sequence for eventType, creating the sequence
// if absent. Duplicate registrations are retained; eventType may be empty.
func (r *Registry) Register(eventType string, h Handler) {
	r.handlers[eventType] = append(r.handlers[eventType], Chain(h, r.middleware...))
}

// HandlersFor returns the registered sequence for eventType in dispatch
// order, or an empty slice when the key is unknown. The returned slice is
// a copy.
func (r *Registry) HandlersFor(eventType string) []Handler {
	hs := r.handlers[eventType]
	out := make([]Handler, len(hs))
	copy(out, hs)
	return out
}

// Types returns all routing keys with at least one registered handler.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	return types
}

// Dispatch routes evt to every handler registered under its type, in
// registration order. A handler that fails or panics is reported with its
// name and the remaining handlers still run; Dispatch never propagates
// handler failures to the caller.
func (r *Registry) Dispatch(ctx context.Context, evt Event) {
	eventType := evt.Type()
	hs := r.handlers[eventType]

	if len(hs) == 0 {
		// Not an error: an unregistered type is simply not interesting.
		r.logger.Debug("no handlers registered",
			slog.String("event_type", eventType))
		return
	}

	for _, h := range hs {
		if err := r.invoke(ctx, h, evt); err != nil {
			r.logger.Error("handler failed",
				slog.String("handler", h.Name()),
				slog.String("event_type", eventType),
				slog.String("error", err.Error()))
			if r.onError != nil {
				r.onError(evt, h.Name(), err)
			}
		}
	}
}

// invoke runs one handler, converting a panic into a HandlerError so a
// misbehaving handler cannot take down the dispatch or the receive loop.
func (r *Registry) invoke(ctx context.Context, h Handler, evt Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &lwerrors.HandlerError{
				Handler:   h.Name(),
				EventType: evt.Type(),
				Err:       fmt.Errorf("panic: %v", rec),
			}
		}
	}()

	if herr := h.Handle(ctx, evt); herr != nil {
		return &lwerrors.HandlerError{
			Handler:   h.Name(),
			EventType: evt.Type(),
			Err:       herr,
		}
	}
	return nil
}
