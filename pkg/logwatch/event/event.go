// Package event provides the event model and handler registry for logwatch.
//
// Events arrive as JSON objects on the feed. The only field the dispatcher
// interprets is "event_type"; everything else is opaque and passed through
// to handlers unmodified.
package event

import (
	"context"
	"encoding/json"

	lwerrors "github.com/randalmurphal/logwatch/pkg/logwatch/errors"
)

// TypeField is the routing key every inbound event is expected to carry.
const TypeField = "event_type"

// Event is one decoded inbound message: an order-irrelevant key-value
// mapping. Handlers pick out the fields they care about.
type Event map[string]any

// Type returns the routing key. An absent or non-string event_type field
// routes as the empty string, which is a valid (if usually unregistered)
// key.
func (e Event) Type() string {
	if s, ok := e[TypeField].(string); ok {
		return s
	}
	return ""
}

// Field returns the raw value for key, or nil when absent.
func (e Event) Field(key string) any {
	return e[key]
}

// StringField returns the value for key when it is a string, else "".
func (e Event) StringField(key string) string {
	s, _ := e[key].(string)
	return s
}

// Decode parses one raw payload into an Event. A malformed payload yields
// a *DecodeError; the caller reports it and moves on to the next message.
func Decode(data []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, &lwerrors.DecodeError{Payload: data, Err: err}
	}
	return evt, nil
}

// Handler is a unit of behavior registered under exactly one event type.
type Handler interface {
	// Name identifies the handler in diagnostics.
	Name() string

	// Handle processes one event. A returned error is reported by the
	// dispatcher and never prevents the remaining handlers from running.
	Handle(ctx context.Context, evt Event) error
}

// HandlerFunc adapts a bare function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Name implements Handler.
func (f HandlerFunc) Name() string {
	return "anonymous"
}

// Named wraps fn with a diagnostic name. Registration is an explicit call
// made during startup wiring:
//
//	registry.Register("created", event.Named("on-created", onCreated))
func Named(name string, fn func(ctx context.Context, evt Event) error) Handler {
	return &namedHandler{name: name, fn: fn}
}

type namedHandler struct {
	name string
	fn   func(ctx context.Context, evt Event) error
}

func (h *namedHandler) Handle(ctx context.Context, evt Event) error {
	return h.fn(ctx, evt)
}

func (h *namedHandler) Name() string {
	return h.name
}
