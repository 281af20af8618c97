package event

import (
	"context"
	"time"
)

// Middleware wraps handlers to add cross-cutting concerns. The wrapped
// handler keeps the original diagnostic name.
type Middleware func(next Handler) Handler

// Chain applies middleware in order, with the first middleware outermost.
func Chain(h Handler, middleware ...Middleware) Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

// Logging reports every handler invocation with its duration and outcome.
func Logging(logFn func(eventType, handlerName string, duration time.Duration, err error)) Middleware {
	return func(next Handler) Handler {
		return Named(next.Name(), func(ctx context.Context, evt Event) error {
			start := time.Now()
			err := next.Handle(ctx, evt)
			logFn(evt.Type(), next.Name(), time.Since(start), err)
			return err
		})
	}
}

// Timeout bounds a single handler invocation. The handler must honor
// context cancellation for the bound to take effect.
func Timeout(d time.Duration) Middleware {
	return func(next Handler) Handler {
		return Named(next.Name(), func(ctx context.Context, evt Event) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.Handle(ctx, evt)
		})
	}
}
