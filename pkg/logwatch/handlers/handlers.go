// Package handlers contains the built-in handlers for the log event feed.
//
// The feed emits one JSON object per log mutation with an event_type of
// "created" or "deleted" and the log record fields alongside it.
package handlers

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/logwatch/pkg/logwatch/event"
)

// Created returns the handler for "created" events. It logs the new log
// record's fields.
func Created(logger *slog.Logger) event.Handler {
	return event.Named("log-created", func(_ context.Context, evt event.Event) error {
		logger.Info("log created",
			slog.Any("id", evt.Field("id")),
			slog.String("schema_id", evt.StringField("schema_id")),
			slog.String("created_at", evt.StringField("created_at")),
			slog.Any("log_data", evt.Field("log_data")),
		)
		return nil
	})
}

// Deleted returns the handler for "deleted" events.
func Deleted(logger *slog.Logger) event.Handler {
	return event.Named("log-deleted", func(_ context.Context, evt event.Event) error {
		logger.Info("log deleted",
			slog.Any("id", evt.Field("id")),
			slog.String("schema_id", evt.StringField("schema_id")),
		)
		return nil
	})
}

// RegisterAll wires the built-in handlers into a registry. Explicit calls
// during startup replace registration-at-definition sugar.
func RegisterAll(registry *event.Registry, logger *slog.Logger) {
	registry.Register("created", Created(logger))
	registry.Register("deleted", Deleted(logger))
}
