package handlers_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/randalmurphal/logwatch/pkg/logwatch/event"
	"github.com/randalmurphal/logwatch/pkg/logwatch/handlers"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestCreated(t *testing.T) {
	var buf bytes.Buffer
	h := handlers.Created(testLogger(&buf))

	if h.Name() != "log-created" {
		t.Errorf("expected log-created, got %q", h.Name())
	}

	evt := event.Event{
		"event_type": "created",
		"id":         float64(7),
		"schema_id":  "schema-1",
		"created_at": "2026-08-29T12:00:00Z",
		"log_data":   map[string]any{"level": "INFO"},
	}
	if err := h.Handle(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"log created", "id=7", "schema_id=schema-1", "created_at=2026-08-29T12:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestDeleted(t *testing.T) {
	var buf bytes.Buffer
	h := handlers.Deleted(testLogger(&buf))

	if h.Name() != "log-deleted" {
		t.Errorf("expected log-deleted, got %q", h.Name())
	}

	evt := event.Event{"event_type": "deleted", "id": float64(3), "schema_id": "schema-1"}
	if err := h.Handle(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "log deleted") {
		t.Errorf("expected deletion log line, got %q", buf.String())
	}
}

func TestRegisterAll(t *testing.T) {
	var buf bytes.Buffer
	reg := event.NewRegistry()
	handlers.RegisterAll(reg, testLogger(&buf))

	if len(reg.HandlersFor("created")) != 1 {
		t.Error("expected a created handler")
	}
	if len(reg.HandlersFor("deleted")) != 1 {
		t.Error("expected a deleted handler")
	}

	reg.Dispatch(context.Background(), event.Event{"event_type": "created", "id": float64(1)})
	reg.Dispatch(context.Background(), event.Event{"event_type": "deleted", "id": float64(1)})

	out := buf.String()
	if !strings.Contains(out, "log created") || !strings.Contains(out, "log deleted") {
		t.Errorf("expected both handlers to run, got %q", out)
	}
}
