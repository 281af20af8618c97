package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/randalmurphal/logwatch/pkg/logwatch/event"
	lwerrors "github.com/randalmurphal/logwatch/pkg/logwatch/errors"
)

func TestDecode(t *testing.T) {
	evt, err := event.Decode([]byte(`{"event_type":"created","id":1,"schema_id":"abc"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.Type() != "created" {
		t.Errorf("expected created, got %q", evt.Type())
	}
	if evt.StringField("schema_id") != "abc" {
		t.Errorf("expected abc, got %q", evt.StringField("schema_id"))
	}
	// JSON numbers decode as float64
	if evt.Field("id") != float64(1) {
		t.Errorf("expected 1, got %v", evt.Field("id"))
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := event.Decode([]byte("not json"))
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}

	var decodeErr *lwerrors.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %T", err)
	}
}

func TestTypeMissing(t *testing.T) {
	evt, err := event.Decode([]byte(`{"id":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.Type() != "" {
		t.Errorf("missing event_type should route as empty string, got %q", evt.Type())
	}
}

func TestTypeNotString(t *testing.T) {
	evt := event.Event{"event_type": 42}
	if evt.Type() != "" {
		t.Errorf("non-string event_type should route as empty string, got %q", evt.Type())
	}
}

func TestStringFieldAbsent(t *testing.T) {
	evt := event.Event{}
	if evt.StringField("nope") != "" {
		t.Error("expected empty string for absent field")
	}
	if evt.Field("nope") != nil {
		t.Error("expected nil for absent field")
	}
}

func TestNamedHandler(t *testing.T) {
	var got event.Event
	h := event.Named("probe", func(ctx context.Context, evt event.Event) error {
		got = evt
		return nil
	})

	if h.Name() != "probe" {
		t.Errorf("expected probe, got %q", h.Name())
	}

	evt := event.Event{"event_type": "x"}
	if err := h.Handle(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type() != "x" {
		t.Error("handler did not receive the event")
	}
}
