package amqp

import (
	"testing"
	"time"
)

func TestExportRequestMessageRoundTrip(t *testing.T) {
	msg := NewExportRequestMessage("5aa0c9d4-2f0e-4a1b-9f1c-0d8f6a7b3c21", "2026-03", ReasonExpenseCreated)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := ExportRequestMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.UserID != msg.UserID || got.Month != msg.Month || got.Reason != msg.Reason {
		t.Fatalf("round trip = %+v, want %+v", got, msg)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp should survive the round trip")
	}
}

func TestExportRequestMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ExportRequestMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestNewExportRequestMessageSetsTimestamp(t *testing.T) {
	before := time.Now()
	msg := NewExportRequestMessage("u", "2026-01", ReasonPeriodicSweep)
	if msg.Timestamp.Before(before.Add(-time.Second)) {
		t.Fatalf("timestamp %v predates creation", msg.Timestamp)
	}
}
