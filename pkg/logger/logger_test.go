package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("billing-counter", &buf)

	l.Error("order_finalize", "req-1", "order submission failed", errors.New("connection refused"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}

	if entry["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", entry["level"])
	}
	if entry["service"] != "billing-counter" {
		t.Errorf("service = %v", entry["service"])
	}
	if entry["action"] != "order_finalize" {
		t.Errorf("action = %v", entry["action"])
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	group, ok := entry["error"].(map[string]any)
	if !ok || group["msg"] != "connection refused" {
		t.Errorf("error group = %v", entry["error"])
	}
}

func TestLoggerOmitsEmptyRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("billing-counter", &buf)

	l.Info("catalog_refresh", "", "catalog refreshed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if _, ok := entry["request_id"]; ok {
		t.Error("request_id should be omitted when empty")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestID(ctx); got != "abc" {
		t.Errorf("RequestID = %q, want abc", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID on empty context = %q", got)
	}
}
