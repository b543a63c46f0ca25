package instrumentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

const (
	testToolEvents = "list-events"
	testToolInsert = "insert-event"
)

func newJSONLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testToolEvents)

	if ti.Tool != testToolEvents {
		t.Errorf("Tool = %q, want %q", ti.Tool, testToolEvents)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}
	if _, err := uuid.Parse(ti.InvocationID); err != nil {
		t.Errorf("InvocationID %q is not a UUID: %v", ti.InvocationID, err)
	}

	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusSuccess)
	}
}

func TestToolInvocation_UniqueIDs(t *testing.T) {
	a := NewToolInvocation(testToolEvents)
	b := NewToolInvocation(testToolEvents)
	if a.InvocationID == b.InvocationID {
		t.Error("expected distinct invocation ids")
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testToolInsert)
	ti.CompleteWithError(errors.New("permission denied"))

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "permission denied" {
		t.Errorf("Error = %q, want %q", ti.Error, "permission denied")
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func TestToolInvocation_WithArgumentsSortsNames(t *testing.T) {
	ti := NewToolInvocation(testToolEvents).WithArguments(map[string]any{
		"timeMin":    "2024-01-01T00:00:00Z",
		"calendarId": "primary",
		"q":          "standup",
	})

	want := []string{"calendarId", "q", "timeMin"}
	if strings.Join(ti.ArgumentNames, ",") != strings.Join(want, ",") {
		t.Errorf("ArgumentNames = %v, want %v", ti.ArgumentNames, want)
	}
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ti := NewToolInvocation(testToolEvents).WithSpanContext(context.Background())
	if ti.TraceID != "" || ti.SpanID != "" {
		t.Errorf("expected empty trace context, got %q/%q", ti.TraceID, ti.SpanID)
	}
}

func TestAuditLogger_LogToolInvocation_Success(t *testing.T) {
	var buf bytes.Buffer
	logger := NewAuditLogger(newJSONLogger(&buf))

	ti := NewToolInvocation(testToolEvents).
		WithService(ServiceCalendar, OperationList, "GET").
		WithAuthenticated(true).
		WithArguments(map[string]any{"calendarId": "secret-calendar"})
	ti.CompleteSuccess()
	logger.LogToolInvocation(ti)

	entry := decodeLogLine(t, &buf)
	if entry["msg"] != "tool_executed" {
		t.Errorf("msg = %v, want tool_executed", entry["msg"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
	if entry["invocation_id"] != ti.InvocationID {
		t.Errorf("invocation_id = %v, want %v", entry["invocation_id"], ti.InvocationID)
	}
	if entry["operation"] != OperationList || entry["method"] != "GET" {
		t.Errorf("unexpected operation/method: %v/%v", entry["operation"], entry["method"])
	}
	if entry["authenticated"] != true {
		t.Errorf("authenticated = %v, want true", entry["authenticated"])
	}
	if _, ok := entry["arguments"]; ok {
		t.Error("argument names must not be logged by default")
	}
	if strings.Contains(buf.String(), "secret-calendar") {
		t.Error("argument values must never be logged")
	}
}

func TestAuditLogger_LogToolInvocation_Failure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewAuditLoggerWithConfig(newJSONLogger(&buf), AuditLoggingConfig{
		Enabled:          true,
		IncludeArguments: true,
	})

	ti := NewToolInvocation(testToolInsert).WithArguments(map[string]any{"calendarId": "primary"})
	ti.CompleteWithError(errors.New("API Error: Not Found"))
	logger.LogToolInvocation(ti)

	entry := decodeLogLine(t, &buf)
	if entry["msg"] != "tool_failed" {
		t.Errorf("msg = %v, want tool_failed", entry["msg"])
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry["error"] != "API Error: Not Found" {
		t.Errorf("error = %v", entry["error"])
	}
	args, ok := entry["arguments"].([]any)
	if !ok || len(args) != 1 || args[0] != "calendarId" {
		t.Errorf("arguments = %v, want [calendarId]", entry["arguments"])
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewAuditLogger(newJSONLogger(&buf))
	logger.SetEnabled(false)

	logger.LogToolInvocation(NewToolInvocation(testToolEvents).CompleteSuccess())

	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}

	var nilLogger *AuditLogger
	nilLogger.LogToolInvocation(NewToolInvocation(testToolEvents).CompleteSuccess())
}
