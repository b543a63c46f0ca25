package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// installSpanRecorder replaces the global tracer provider for the duration of a test.
func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("get-event").
		WithInvocationID("inv-1").
		WithService(ServiceCalendar).
		WithOperation(OperationGet).
		WithHTTPMethod("GET").
		WithResource("events", "abc123").
		WithReadOnly(true).
		Build()

	if len(attrs) != 8 {
		t.Errorf("expected 8 attributes, got %d", len(attrs))
	}

	attrMap := make(map[string]any)
	for _, attr := range attrs {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}

	expected := map[string]any{
		SpanAttrTool:         "get-event",
		SpanAttrInvocationID: "inv-1",
		SpanAttrService:      ServiceCalendar,
		SpanAttrOperation:    OperationGet,
		SpanAttrHTTPMethod:   "GET",
		SpanAttrResourceType: "events",
		SpanAttrResourceID:   "abc123",
		SpanAttrReadOnly:     true,
	}
	for key, want := range expected {
		if attrMap[key] != want {
			t.Errorf("attribute %s = %v, want %v", key, attrMap[key], want)
		}
	}
}

func TestSpanAttributeBuilder_EmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("get-colors").
		WithInvocationID("").
		WithHTTPMethod("").
		WithResource("", "").
		Build()

	if len(attrs) != 1 {
		t.Errorf("expected 1 attribute (only tool), got %d", len(attrs))
	}
}

func TestStartToolSpan(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := StartToolSpan(context.Background(), "list-events")
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "tool.list-events" {
		t.Errorf("span name = %q, want %q", spans[0].Name(), "tool.list-events")
	}
	if spans[0].SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", spans[0].SpanKind())
	}
}

func TestStartGoogleAPISpan(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := StartGoogleAPISpan(context.Background(), ServiceCalendar, OperationQuickAdd)
	SetSpanSuccess(span)
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "google.calendar.quickAdd" {
		t.Errorf("span name = %q, want %q", spans[0].Name(), "google.calendar.quickAdd")
	}
	if spans[0].SpanKind() != trace.SpanKindClient {
		t.Errorf("span kind = %v, want client", spans[0].SpanKind())
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("status = %v, want ok", spans[0].Status().Code)
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := StartSpan(context.Background(), "failing")
	SetSpanError(span, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want error", spans[0].Status().Code)
	}
	if spans[0].Status().Description != "boom" {
		t.Errorf("status description = %q, want %q", spans[0].Status().Description, "boom")
	}
}

func TestSetSpanError_Nil(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := StartSpan(context.Background(), "fine")
	SetSpanError(span, nil)
	span.End()

	if got := recorder.Ended()[0].Status().Code; got != codes.Unset {
		t.Errorf("status = %v, want unset", got)
	}
}

func TestGetTraceAndSpanID(t *testing.T) {
	if GetTraceID(context.Background()) != "" {
		t.Error("expected empty trace ID without span")
	}
	if GetSpanID(context.Background()) != "" {
		t.Error("expected empty span ID without span")
	}

	installSpanRecorder(t)
	ctx, span := StartSpan(context.Background(), "with-ids")
	defer span.End()

	if len(GetTraceID(ctx)) != 32 {
		t.Errorf("expected 32 hex char trace ID, got %q", GetTraceID(ctx))
	}
	if len(GetSpanID(ctx)) != 16 {
		t.Errorf("expected 16 hex char span ID, got %q", GetSpanID(ctx))
	}
}
