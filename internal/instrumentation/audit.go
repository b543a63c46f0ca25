package instrumentation

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation captures one MCP tool call for audit logging.
//
// Bearer tokens and argument values are never part of an invocation record.
// Argument names are only logged when the audit logger is configured to.
type ToolInvocation struct {
	// InvocationID is a random UUID that correlates logs and spans of one call.
	InvocationID string

	Tool string

	// Target information
	ServiceName string
	Operation   string
	Method      string

	// Authenticated reports whether a bearer token was forwarded upstream.
	Authenticated bool

	// ArgumentNames are the argument keys the tool was called with, sorted.
	ArgumentNames []string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewToolInvocation creates a new ToolInvocation with a fresh id and timing started.
// Call Complete() when the tool operation finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		InvocationID: uuid.NewString(),
		Tool:         tool,
		StartTime:    time.Now(),
	}
}

// Status returns "success" or "error" based on the Success field.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// WithService sets the Google service, operation and HTTP method.
func (ti *ToolInvocation) WithService(serviceName, operation, method string) *ToolInvocation {
	ti.ServiceName = serviceName
	ti.Operation = operation
	ti.Method = method
	return ti
}

// WithAuthenticated records whether the call carried a bearer token.
func (ti *ToolInvocation) WithAuthenticated(authenticated bool) *ToolInvocation {
	ti.Authenticated = authenticated
	return ti
}

// WithArguments records the argument names of args. Values are discarded.
func (ti *ToolInvocation) WithArguments(args map[string]any) *ToolInvocation {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	ti.ArgumentNames = names
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete marks the invocation as completed and calculates duration.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// LogAttrs returns slog attributes for structured logging.
func (ti *ToolInvocation) LogAttrs(includeArguments bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.InvocationID),
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
		slog.Bool("authenticated", ti.Authenticated),
	}

	if ti.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ti.ServiceName))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.Method != "" {
		attrs = append(attrs, slog.String("method", ti.Method))
	}
	if includeArguments && len(ti.ArgumentNames) > 0 {
		attrs = append(attrs, slog.Any("arguments", ti.ArgumentNames))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// AuditLogger provides structured audit logging for tool invocations.
type AuditLogger struct {
	logger           *slog.Logger
	includeArguments bool
	enabled          bool
}

// NewAuditLogger creates an enabled AuditLogger that omits argument names.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:           logger,
		includeArguments: config.IncludeArguments,
		enabled:          config.Enabled,
	}
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogToolInvocation writes one audit line for ti: "tool_executed" at info
// level on success and "tool_failed" at warn level otherwise.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if al == nil || !al.enabled {
		return
	}

	attrs := ti.LogAttrs(al.includeArguments)
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ti.Success {
		al.logger.Info("tool_executed", args...)
	} else {
		al.logger.Warn("tool_failed", args...)
	}
}
