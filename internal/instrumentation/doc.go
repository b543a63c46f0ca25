// Package instrumentation provides OpenTelemetry instrumentation for the
// calendar-mcp server.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of inbound HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of inbound HTTP request durations
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Calendar API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Calendar API operation durations
//   - upstream_requests_total: Counter of outgoing Calendar API requests by method and status code
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and Calendar API
// calls (google.calendar.<operation>). The upstream HTTP client adds its own
// otelhttp client spans below those.
//
// # Audit logging
//
// AuditLogger writes one line per tool invocation carrying a random
// invocation id. Bearer tokens and argument values are never logged.
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: calendar-mcp)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_ARGUMENTS
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordToolInvocation(ctx, "list-events", "success", time.Since(start))
package instrumentation
