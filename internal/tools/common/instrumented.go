package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calendar-mcp/internal/calendar"
	"github.com/teemow/calendar-mcp/internal/instrumentation"
	"github.com/teemow/calendar-mcp/internal/server"
)

// InstrumentedToolHandler wraps the handler of the tool for ep with a
// server span, tool metrics and an audit log entry.
//
// It records mcp_tool_invocations_total and mcp_tool_duration_seconds. The
// Google API operation metrics are recorded by the calendar client, which
// only runs once arguments are valid.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler(ep, sc, handler))
func InstrumentedToolHandler(ep calendar.Endpoint, sc *server.ServerContext, handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		invocation := instrumentation.NewToolInvocation(ep.Name)

		attrs := instrumentation.NewSpanAttributeBuilder().
			WithInvocationID(invocation.InvocationID).
			WithService(calendar.ServiceName).
			WithOperation(ep.Operation).
			WithHTTPMethod(ep.Method).
			WithReadOnly(ep.ReadOnly()).
			Build()
		ctx, span := instrumentation.StartToolSpan(ctx, ep.Name, attrs...)
		defer span.End()

		_, authenticated := server.BearerTokenFromContext(ctx)
		invocation.
			WithService(calendar.ServiceName, ep.Operation, ep.Method).
			WithAuthenticated(authenticated).
			WithArguments(request.GetArguments()).
			WithSpanContext(ctx)

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		switch {
		case err != nil:
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			resultErr := errors.New(resultText(result))
			invocation.CompleteWithError(resultErr)
			instrumentation.SetSpanError(span, resultErr)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		sc.Metrics().RecordToolInvocation(ctx, ep.Name, invocation.Status(), duration)
		sc.AuditLogger().LogToolInvocation(invocation)

		return result, err
	}
}

// resultText returns the text of the first text content block of result.
func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			return tc.Text
		}
	}
	return ""
}
