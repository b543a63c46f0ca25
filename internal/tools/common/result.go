package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/calendar-mcp/internal/calendar"
	"github.com/teemow/calendar-mcp/internal/logging"
)

// HandleResult renders an upstream response body as a text result holding
// the body re-indented with two spaces. A body that is empty or not JSON is
// rendered as a JSON string, so an empty 204 body becomes "".
func HandleResult(body []byte) *mcp.CallToolResult {
	return mcp.NewToolResultText(formatBody(body))
}

// HandleError logs err and renders it as an error result.
//
// Upstream failures, including timeouts and connection errors, render as
// "API Error: <message>". Anything else renders as "Error: <err>".
func HandleError(err error) *mcp.CallToolResult {
	slog.Error("calendar tool failed", logging.Err(err))
	return mcp.NewToolResultError(FormatError(err))
}

// FormatError returns the user facing text for err.
func FormatError(err error) string {
	var apiErr *calendar.APIError
	if errors.As(err, &apiErr) {
		return "API Error: " + apiErr.Message
	}

	var transportErr *calendar.TransportError
	if errors.As(err, &transportErr) {
		return "API Error: " + transportErr.Error()
	}

	return "Error: " + err.Error()
}

func formatBody(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		var out bytes.Buffer
		if err := json.Indent(&out, trimmed, "", "  "); err == nil {
			return out.String()
		}
	}

	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(string(body)); err != nil {
		return string(body)
	}
	return string(bytes.TrimSuffix(out.Bytes(), []byte("\n")))
}
