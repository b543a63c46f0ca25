// Package logging provides structured logging utilities for the calendar-mcp server.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Process-wide slog setup writing to stderr (stdout belongs to the stdio transport)
//   - Consistent attribute naming across the codebase
//   - Token sanitization for the bearer passthrough
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "get-event")
//	logger.Info("calling upstream",
//	    logging.Method("GET"),
//	    logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
// Bearer tokens are never logged directly; use Token or SanitizeToken.
package logging
