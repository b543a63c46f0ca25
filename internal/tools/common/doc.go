// Package common provides shared utilities for MCP tool implementations.
//
// It validates tool arguments against an endpoint's parameter schema, renders
// upstream responses and errors as MCP tool results, and wraps handlers with
// metrics, tracing and audit logging.
package common
