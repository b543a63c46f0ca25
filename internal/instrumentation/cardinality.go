package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.

// knownPaths are the inbound HTTP paths served by calendar-mcp.
var knownPaths = map[string]bool{
	"/mcp":              true,
	"/healthz":          true,
	"/readyz":           true,
	"/healthz/detailed": true,
	"/metrics":          true,
}

// NormalizePath maps an inbound request path to a bounded label value.
// Known endpoints are kept, a trailing slash is ignored and anything else
// becomes "other".
//
// Example:
//
//	NormalizePath("/mcp")        // "/mcp"
//	NormalizePath("/healthz/")   // "/healthz"
//	NormalizePath("/wp-login")   // "other"
func NormalizePath(path string) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if knownPaths[path] {
		return path
	}
	return "other"
}

// Calendar API operation types used for Google API metrics.
const (
	OperationList      = "list"
	OperationGet       = "get"
	OperationInsert    = "insert"
	OperationUpdate    = "update"
	OperationPatch     = "patch"
	OperationDelete    = "delete"
	OperationWatch     = "watch"
	OperationClear     = "clear"
	OperationInstances = "instances"
	OperationMove      = "move"
	OperationImport    = "import"
	OperationQuickAdd  = "quickAdd"
	OperationQuery     = "query"
	OperationStop      = "stop"
)
