// Package resources provides MCP resources describing the server itself.
// Resources are read-only data sources that MCP clients can fetch.
//
// The calendar://endpoints resource lists the Calendar API operations the
// server exposes as tools, with method, path template and parameter
// placement, so clients can see how a tool call maps to an HTTP request.
package resources
