// Package server provides the MCP server context and the HTTP side of the
// calendar-mcp server.
//
// # Key Components
//
// ServerContext holds the shared Calendar API client, the configured OAuth
// client, and the optional metrics recorder and audit logger.
//
// HTTPServer serves the MCP streamable HTTP transport on /mcp. Every inbound
// request passes through WithBearerToken, which copies the Authorization
// header token into the request context. Tool handlers read it back with
// BearerTokenFromContext and forward it unchanged. The server never
// validates, refreshes or stores tokens.
//
// HealthChecker serves Kubernetes style liveness and readiness probes, and
// MetricsServer exposes Prometheus metrics on a dedicated port.
package server
