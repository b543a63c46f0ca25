package server

import (
	"context"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/calendar-mcp/internal/calendar"
	"github.com/teemow/calendar-mcp/internal/instrumentation"
)

// ServerContext holds the shared, long-lived dependencies of the MCP server.
// Nothing in it is per-invocation state.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	client      *calendar.Client
	oauthConfig *oauth2.Config
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context around the Calendar API client.
//
// oauthConfig holds the configured OAuth client credentials. The request path
// never uses it: tokens are forwarded from the caller, not minted here.
func NewServerContext(ctx context.Context, client *calendar.Client, oauthConfig *oauth2.Config) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	if client == nil {
		client = calendar.NewClient()
	}
	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		client:      client,
		oauthConfig: oauthConfig,
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// CalendarClient returns the shared Calendar API client
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.client
}

// OAuthConfig returns the configured OAuth client, or nil.
func (sc *ServerContext) OAuthConfig() *oauth2.Config {
	return sc.oauthConfig
}

// SetMetrics sets the metrics recorder used by tool handlers
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil when instrumentation is off
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger used by tool handlers
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger, or nil when audit logging is off
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context. It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
