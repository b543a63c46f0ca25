package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calendar-mcp/internal/instrumentation"
)

const (
	// DefaultHTTPAddr is the default listen address of the streamable HTTP transport.
	DefaultHTTPAddr = ":8080"

	// DefaultEndpointPath is the path the MCP endpoint is served on.
	DefaultEndpointPath = "/mcp"

	// DefaultHTTPWriteTimeout leaves room for the 30s upstream call timeout.
	DefaultHTTPWriteTimeout = 60 * time.Second
)

// HTTPServerConfig configures the streamable HTTP transport.
type HTTPServerConfig struct {
	Addr             string
	EndpointPath     string
	DisableStreaming bool
	Stateless        bool

	// Metrics records inbound HTTP requests when set.
	Metrics *instrumentation.Metrics

	// Health serves /healthz, /readyz and /healthz/detailed when set.
	Health *HealthChecker
}

// HTTPServer serves the MCP streamable HTTP transport together with health endpoints.
type HTTPServer struct {
	config     HTTPServerConfig
	streamable *mcpserver.StreamableHTTPServer
	handler    http.Handler
	httpServer *http.Server
	addr       string
}

// NewHTTPServer wires the MCP server behind the streamable HTTP transport.
// The inbound Authorization header is attached to each request context so
// tool handlers can forward it to the Calendar API.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, config HTTPServerConfig) *HTTPServer {
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}
	if config.EndpointPath == "" {
		config.EndpointPath = DefaultEndpointPath
	}

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(config.EndpointPath),
		mcpserver.WithDisableStreaming(config.DisableStreaming),
		mcpserver.WithStateLess(config.Stateless),
	)

	mux := http.NewServeMux()
	mux.Handle(config.EndpointPath, WithBearerToken(streamable))
	if config.Health != nil {
		config.Health.RegisterHealthEndpoints(mux)
	}

	var handler http.Handler = mux
	if config.Metrics != nil {
		handler = HTTPMetricsMiddleware(config.Metrics, mux)
	}

	return &HTTPServer{
		config:     config,
		streamable: streamable,
		handler:    handler,
		addr:       config.Addr,
	}
}

// Handler returns the root HTTP handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address. After start it is the bound address.
func (s *HTTPServer) Addr() string {
	return s.addr
}

// StartWithReadySignal binds the listener, closes ready once connections are
// accepted and serves until Shutdown. It returns http.ErrServerClosed after a
// graceful shutdown.
func (s *HTTPServer) StartWithReadySignal(ready chan<- struct{}) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.addr = listener.Addr().String()

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      DefaultHTTPWriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("starting MCP HTTP server", "addr", s.addr, "endpoint", s.config.EndpointPath)
	if ready != nil {
		close(ready)
	}

	err = s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return http.ErrServerClosed
	}
	return err
}

// Shutdown gracefully stops the transport and the HTTP listener.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.streamable.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown streamable transport: %w", err))
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}
	return errors.Join(errs...)
}

// HTTPMetricsMiddleware records http_requests_total and
// http_request_duration_seconds for every request.
func HTTPMetricsMiddleware(metrics *instrumentation.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

// Flush keeps server-sent event streaming working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
