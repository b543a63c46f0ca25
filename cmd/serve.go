package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/calendar-mcp/internal/calendar"
	"github.com/teemow/calendar-mcp/internal/config"
	"github.com/teemow/calendar-mcp/internal/instrumentation"
	"github.com/teemow/calendar-mcp/internal/logging"
	"github.com/teemow/calendar-mcp/internal/resources"
	"github.com/teemow/calendar-mcp/internal/server"
	"github.com/teemow/calendar-mcp/internal/tools/calendar_tools"
)

// serveFlags holds the raw values of the serve command's flags. A flag only
// overrides the loaded configuration when it was set on the command line.
type serveFlags struct {
	configFile         string
	debugMode          bool
	logFormat          string
	transport          string
	httpAddr           string
	readOnly           bool
	disableStreaming   bool
	stateless          bool
	googleClientID     string
	googleClientSecret string
	metricsEnabled     bool
	metricsAddr        string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Google Calendar tools.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp

Authentication:
  Every tool call forwards the caller's OAuth access token to the Calendar API.
  Over streamable HTTP the token is taken from the inbound Authorization header.
  Over stdio no token is available and calls are sent without one.

Configuration (flag > environment > TOML file > default):
  GOOGLE_CALENDAR_CLIENT_ID and GOOGLE_CALENDAR_CLIENT_SECRET are required.
  A .env file in the working directory is loaded first.

Safety Mode:
  Use --read-only to register only tools that read data (GET requests).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}

			cfg, err := config.Load(flags.configFile)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, cfg, flags)

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&flags.configFile, "config", "", "Path to a TOML configuration file")
	cmd.Flags().BoolVar(&flags.debugMode, "debug", false, "Enable debug logging. Can also use MCP_DEBUG env var.")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "text", "Log format: text or json. Can also use MCP_LOG_FORMAT env var.")
	cmd.Flags().StringVar(&flags.transport, "transport", config.TransportStdio, "Transport type: stdio or streamable-http. Can also use MCP_TRANSPORT env var.")
	cmd.Flags().StringVar(&flags.httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address (for streamable-http transport). Can also use MCP_HTTP_ADDR env var.")
	cmd.Flags().BoolVar(&flags.readOnly, "read-only", false, "Register only read-only tools. Can also use MCP_READ_ONLY env var.")
	cmd.Flags().BoolVar(&flags.disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().BoolVar(&flags.stateless, "stateless", false, "Run the HTTP transport without sessions")
	cmd.Flags().StringVar(&flags.googleClientID, "google-client-id", "", "Google OAuth Client ID. Can also use GOOGLE_CALENDAR_CLIENT_ID env var.")
	cmd.Flags().StringVar(&flags.googleClientSecret, "google-client-secret", "", "Google OAuth Client Secret. Can also use GOOGLE_CALENDAR_CLIENT_SECRET env var.")
	cmd.Flags().BoolVar(&flags.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// applyFlagOverrides copies every flag set on the command line into cfg.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, flags serveFlags) {
	changed := cmd.Flags().Changed

	if changed("debug") {
		cfg.Logging.Debug = flags.debugMode
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.logFormat
	}
	if changed("transport") {
		cfg.Server.Transport = flags.transport
	}
	if changed("http-addr") {
		cfg.Server.HTTPAddr = flags.httpAddr
	}
	if changed("read-only") {
		cfg.Server.ReadOnly = flags.readOnly
	}
	if changed("disable-streaming") {
		cfg.Server.DisableStreaming = flags.disableStreaming
	}
	if changed("stateless") {
		cfg.Server.Stateless = flags.stateless
	}
	if changed("google-client-id") {
		cfg.Google.ClientID = flags.googleClientID
	}
	if changed("google-client-secret") {
		cfg.Google.ClientSecret = flags.googleClientSecret
	}
	if changed("metrics-enabled") {
		cfg.Metrics.Enabled = flags.metricsEnabled
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = flags.metricsAddr
	}
}

func runServe(cfg *config.Config) error {
	// Create a context that will be cancelled on shutdown signal
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Logs go to stderr; stdout carries MCP messages in stdio mode
	logger, err := logging.Setup(os.Stderr, cfg.Logging.Debug, cfg.Logging.Format)
	if err != nil {
		return err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation configuration: %w", err)
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	clientOpts := []calendar.Option{
		calendar.WithLogger(logging.NewSlogAdapter(logger)),
	}
	if cfg.Google.BaseURL != "" {
		clientOpts = append(clientOpts, calendar.WithBaseURL(cfg.Google.BaseURL))
	}
	if provider.Enabled() {
		clientOpts = append(clientOpts, calendar.WithMetrics(provider.Metrics()))
	}

	serverContext := server.NewServerContext(shutdownCtx, calendar.NewClient(clientOpts...), cfg.OAuth2Config())
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("calendar-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
		mcpserver.WithLogging(),
	)

	readOnly := cfg.Server.ReadOnly
	endpoints := calendar_tools.RegisteredEndpoints(readOnly)
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, serverContext, readOnly); err != nil {
		return fmt.Errorf("failed to register Calendar tools: %w", err)
	}
	if err := resources.RegisterEndpointResources(mcpSrv, endpoints); err != nil {
		return fmt.Errorf("failed to register resources: %w", err)
	}

	logger.Info("registered calendar tools",
		slog.Int("tools", len(endpoints)),
		slog.Bool("read_only", readOnly),
		slog.String("transport", cfg.Server.Transport),
	)

	switch cfg.Server.Transport {
	case config.TransportStdio:
		return runStdioServer(mcpSrv)
	case config.TransportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg, provider, len(endpoints))
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)",
			cfg.Server.Transport, config.TransportStdio, config.TransportStreamableHTTP)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, cfg *config.Config, provider *instrumentation.Provider, toolCount int) error {
	metricsServer, err := startMetricsServer(cfg.Metrics, provider)
	if err != nil {
		return err
	}
	defer func() {
		if metricsServer == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("error during metrics server shutdown", logging.Err(err))
		}
	}()

	healthChecker := server.NewHealthChecker(sc, server.HealthInfo{
		Version:  version,
		Tools:    toolCount,
		ReadOnly: cfg.Server.ReadOnly,
	})

	httpConfig := server.HTTPServerConfig{
		Addr:             cfg.Server.HTTPAddr,
		DisableStreaming: cfg.Server.DisableStreaming,
		Stateless:        cfg.Server.Stateless,
		Health:           healthChecker,
	}
	if provider.Enabled() {
		httpConfig.Metrics = provider.Metrics()
	}
	httpServer := server.NewHTTPServer(mcpSrv, httpConfig)

	ready := make(chan struct{})
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.StartWithReadySignal(ready); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ready:
		slog.Info("streamable HTTP server started",
			slog.String("addr", httpServer.Addr()),
			slog.String("endpoint", server.DefaultEndpointPath),
			slog.String("health", "/healthz, /readyz, /healthz/detailed"),
		)
	case err := <-serverDone:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	}

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	slog.Info("HTTP server gracefully stopped")
	return nil
}

// startMetricsServer starts the Prometheus metrics server when enabled and
// returns once it accepts connections. It returns nil when metrics are off.
func startMetricsServer(metricsConfig config.MetricsConfig, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	if !metricsConfig.Enabled || !provider.Enabled() || provider.PrometheusHandler() == nil {
		return nil, nil
	}

	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    metricsConfig.Addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		slog.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}
