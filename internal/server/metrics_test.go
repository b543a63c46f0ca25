package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/teemow/calendar-mcp/internal/instrumentation"
)

func TestNewMetricsServer(t *testing.T) {
	tests := []struct {
		name        string
		config      MetricsServerConfig
		expectError bool
		errContains string
	}{
		{
			name: "valid config",
			config: MetricsServerConfig{
				Addr:                    ":9090",
				InstrumentationProvider: createTestProvider(t),
			},
		},
		{
			name: "default addr",
			config: MetricsServerConfig{
				InstrumentationProvider: createTestProvider(t),
			},
		},
		{
			name: "nil provider",
			config: MetricsServerConfig{
				Addr: ":9090",
			},
			expectError: true,
			errContains: "instrumentation provider is required",
		},
		{
			name: "disabled provider",
			config: MetricsServerConfig{
				Addr:                    ":9090",
				InstrumentationProvider: createDisabledProvider(t),
			},
			expectError: true,
			errContains: "instrumentation provider is not enabled",
		},
		{
			name: "stdout exporter has no prometheus handler",
			config: MetricsServerConfig{
				Addr:                    ":9090",
				InstrumentationProvider: createStdoutProvider(t),
			},
			expectError: true,
			errContains: "requires the prometheus metrics exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewMetricsServer(tt.config)

			if tt.expectError {
				if err == nil {
					t.Fatal("NewMetricsServer() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewMetricsServer() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewMetricsServer() unexpected error: %v", err)
			}
			if server == nil {
				t.Fatal("NewMetricsServer() returned nil server")
			}
		})
	}
}

func TestMetricsServer_DefaultAddr(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		InstrumentationProvider: createTestProvider(t),
	})
	if err != nil {
		t.Fatalf("NewMetricsServer() unexpected error: %v", err)
	}
	if server.Addr() != DefaultMetricsAddr {
		t.Errorf("Addr() = %q, want %q", server.Addr(), DefaultMetricsAddr)
	}
}

func TestMetricsServer_StartAndShutdown(t *testing.T) {
	provider := createTestProvider(t)
	provider.Metrics().RecordUpstreamRequest(context.Background(), http.MethodGet, http.StatusOK)

	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    "127.0.0.1:0",
		InstrumentationProvider: provider,
	})
	if err != nil {
		t.Fatalf("NewMetricsServer() unexpected error: %v", err)
	}

	ready := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartWithReadySignal(ready)
	}()

	select {
	case <-ready:
	case err := <-errCh:
		t.Fatalf("metrics server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not become ready")
	}

	base := "http://" + server.Addr()

	body := httpGet(t, base+"/metrics")
	if !strings.Contains(body, "upstream_requests") {
		t.Errorf("metrics output missing upstream_requests:\n%s", body)
	}

	if got := httpGet(t, base+"/healthz"); got != "ok" {
		t.Errorf("/healthz body = %q, want %q", got, "ok")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() unexpected error: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("StartWithReadySignal() returned %v, want http.ErrServerClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}

func TestMetricsServer_CustomPath(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    "127.0.0.1:0",
		Path:                    "/custom-metrics",
		InstrumentationProvider: createTestProvider(t),
	})
	if err != nil {
		t.Fatalf("NewMetricsServer() unexpected error: %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, "/custom-metrics", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /custom-metrics status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestMetricsServer_ShutdownWithoutStart(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		InstrumentationProvider: createTestProvider(t),
	})
	if err != nil {
		t.Fatalf("NewMetricsServer() unexpected error: %v", err)
	}

	if err := server.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() without start returned error: %v", err)
	}
}

func createTestProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	return createProvider(t, instrumentation.Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: instrumentation.ExporterPrometheus,
		TracingExporter: instrumentation.ExporterNone,
	})
}

func createDisabledProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	return createProvider(t, instrumentation.Config{Enabled: false})
}

func createStdoutProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	return createProvider(t, instrumentation.Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: instrumentation.ExporterStdout,
		TracingExporter: instrumentation.ExporterNone,
	})
}

func createProvider(t *testing.T, config instrumentation.Config) *instrumentation.Provider {
	t.Helper()

	provider, err := instrumentation.NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}

func httpGet(t *testing.T, url string) string {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, http.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading %s: %v", url, err)
	}
	return string(body)
}
