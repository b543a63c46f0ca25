package server

import (
	"context"
	"testing"

	"golang.org/x/oauth2"

	"github.com/teemow/calendar-mcp/internal/calendar"
	"github.com/teemow/calendar-mcp/internal/instrumentation"
)

func TestNewServerContext(t *testing.T) {
	client := calendar.NewClient(calendar.WithBaseURL("http://calendar.test/v3"))
	oauthConfig := &oauth2.Config{ClientID: "id", ClientSecret: "secret"}

	sc := NewServerContext(context.Background(), client, oauthConfig)

	if sc.CalendarClient() != client {
		t.Error("CalendarClient() did not return the configured client")
	}
	if sc.OAuthConfig() != oauthConfig {
		t.Error("OAuthConfig() did not return the configured credentials")
	}
	if sc.Context() == nil {
		t.Error("Context() returned nil")
	}
	if sc.IsShutdown() {
		t.Error("new server context reports shutdown")
	}
}

func TestNewServerContext_DefaultClient(t *testing.T) {
	sc := NewServerContext(context.Background(), nil, nil)

	if sc.CalendarClient() == nil {
		t.Fatal("CalendarClient() returned nil")
	}
	if got := sc.CalendarClient().BaseURL(); got != calendar.DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", got, calendar.DefaultBaseURL)
	}
}

func TestServerContext_Instrumentation(t *testing.T) {
	sc := NewServerContext(context.Background(), nil, nil)

	if sc.Metrics() != nil {
		t.Error("Metrics() should be nil before SetMetrics")
	}
	if sc.AuditLogger() != nil {
		t.Error("AuditLogger() should be nil before SetAuditLogger")
	}

	provider := createTestProvider(t)
	sc.SetMetrics(provider.Metrics())
	auditLogger := instrumentation.NewAuditLogger(nil)
	sc.SetAuditLogger(auditLogger)

	if sc.Metrics() != provider.Metrics() {
		t.Error("Metrics() did not return the configured metrics")
	}
	if sc.AuditLogger() != auditLogger {
		t.Error("AuditLogger() did not return the configured audit logger")
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := NewServerContext(context.Background(), nil, nil)

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() returned error: %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("IsShutdown() = false after Shutdown")
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("context not cancelled after Shutdown")
	}

	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() returned error: %v", err)
	}
}
