package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlogAdapter_WithNil(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	require.NotNil(t, adapter)
	assert.NotNil(t, adapter.logger, "adapter.logger should not be nil when created with nil")
}

func TestNewSlogAdapter_WithLogger(t *testing.T) {
	logger := slog.Default()
	adapter := NewSlogAdapter(logger)
	assert.Same(t, logger, adapter.Logger())
}

func TestSlogAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewSlogAdapter(logger)

	adapter.Debug("debug message", "key", "value")
	adapter.Info("info message")
	adapter.Warn("warn message")
	adapter.Error("error message")

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "level=INFO", "level=WARN", "level=ERROR", "key=value"} {
		assert.Contains(t, out, want)
	}
}

func TestSlogAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

	adapter.With("component", "calendar").Info("hello")

	assert.Contains(t, buf.String(), "component=calendar")
}

func TestDefaultLogger(t *testing.T) {
	adapter := DefaultLogger()
	require.NotNil(t, adapter)
	assert.NotNil(t, adapter.logger)
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = (*SlogAdapter)(nil)
}
