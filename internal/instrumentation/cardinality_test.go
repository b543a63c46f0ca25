package instrumentation

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/mcp", "/mcp"},
		{"/mcp/", "/mcp"},
		{"/healthz", "/healthz"},
		{"/readyz", "/readyz"},
		{"/healthz/detailed", "/healthz/detailed"},
		{"/metrics", "/metrics"},
		{"/", "other"},
		{"", "other"},
		{"/wp-login.php", "other"},
		{"/mcp/extra", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.expected {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
