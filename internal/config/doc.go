// Package config loads the calendar-mcp server configuration.
//
// Values are layered with priority: defaults, then an optional TOML file,
// then environment variables. Command-line flags are applied last by the
// cmd package. A .env file in the working directory is loaded into the
// environment first; variables already set in the environment win.
//
// Example TOML file:
//
//	[google]
//	client_id = "1234.apps.googleusercontent.com"
//	client_secret = "secret"
//
//	[server]
//	transport = "streamable-http"
//	http_addr = ":8080"
//	read_only = true
//
//	[logging]
//	format = "json"
//
//	[metrics]
//	addr = ":9090"
package config
