// Package calendar_tools exposes the Google Calendar v3 REST operations as
// MCP tools.
//
// Every endpoint of calendar.Endpoints becomes one tool whose input schema is
// the endpoint's parameter list. A call validates its arguments, sends exactly
// one request to the Calendar API with the caller's bearer token, and returns
// the response body as pretty-printed JSON or an error result.
//
// Tools of endpoints that modify data are only registered when the server is
// not running in read-only mode.
package calendar_tools
