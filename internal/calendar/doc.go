// Package calendar describes the Google Calendar v3 REST surface exposed by
// the server and performs the upstream calls.
//
// The package is table driven. Endpoints returns one declarative Endpoint per
// exposed operation (name, HTTP method, path template and parameter schema).
// BuildRequest turns an Endpoint plus caller arguments into a Request:
// placeholders in the path template are substituted, GET and DELETE send the
// remaining arguments as query parameters and POST, PUT and PATCH send them as
// a JSON object body. Client issues exactly one HTTP call per Request against
// the fixed base URL, forwarding the caller's bearer token unchanged.
//
// Example usage:
//
//	ep, _ := calendar.Lookup("get-event")
//	req, err := calendar.BuildRequest(ep, map[string]any{
//	    "calendarId": "primary",
//	    "eventId":    "abc123",
//	})
//	if err != nil {
//	    return err
//	}
//	resp, err := calendar.NewClient().Do(ctx, req, token)
package calendar
