package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// APIError is returned when the Calendar API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	// Message is the human readable failure reason. It is never empty.
	Message string
	Body    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar API returned status %d: %s", e.StatusCode, e.Message)
}

// TransportError is returned when no HTTP response was received, for
// example on connection failures or when the client timeout expires.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// checkResponse returns nil for 2xx responses and an *APIError otherwise.
// The response body is consumed for error responses.
//
// The message is taken from a top-level "message" field when present, then
// from Google's {"error":{"message":...}} envelope, and falls back to
// "Request failed with status code N".
func checkResponse(res *http.Response) error {
	err := googleapi.CheckResponse(res)
	if err == nil {
		return nil
	}

	apiErr := &APIError{StatusCode: res.StatusCode}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		apiErr.Body = gerr.Body
		apiErr.Message = topLevelMessage(gerr.Body)
		if apiErr.Message == "" {
			apiErr.Message = gerr.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("Request failed with status code %d", res.StatusCode)
	}
	return apiErr
}

func topLevelMessage(body string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	return payload.Message
}
