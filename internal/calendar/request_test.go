package calendar

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLookup(t *testing.T, name string) Endpoint {
	t.Helper()
	ep, ok := Lookup(name)
	require.True(t, ok, "endpoint %s not found", name)
	return ep
}

func TestBuildRequest_QueryPlacement(t *testing.T) {
	req, err := BuildRequest(mustLookup(t, "list-events"), map[string]any{
		"calendarId":   "primary",
		"maxResults":   "5",
		"singleEvents": "true",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method())
	assert.Equal(t, "/calendars/primary/events", req.Path)
	assert.Equal(t, "5", req.Query.Get("maxResults"))
	assert.Equal(t, "true", req.Query.Get("singleEvents"))
	assert.False(t, req.Query.Has("calendarId"), "path parameters must not be repeated in the query")
	assert.Nil(t, req.Body)

	body, err := req.EncodedBody()
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestBuildRequest_BodyPlacement(t *testing.T) {
	req, err := BuildRequest(mustLookup(t, "quick-add-event"), map[string]any{
		"calendarId": "primary",
		"text":       "Lunch tomorrow at noon",
	})
	require.NoError(t, err)

	assert.Equal(t, "/calendars/primary/events/quickAdd", req.Path)
	assert.Empty(t, req.Query)
	assert.Equal(t, map[string]string{"text": "Lunch tomorrow at noon"}, req.Body)

	body, err := req.EncodedBody()
	require.NoError(t, err)
	data, _ := io.ReadAll(body)
	assert.JSONEq(t, `{"text":"Lunch tomorrow at noon"}`, string(data))
}

func TestBuildRequest_EmptyBodyIsObject(t *testing.T) {
	req, err := BuildRequest(mustLookup(t, "query-freebusy"), nil)
	require.NoError(t, err)

	body, err := req.EncodedBody()
	require.NoError(t, err)
	require.NotNil(t, body)
	data, _ := io.ReadAll(body)
	assert.Equal(t, "{}", string(data))
}

func TestBuildRequest_DeleteUsesQuery(t *testing.T) {
	req, err := BuildRequest(mustLookup(t, "delete-event"), map[string]any{
		"calendarId":  "primary",
		"eventId":     "evt1",
		"sendUpdates": "all",
	})
	require.NoError(t, err)

	assert.Equal(t, "/calendars/primary/events/evt1", req.Path)
	assert.Equal(t, "all", req.Query.Get("sendUpdates"))
	assert.Nil(t, req.Body)
}

func TestBuildRequest_EscapesPathSegments(t *testing.T) {
	req, err := BuildRequest(mustLookup(t, "get-calendar"), map[string]any{
		"calendarId": "team#holiday@group.v.calendar.google.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "/calendars/team%23holiday@group.v.calendar.google.com", req.Path)

	req, err = BuildRequest(mustLookup(t, "get-acl"), map[string]any{
		"calendarId": "a/b c",
		"ruleId":     "user:jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "/calendars/a%2Fb%20c/acl/user:jane@example.com", req.Path)
}

func TestBuildRequest_DropsUndeclaredArguments(t *testing.T) {
	req, err := BuildRequest(mustLookup(t, "get-event"), map[string]any{
		"calendarId": "primary",
		"eventId":    "evt1",
		"timeZone":   "Europe/Berlin",
		"injected":   "value",
	})
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", req.Query.Get("timeZone"))
	assert.False(t, req.Query.Has("injected"))

	req, err = BuildRequest(mustLookup(t, "insert-calendar"), map[string]any{"summary": "Team"})
	require.NoError(t, err)
	assert.Empty(t, req.Body)
}

func TestBuildRequest_MissingPathParameter(t *testing.T) {
	_, err := BuildRequest(mustLookup(t, "get-event"), map[string]any{"calendarId": "primary"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eventId")

	_, err = BuildRequest(mustLookup(t, "get-event"), map[string]any{"calendarId": "primary", "eventId": ""})
	require.Error(t, err)
}

func TestBuildRequest_NonStringValuesAreStringified(t *testing.T) {
	req, err := BuildRequest(mustLookup(t, "list-settings"), map[string]any{"maxResults": 10})
	require.NoError(t, err)
	assert.Equal(t, "10", req.Query.Get("maxResults"))
}
