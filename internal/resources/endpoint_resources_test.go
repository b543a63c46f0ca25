package resources

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calendar-mcp/internal/calendar"
)

func TestCatalog(t *testing.T) {
	ep, ok := calendar.Lookup("move-event")
	require.True(t, ok)

	infos := Catalog([]calendar.Endpoint{ep})
	require.Len(t, infos, 1)

	info := infos[0]
	assert.Equal(t, "move-event", info.Tool)
	assert.Equal(t, "POST", info.Method)
	assert.Equal(t, "/calendars/{calendarId}/events/{eventId}/move", info.Path)
	assert.Equal(t, "body", info.Placement)
	assert.False(t, info.ReadOnly)

	in := make(map[string]string)
	for _, p := range info.Params {
		in[p.Name] = p.In
	}
	assert.Equal(t, "path", in["calendarId"])
	assert.Equal(t, "path", in["eventId"])
	assert.Equal(t, "body", in["destination"])
}

func TestCatalog_QueryPlacement(t *testing.T) {
	ep, ok := calendar.Lookup("list-events")
	require.True(t, ok)

	info := Catalog([]calendar.Endpoint{ep})[0]
	assert.Equal(t, "query", info.Placement)
	assert.True(t, info.ReadOnly)
	for _, p := range info.Params {
		if p.Name == "calendarId" {
			assert.Equal(t, "path", p.In)
			continue
		}
		assert.Equal(t, "query", p.In, p.Name)
	}
}

func TestRegisterEndpointResources(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithResourceCapabilities(false, false))
	require.NoError(t, RegisterEndpointResources(s, calendar.Endpoints()))

	msg := `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"` + EndpointsURI + `"}}`
	result := s.HandleMessage(context.Background(), json.RawMessage(msg))
	resp, ok := result.(mcp.JSONRPCResponse)
	require.True(t, ok, "expected JSONRPCResponse, got %T", result)

	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)

	var read struct {
		Contents []struct {
			URI      string `json:"uri"`
			MIMEType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"contents"`
	}
	require.NoError(t, json.Unmarshal(raw, &read))
	require.Len(t, read.Contents, 1)
	assert.Equal(t, EndpointsURI, read.Contents[0].URI)
	assert.Equal(t, "application/json", read.Contents[0].MIMEType)

	var catalog []EndpointInfo
	require.NoError(t, json.Unmarshal([]byte(read.Contents[0].Text), &catalog))
	assert.Len(t, catalog, len(calendar.Endpoints()))
}
