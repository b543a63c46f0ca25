package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calendar-mcp/internal/calendar"
)

// EndpointsURI is the URI of the endpoint catalog resource.
const EndpointsURI = "calendar://endpoints"

// EndpointInfo describes one registered tool and the request it sends.
type EndpointInfo struct {
	Tool      string      `json:"tool"`
	Method    string      `json:"method"`
	Path      string      `json:"path"`
	Placement string      `json:"placement"`
	ReadOnly  bool        `json:"readOnly"`
	Params    []ParamInfo `json:"params,omitempty"`
}

// ParamInfo describes one tool parameter.
type ParamInfo struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	In       string `json:"in"`
}

// RegisterEndpointResources registers the endpoint catalog for the given
// endpoints, normally the ones registered as tools.
func RegisterEndpointResources(s *mcpserver.MCPServer, endpoints []calendar.Endpoint) error {
	catalog, err := json.MarshalIndent(Catalog(endpoints), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode endpoint catalog: %w", err)
	}

	resource := mcp.NewResource(
		EndpointsURI,
		"Calendar API Endpoints",
		mcp.WithResourceDescription("Google Calendar API operations exposed as tools, with their HTTP method, path and parameters"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(catalog),
			},
		}, nil
	})

	return nil
}

// Catalog describes endpoints in table order. Path parameters are reported
// as "path", the others by the endpoint's placement.
func Catalog(endpoints []calendar.Endpoint) []EndpointInfo {
	infos := make([]EndpointInfo, 0, len(endpoints))
	for _, ep := range endpoints {
		pathParams := make(map[string]bool)
		for _, name := range ep.PathParams() {
			pathParams[name] = true
		}

		info := EndpointInfo{
			Tool:      ep.Name,
			Method:    ep.Method,
			Path:      ep.Path,
			Placement: ep.Placement().String(),
			ReadOnly:  ep.ReadOnly(),
		}
		for _, p := range ep.Params {
			in := ep.Placement().String()
			if pathParams[p.Name] {
				in = "path"
			}
			info.Params = append(info.Params, ParamInfo{Name: p.Name, Required: p.Required, In: in})
		}
		infos = append(infos, info)
	}
	return infos
}
