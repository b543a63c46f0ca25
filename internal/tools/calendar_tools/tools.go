package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calendar-mcp/internal/calendar"
	"github.com/teemow/calendar-mcp/internal/server"
	"github.com/teemow/calendar-mcp/internal/tools/common"
)

// RegisterCalendarTools registers one tool per Calendar API endpoint with the
// MCP server. In read-only mode only GET endpoints are registered.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	for _, ep := range RegisteredEndpoints(readOnly) {
		s.AddTool(NewTool(ep), common.InstrumentedToolHandler(ep, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleEndpoint(ctx, request, ep, sc)
		}))
	}
	return nil
}

// RegisteredEndpoints returns the endpoints that RegisterCalendarTools
// exposes for the given mode, in table order.
func RegisteredEndpoints(readOnly bool) []calendar.Endpoint {
	all := calendar.Endpoints()
	if !readOnly {
		return all
	}

	endpoints := make([]calendar.Endpoint, 0, len(all))
	for _, ep := range all {
		if ep.ReadOnly() {
			endpoints = append(endpoints, ep)
		}
	}
	return endpoints
}

// NewTool builds the MCP tool definition of ep. Every parameter is a string;
// required parameters are marked as such.
func NewTool(ep calendar.Endpoint) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(ep.Description),
		mcp.WithReadOnlyHintAnnotation(ep.ReadOnly()),
		mcp.WithDestructiveHintAnnotation(ep.Destructive()),
		mcp.WithOpenWorldHintAnnotation(true),
	}

	for _, p := range ep.Params {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		opts = append(opts, mcp.WithString(p.Name, propOpts...))
	}

	return mcp.NewTool(ep.Name, opts...)
}

func handleEndpoint(ctx context.Context, request mcp.CallToolRequest, ep calendar.Endpoint, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if err := common.ValidateArguments(ep, args); err != nil {
		return common.HandleError(err), nil
	}

	req, err := calendar.BuildRequest(ep, args)
	if err != nil {
		return common.HandleError(err), nil
	}

	// An absent token sends no Authorization header; the API rejects the call.
	token, _ := server.BearerTokenFromContext(ctx)

	resp, err := sc.CalendarClient().Do(ctx, req, token)
	if err != nil {
		return common.HandleError(err), nil
	}

	return common.HandleResult(resp.Body), nil
}
