package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/calendar-mcp/internal/calendar"
	"github.com/teemow/calendar-mcp/internal/server"
	"github.com/teemow/calendar-mcp/internal/tools/calendar_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
		readOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown, err := renderToolDocs(readOnly)
			if err != nil {
				return err
			}

			if outputFile == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), markdown)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Document only the tools registered in read-only mode")

	return cmd
}

// renderToolDocs registers the tools on a throwaway server and renders them.
// No credentials are needed because no tool is called.
func renderToolDocs(readOnly bool) (string, error) {
	serverContext := server.NewServerContext(context.Background(), nil, nil)
	defer func() {
		_ = serverContext.Shutdown()
	}()

	mcpSrv := mcpserver.NewMCPServer("calendar-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, serverContext, readOnly); err != nil {
		return "", fmt.Errorf("failed to register Calendar tools: %w", err)
	}

	serverTools := mcpSrv.ListTools()
	tools := make([]mcp.Tool, 0, len(serverTools))
	for _, serverTool := range serverTools {
		tools = append(tools, serverTool.Tool)
	}

	return generateToolsMarkdown(tools), nil
}

// categoryTitles maps endpoint resources to documentation section titles.
var categoryTitles = map[string]string{
	calendar.ResourceACL:          "Access Control",
	calendar.ResourceCalendarList: "Calendar List",
	calendar.ResourceCalendars:    "Calendars",
	calendar.ResourceEvents:       "Events",
	calendar.ResourceFreeBusy:     "Free/Busy",
	calendar.ResourceColors:       "Colors",
	calendar.ResourceSettings:     "Settings",
	calendar.ResourceChannels:     "Channels",
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	var sb strings.Builder

	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running calendar-mcp as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	toolsByCategory := groupToolsByCategory(tools)

	sb.WriteString("## Table of Contents\n\n")
	categories := make([]string, 0, len(toolsByCategory))
	for category := range toolsByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", category, anchor(category)))
	}
	sb.WriteString("\n")

	sb.WriteString("## Authentication\n\n")
	sb.WriteString("Every tool forwards the caller's OAuth access token to the Google Calendar API as `Authorization: Bearer <token>`.\n")
	sb.WriteString("Over streamable HTTP the token comes from the `Authorization` header of the MCP request.\n\n")

	for _, category := range categories {
		categoryTools := toolsByCategory[category]
		sort.Slice(categoryTools, func(i, j int) bool {
			return categoryTools[i].Name < categoryTools[j].Name
		})

		sb.WriteString(fmt.Sprintf("## %s\n\n", category))

		for _, tool := range categoryTools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func anchor(category string) string {
	a := strings.ToLower(category)
	a = strings.ReplaceAll(a, "/", "")
	return strings.ReplaceAll(a, " ", "-")
}

func groupToolsByCategory(tools []mcp.Tool) map[string][]mcp.Tool {
	categories := make(map[string][]mcp.Tool)

	for _, tool := range tools {
		category := getCategoryFromToolName(tool.Name)
		categories[category] = append(categories[category], tool)
	}

	return categories
}

func getCategoryFromToolName(name string) string {
	ep, ok := calendar.Lookup(name)
	if !ok {
		return "Other"
	}
	if title, ok := categoryTitles[ep.Resource]; ok {
		return title
	}
	return "Other"
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("### %s\n\n", tool.Name))

	if tool.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", tool.Description))
	}

	if ep, ok := calendar.Lookup(tool.Name); ok {
		sb.WriteString(fmt.Sprintf("`%s %s`\n\n", ep.Method, ep.Path))
	}

	if len(tool.InputSchema.Properties) > 0 {
		sb.WriteString("**Arguments:**\n")

		// Sort properties for consistent output
		propNames := make([]string, 0, len(tool.InputSchema.Properties))
		for name := range tool.InputSchema.Properties {
			propNames = append(propNames, name)
		}
		sort.Strings(propNames)

		for _, name := range propNames {
			propMap, ok := tool.InputSchema.Properties[name].(map[string]any)
			if !ok {
				continue
			}

			requiredStr := "optional"
			if slices.Contains(tool.InputSchema.Required, name) {
				requiredStr = "required"
			}

			sb.WriteString(fmt.Sprintf("- `%s` (%s): ", name, requiredStr))
			if desc, ok := propMap["description"].(string); ok {
				sb.WriteString(desc)
			} else {
				sb.WriteString(fmt.Sprintf("%s parameter", getPropertyType(propMap)))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func getPropertyType(prop map[string]any) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}
