package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the calendar-mcp application
var rootCmd = &cobra.Command{
	Use:   "calendar-mcp",
	Short: "MCP server exposing the Google Calendar API as tools",
	Long: `calendar-mcp is a Model Context Protocol (MCP) server that exposes the
Google Calendar v3 REST API to AI assistants.

Each tool maps to exactly one Calendar API request. The caller's OAuth bearer
token is forwarded upstream unchanged; the server never runs an OAuth flow.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calendar-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the MCP server
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
