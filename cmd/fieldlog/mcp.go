package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	pkgdb "github.com/unowned-ai/fieldlog/pkg/db"
	"github.com/unowned-ai/fieldlog/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the fieldlog MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that lets an agent record and review
diary entries and read the current weather via STDIO.

Entries recorded without an explicit user_id belong to the --user value.

Example:
  fieldlog mcp
  fieldlog mcp --db fieldlog.db --user maria`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		log.SetOutput(os.Stderr)

		dsn, err := resolveDSN()
		if err != nil {
			return err
		}

		srv, err := mcp.NewFieldlogMCPServer(dsn, walMode, syncMode)
		if err != nil {
			return err
		}
		defer srv.Close()

		reader, err := newWeatherReader()
		if err != nil {
			return err
		}

		mcp.RegisterTools(srv.MCPRawServer(), mcp.Deps{
			DB:       srv.DB(),
			Reader:   reader,
			UserID:   userID,
			Location: cfg.Location.Name,
		})

		fmt.Fprintf(os.Stderr, "fieldlog MCP server started. DB: %s (WAL: %t, Sync: %s)\n", pkgdb.RedactDSN(srv.DSN), walMode, syncMode)
		fmt.Fprintf(os.Stderr, "Available tools: %s\n", strings.Join(mcp.ToolNames, ", "))
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		return srv.Start()
	},
}
