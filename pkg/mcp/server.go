package mcp

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	fieldlog "github.com/unowned-ai/fieldlog/pkg"
	pkgdb "github.com/unowned-ai/fieldlog/pkg/db"
)

type FieldlogMCPServer struct {
	mcpServer *server.MCPServer
	db        *sql.DB
	DSN       string
}

// NewFieldlogMCPServer spins up an MCP server backed by the database at dsn,
// creating or upgrading its schema first. dsn must already be resolved.
func NewFieldlogMCPServer(dsn string, walMode bool, syncMode string) (*FieldlogMCPServer, error) {
	s := server.NewMCPServer(
		"fieldlog MCP Server",
		fieldlog.Version,
		server.WithLogging(),
		server.WithRecovery(),
	)

	dbConn, err := pkgdb.Open(dsn, walMode, syncMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := pkgdb.UpgradeDB(dbConn, dsn, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", pkgdb.RedactDSN(dsn), err)
	}

	return &FieldlogMCPServer{
		mcpServer: s,
		db:        dbConn,
		DSN:       dsn,
	}, nil
}

// Start runs the stdio event loop. Make sure to register tools beforehand.
func (s *FieldlogMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *FieldlogMCPServer) DB() *sql.DB {
	return s.db
}

// MCPRawServer exposes the raw mcp-go server for tool registration.
func (s *FieldlogMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close checkpoints the SQLite WAL and closes the database.
func (s *FieldlogMCPServer) Close() error {
	if s.db == nil {
		return nil
	}
	if pkgdb.DialectOf(s.db) == pkgdb.SQLite {
		// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
		if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: WAL checkpoint failed during close: %v\n", err)
		}
	}
	return s.db.Close()
}
