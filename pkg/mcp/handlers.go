package mcp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/fieldlog/pkg/capture"
	"github.com/unowned-ai/fieldlog/pkg/diary"
)

// Deps are the collaborators shared by the diary tools.
type Deps struct {
	DB       *sql.DB
	Reader   capture.WeatherReader
	UserID   string // used when a call does not name a user
	Location string
}

// RegisterTools registers every fieldlog tool on s.
func RegisterTools(s *server.MCPServer, deps Deps) {
	RegisterPingTool(s)
	RegisterRecordEntryTool(s, deps)
	RegisterListEntriesTool(s, deps)
	RegisterGetEntryTool(s, deps)
	RegisterCurrentWeatherTool(s, deps)
}

// ToolNames lists the tools RegisterTools installs, in registration order.
var ToolNames = []string{"ping", "record_entry", "list_entries", "get_entry", "current_weather"}

func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the fieldlog MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_fieldlog"), nil
}

// RegisterRecordEntryTool registers record_entry, which runs one full capture:
// reads the weather, validates the input and stores the entry.
func RegisterRecordEntryTool(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool("record_entry",
		mcp.WithDescription("Records an irrigation diary entry together with the current temperature and humidity at the monitoring site."),
		mcp.WithString("action", mcp.Required(), mcp.Description("What was done, up to 200 characters.")),
		mcp.WithString("note", mcp.Description("Optional free-text note, up to 1000 characters.")),
		mcp.WithString("user_id", mcp.Description("Owner of the entry. Defaults to the server's configured user.")),
	)
	s.AddTool(tool, recordEntryHandler(deps))
}

type recordEntryResult struct {
	Entry            diary.Entry `json:"entry"`
	WeatherAvailable bool        `json:"weather_available"`
	Warnings         []string    `json:"warnings,omitempty"`
}

func recordEntryHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		action, ok := request.Params.Arguments["action"].(string)
		if !ok {
			return mcp.NewToolResultError("'action' parameter is required and must be a string."), nil
		}
		note, _ := request.Params.Arguments["note"].(string)
		userID, _ := stringArg(request, "user_id")
		if userID == "" {
			userID = deps.UserID
		}

		runner := &capture.Runner{Reader: deps.Reader, Store: diary.NewStore(deps.DB)}
		out, err := runner.Record(ctx, userID, deps.Location, action, note)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to record entry: %v", err)), nil
		}
		if err := out.Err(); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Entry not recorded: %v", err)), nil
		}

		result := recordEntryResult{Entry: *out.Entry, WeatherAvailable: out.Entry.HasReading()}
		for _, m := range out.Messages {
			if m.Kind == capture.WeatherUnavailable {
				result.Warnings = append(result.Warnings, m.Text())
			}
		}
		return jsonResult(result)
	}
}

func RegisterListEntriesTool(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool("list_entries",
		mcp.WithDescription("Lists a user's diary entries, newest first."),
		mcp.WithString("user_id", mcp.Description("Whose entries to list. Defaults to the server's configured user.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries (default 50).")),
	)
	s.AddTool(tool, listEntriesHandler(deps))
}

func listEntriesHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, _ := stringArg(request, "user_id")
		if userID == "" {
			userID = deps.UserID
		}
		limit, err := intArg(request, "limit", diary.DefaultListLimit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		entries, err := diary.ListEntries(ctx, deps.DB, userID, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list entries: %v", err)), nil
		}
		if len(entries) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}
		return jsonResult(entries)
	}
}

func RegisterGetEntryTool(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool("get_entry",
		mcp.WithDescription("Retrieves one diary entry by its ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("UUID of the entry.")),
	)
	s.AddTool(tool, getEntryHandler(deps))
}

func getEntryHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		idStr, ok := stringArg(request, "id")
		if !ok || idStr == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid entry ID '%s': %v", idStr, err)), nil
		}

		entry, err := diary.GetEntry(ctx, deps.DB, id)
		if errors.Is(err, diary.ErrEntryNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Entry with ID '%s' not found.", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get entry: %v", err)), nil
		}
		return jsonResult(entry)
	}
}

func RegisterCurrentWeatherTool(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool("current_weather",
		mcp.WithDescription("Reads the current temperature and humidity at the monitoring site, as a new entry would record them."),
	)
	s.AddTool(tool, currentWeatherHandler(deps))
}

type currentWeatherResult struct {
	Location    string     `json:"location"`
	Available   bool       `json:"available"`
	Temperature *float64   `json:"temperature"`
	Humidity    *float64   `json:"humidity"`
	Provider    string     `json:"provider,omitempty"`
	ObservedAt  *time.Time `json:"observed_at,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

func currentWeatherHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Reader == nil {
			return mcp.NewToolResultError("No weather reader configured."), nil
		}
		reading := deps.Reader.FetchCurrent(ctx)
		temperature, humidity := reading.Pointers()

		result := currentWeatherResult{
			Location:    deps.Location,
			Available:   !reading.IsFallback(),
			Temperature: temperature,
			Humidity:    humidity,
			Provider:    reading.Provider(),
			Reason:      reading.Reason(),
		}
		if at := reading.ObservedAt(); !at.IsZero() {
			result.ObservedAt = &at
		}
		return jsonResult(result)
	}
}
