package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// stringArg returns a trimmed string argument; ok is false when absent or not a string.
func stringArg(request mcp.CallToolRequest, name string) (string, bool) {
	v, ok := request.Params.Arguments[name].(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(request mcp.CallToolRequest, name string, def int) (int, error) {
	raw, present := request.Params.Arguments[name]
	if !present || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("'%s' must be a whole number", name)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("'%s' must be a number", name)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
