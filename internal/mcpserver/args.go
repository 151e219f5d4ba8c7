package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool arguments are read permissively: a missing or mistyped optional
// argument falls back to the default instead of failing the call.

func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil && v != "" {
		return v
	}
	return def
}

// getBool reports ok=false when the argument is absent or not a boolean.
func getBool(req mcp.CallToolRequest, name string) (value, ok bool) {
	args, isMap := req.Params.Arguments.(map[string]any)
	if !isMap {
		return false, false
	}
	value, ok = args[name].(bool)
	return value, ok
}

// getStrings returns nil when the argument is absent. Non-string elements
// are skipped.
func getStrings(req mcp.CallToolRequest, name string) []string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	arr, ok := args[name].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
