package mcpserver

import (
	"fmt"
	"strings"
)

func boolPtr(v bool) *bool { return &v }

func requireString(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// optionalString returns nil when key is absent so patches can tell "unset"
// from "set to empty".
func optionalString(args map[string]any, key string) *string {
	v, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

// requireIndex reads a non-negative integer argument. JSON numbers arrive as
// float64.
func requireIndex(args map[string]any, key string) (int, error) {
	v, ok := args[key].(float64)
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	if v < 0 || v != float64(int(v)) {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %v", key, v)
	}
	return int(v), nil
}

// splitIDs parses a comma-separated id list.
func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
