package tools

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/travelmind/travelmcp/pkg/geo"
)

// Place represents a named point of interest with coordinates.
type Place struct {
	Name       string       `json:"name"`
	Location   geo.Location `json:"location"`
	Category   string       `json:"category,omitempty"`
	Rating     float64      `json:"rating,omitempty"`
	DistanceKm float64      `json:"distance_km,omitempty"`
}

// parseStringList extracts a []string argument from a tool request.
// JSON arrays arrive as []any; plain strings are accepted as a
// single-element list. Blank entries are dropped.
func parseStringList(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.Params.Arguments[key]
	if !ok {
		return nil
	}

	var out []string
	appendIf := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				appendIf(s)
			}
		}
	case []string:
		for _, s := range v {
			appendIf(s)
		}
	case string:
		appendIf(v)
	}
	return out
}
