package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/travelmind/travelmcp/pkg/geo"
	"github.com/travelmind/travelmcp/pkg/geocode"
)

// PlaceDistanceTool returns a tool definition for place-to-place distances
func PlaceDistanceTool() mcp.Tool {
	return mcp.NewTool("place_distance",
		mcp.WithDescription("Calculate the straight-line (great-circle) distance in kilometers between two named places"),
		mcp.WithString("from",
			mcp.Required(),
			mcp.Description("The first place name"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("The second place name"),
		),
	)
}

// PlaceDistanceOutput defines the output format for place distances
type PlaceDistanceOutput struct {
	From       string       `json:"from"`
	To         string       `json:"to"`
	FromCoords geo.Location `json:"from_coords"`
	ToCoords   geo.Location `json:"to_coords"`
	DistanceKm float64      `json:"distance_km"`
	Summary    string       `json:"summary"`
}

// HandlePlaceDistance implements the distance calculation between two places
func (reg *Registry) HandlePlaceDistance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := reg.logger.With("tool", "place_distance")

	from := mcp.ParseString(req, "from", "")
	to := mcp.ParseString(req, "to", "")
	if from == "" || to == "" {
		return DetailedErrorResponse("EMPTY_NAME", "Both place names are required"), nil
	}

	fromLoc, err := reg.resolver.Lookup(ctx, from)
	if err != nil {
		return placeLookupError(logger, from, err), nil
	}
	toLoc, err := reg.resolver.Lookup(ctx, to)
	if err != nil {
		return placeLookupError(logger, to, err), nil
	}

	km := geo.DistanceKm(fromLoc, toLoc)
	output := PlaceDistanceOutput{
		From:       from,
		To:         to,
		FromCoords: fromLoc,
		ToCoords:   toLoc,
		DistanceKm: km,
		Summary:    fmt.Sprintf("Distance between %s and %s: %.2f km", from, to, km),
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}

	return mcp.NewToolResultText(string(resultBytes)), nil
}

// placeLookupError maps a resolver failure to a tool error response.
func placeLookupError(logger *slog.Logger, name string, err error) *mcp.CallToolResult {
	if errors.Is(err, geocode.ErrNotFound) {
		logger.Debug("no results", "name", name)
		return DetailedErrorResponse("NO_RESULTS", "Could not resolve coordinates for "+name+". "+GuidanceNominatimAddressFormat)
	}
	logger.Error("geocoding failed", "name", name, "error", err)
	return ErrorWithGuidance(NewAPIError("Nominatim", 0, err.Error(), GuidanceNetworkError))
}
