package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/travelmind/travelmcp/pkg/geo"
	"github.com/travelmind/travelmcp/pkg/geocode"
)

// GeocodePlaceTool returns a tool definition for geocoding place names
func GeocodePlaceTool() mcp.Tool {
	return mcp.NewTool("geocode_place",
		mcp.WithDescription("Convert a place name to geographic coordinates"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The place name to geocode (city, landmark, address)"),
		),
	)
}

// GeocodePlaceOutput defines the output format for geocoded places
type GeocodePlaceOutput struct {
	Name     string       `json:"name"`
	Location geo.Location `json:"location"`
}

// HandleGeocodePlace implements the geocoding functionality
func (reg *Registry) HandleGeocodePlace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := reg.logger.With("tool", "geocode_place")

	name := mcp.ParseString(req, "name", "")
	if name == "" {
		return DetailedErrorResponse("EMPTY_NAME", "Place name must not be empty"), nil
	}

	loc, err := reg.resolver.Lookup(ctx, name)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			logger.Debug("no results", "name", name)
			return DetailedErrorResponse("NO_RESULTS", "No results found for "+name+". "+GuidanceNominatimAddressFormat), nil
		}
		logger.Error("geocoding failed", "name", name, "error", err)
		return ErrorWithGuidance(NewAPIError("Nominatim", 0, err.Error(), GuidanceNetworkError)), nil
	}

	resultBytes, err := json.Marshal(GeocodePlaceOutput{Name: name, Location: loc})
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}

	return mcp.NewToolResultText(string(resultBytes)), nil
}
