package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/travelmind/travelmcp/pkg/geo"
	"github.com/travelmind/travelmcp/pkg/tour"
)

// PlanBestRouteTool returns a tool definition for optimal route planning
func PlanBestRouteTool() mcp.Tool {
	return mcp.NewTool("plan_best_route",
		mcp.WithDescription("Find the visiting order of attractions that minimizes total travel distance from a base city. "+
			"Returns the ordered route, total distance in kilometers, and coordinates for map rendering."),
		mcp.WithString("city",
			mcp.Required(),
			mcp.Description("The base city the route starts from"),
		),
		mcp.WithArray("places",
			mcp.Required(),
			mcp.Description("Names of the attractions to visit (at most 10)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// BestRouteOutput is the tool response for a computed route.
// Coordinates[0] is always the base city.
type BestRouteOutput struct {
	RouteInfo       string         `json:"route_info"`
	Base            string         `json:"base"`
	Route           []string       `json:"route"`
	TotalDistanceKm float64        `json:"total_distance_km"`
	Coordinates     []geo.Location `json:"coordinates"`
	Skipped         []string       `json:"skipped,omitempty"`
}

// HandlePlanBestRoute implements the best-route computation
func (reg *Registry) HandlePlanBestRoute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := reg.logger.With("tool", "plan_best_route")

	city := mcp.ParseString(req, "city", "")
	places := parseStringList(req, "places")

	if city == "" {
		return DetailedErrorResponse("EMPTY_CITY", "City must not be empty"), nil
	}
	if len(places) == 0 {
		return DetailedErrorResponse("NO_VALID_STOPS", "At least one place to visit is required"), nil
	}

	result, err := reg.planner.BestRoute(ctx, city, places)
	if err != nil {
		logger.Warn("route planning failed", "city", city, "places", len(places), "error", err)
		switch tour.KindOf(err) {
		case tour.KindBaseUnresolved:
			return DetailedErrorResponse("BASE_UNRESOLVED", err.Error()), nil
		case tour.KindNoValidStops:
			return DetailedErrorResponse("NO_VALID_STOPS", err.Error()), nil
		case tour.KindTooManyStops:
			return DetailedErrorResponse("TOO_MANY_STOPS", err.Error()), nil
		case tour.KindProvider:
			return DetailedErrorResponse("PROVIDER_ERROR", err.Error()), nil
		default:
			return DetailedErrorResponse("INTERNAL_ERROR", err.Error()), nil
		}
	}

	output := BestRouteOutput{
		RouteInfo:       result.Summary(),
		Base:            result.Base,
		Route:           result.Route,
		TotalDistanceKm: result.TotalDistanceKm,
		Coordinates:     result.Coordinates,
		Skipped:         result.Skipped,
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}

	return mcp.NewToolResultText(string(resultBytes)), nil
}
