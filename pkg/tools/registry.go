package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/travelmind/travelmcp/pkg/geocode"
	"github.com/travelmind/travelmcp/pkg/tour"
	"github.com/travelmind/travelmcp/pkg/travelapi"
)

// Registry holds all MCP tool registrations for the travel assistant,
// along with the shared dependencies the handlers need: the coordinate
// resolver, the route planner built on top of it, and a response cache
// for slowly changing text data (weather, encyclopedia extracts).
type Registry struct {
	logger    *slog.Logger
	resolver  geocode.Resolver
	planner   *tour.Planner
	textCache *travelapi.TTLCache[string, string]
}

// NewRegistry creates a tool registry backed by the public Nominatim
// geocoding service.
func NewRegistry(logger *slog.Logger) *Registry {
	return NewRegistryWithResolver(logger, geocode.NewNominatimResolver(logger))
}

// NewRegistryWithResolver creates a tool registry with an injected
// resolver. Tests use this to avoid network access.
func NewRegistryWithResolver(logger *slog.Logger, resolver geocode.Resolver) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:    logger,
		resolver:  resolver,
		planner:   tour.NewPlanner(resolver, logger),
		textCache: travelapi.NewTTLCache[string, string](30 * time.Minute),
	}
}

// ToolDefinition represents a travel-assistant MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// GetToolDefinitions returns all travel-assistant MCP tool definitions.
func (reg *Registry) GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		// Routing
		{
			Name:        "plan_best_route",
			Description: "Find the visiting order of attractions that minimizes total travel distance from a base city",
			Tool:        PlanBestRouteTool(),
			Handler:     reg.HandlePlanBestRoute,
		},

		// Geocoding
		{
			Name:        "geocode_place",
			Description: "Convert a place name to geographic coordinates",
			Tool:        GeocodePlaceTool(),
			Handler:     reg.HandleGeocodePlace,
		},
		{
			Name:        "place_distance",
			Description: "Calculate the straight-line distance in kilometers between two named places",
			Tool:        PlaceDistanceTool(),
			Handler:     reg.HandlePlaceDistance,
		},

		// Discovery
		{
			Name:        "find_nearby_places",
			Description: "Find tourist attractions and public amenities within a radius of a place",
			Tool:        FindNearbyPlacesTool(),
			Handler:     reg.HandleFindNearbyPlaces,
		},
		{
			Name:        "find_attractions",
			Description: "Find rated attractions around a city from OpenTripMap",
			Tool:        FindAttractionsTool(),
			Handler:     reg.HandleFindAttractions,
		},

		// Reference
		{
			Name:        "describe_place",
			Description: "Fetch a short encyclopedic description of a place",
			Tool:        DescribePlaceTool(),
			Handler:     reg.HandleDescribePlace,
		},
		{
			Name:        "travel_insights",
			Description: "Fetch practical travel advice for a city (getting in, getting around, staying safe, eating)",
			Tool:        TravelInsightsTool(),
			Handler:     reg.HandleTravelInsights,
		},

		// Weather
		{
			Name:        "get_weather",
			Description: "Get current weather or a date-range forecast for a city",
			Tool:        GetWeatherTool(),
			Handler:     reg.HandleGetWeather,
		},
	}
}

// RegisterTools registers all tools with the MCP server.
func (reg *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range reg.GetToolDefinitions() {
		reg.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, def.Handler)
	}
}
