// Package prompts provides prompt templates for use with the MCP server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTravelPrompts registers all travel-planning prompts with the MCP server
func RegisterTravelPrompts(s *server.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("route_planning",
		mcp.WithPromptDescription("Instructions for properly using the route-planning tools"),
	), RoutePlanningPromptHandler)

	s.AddPrompt(mcp.NewPrompt("route_narration",
		mcp.WithPromptDescription("How to turn a computed route into a friendly travel plan"),
	), RouteNarrationPromptHandler)
}

// RoutePlanningPromptHandler returns the main prompt for route-planning tools
func RoutePlanningPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemPrompt := `You have access to travel-planning tools. When a user asks for the best way to
visit several attractions:

1. Call plan_best_route with the base city and the attraction names
2. Pass place names exactly as the user gave them; the tool resolves them itself
3. Keep the list to at most 10 attractions - the tool rejects longer lists with
   a TOO_MANY_STOPS error rather than returning an unlabeled approximation
4. Check the "skipped" field in the response: those names could not be located.
   Tell the user which attractions were skipped and suggest adding the city or
   country to the name, e.g. "Louvre Paris" instead of "the Louvre"
5. The "coordinates" field starts with the base city and follows the route
   order - hand it to a map renderer as-is

ERROR HANDLING:
- BASE_UNRESOLVED: the starting city was not found; ask the user to clarify it
- NO_VALID_STOPS: none of the attractions were found; ask for better names
- TOO_MANY_STOPS: split the trip into days and plan each day separately
- PROVIDER_ERROR: the geocoding service is unavailable; try again shortly`

	return mcp.NewGetPromptResult(
		"Route Planning Tool Usage Guidelines",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(systemPrompt),
			),
		},
	), nil
}

// RouteNarrationPromptHandler returns the prompt for narrating computed routes
func RouteNarrationPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	narrationPrompt := `When plan_best_route returns a result, turn it into a short, human travel plan:

1. Present the stops in the returned order, starting from the base city
2. Mention the total distance once, rounded to whole kilometers
3. Describe how to reach each stop from the previous one, with a recommended
   transport method for the leg length (walk under 2 km, transit under 15 km,
   otherwise car or train)
4. Keep it friendly, concise, and practical
5. Use describe_place or travel_insights for a sentence of color per stop when
   the user wants detail, and get_weather if they mention dates`

	return mcp.NewGetPromptResult(
		"Route Narration Guidelines",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(narrationPrompt),
			),
		},
	), nil
}
