package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/travelmind/travelmcp/pkg/travelapi"
)

// DescribePlaceTool returns a tool definition for place descriptions
func DescribePlaceTool() mcp.Tool {
	return mcp.NewTool("describe_place",
		mcp.WithDescription("Fetch a short encyclopedic description of a place from Wikipedia"),
		mcp.WithString("place_name",
			mcp.Required(),
			mcp.Description("The place to describe"),
		),
	)
}

// PlaceDescriptionOutput defines the output format for place descriptions
type PlaceDescriptionOutput struct {
	PlaceName   string `json:"place_name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SourceURL   string `json:"source_url,omitempty"`
}

// HandleDescribePlace implements the place description lookup
func (reg *Registry) HandleDescribePlace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := reg.logger.With("tool", "describe_place")

	placeName := mcp.ParseString(req, "place_name", "")
	if placeName == "" {
		return DetailedErrorResponse("EMPTY_NAME", "Place name must not be empty"), nil
	}

	cacheKey := "describe|" + placeName
	if cached, ok := reg.textCache.Get(cacheKey); ok {
		logger.Debug("cache hit", "place", placeName)
		return mcp.NewToolResultText(cached), nil
	}

	summaryURL := travelapi.WikipediaBaseURL + "/page/summary/" + url.PathEscape(placeName)
	httpReq, err := travelapi.NewRequest(ctx, http.MethodGet, summaryURL)
	if err != nil {
		logger.Error("failed to create request", "error", err)
		return ErrorResponse("Failed to create request"), nil
	}

	resp, err := travelapi.DoRequest(ctx, httpReq)
	if err != nil {
		logger.Error("failed to execute request", "error", err)
		return ErrorWithGuidance(NewAPIError("Wikipedia", 0, "Failed to communicate with encyclopedia service", GuidanceNetworkError)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return DetailedErrorResponse("NO_PAGE", "No encyclopedia page found for "+placeName+". "+GuidanceWikiNotFound), nil
	}
	if resp.StatusCode != http.StatusOK {
		logger.Error("encyclopedia service returned error", "status", resp.StatusCode)
		return ErrorWithGuidance(NewAPIError("Wikipedia", resp.StatusCode, "Encyclopedia service error", "")), nil
	}

	var summary struct {
		Type        string `json:"type"`
		Title       string `json:"title"`
		Extract     string `json:"extract"`
		ContentURLs struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorWithGuidance(NewAPIError("Wikipedia", 0, "Failed to parse encyclopedia response", GuidanceDataError)), nil
	}

	if summary.Type == "disambiguation" {
		return DetailedErrorResponse("AMBIGUOUS_NAME",
			"Multiple encyclopedia entries match "+placeName+". "+GuidanceWikiNotFound), nil
	}
	if summary.Extract == "" {
		return DetailedErrorResponse("NO_PAGE", "No description available for "+placeName), nil
	}

	output := PlaceDescriptionOutput{
		PlaceName:   placeName,
		Title:       summary.Title,
		Description: summary.Extract,
		SourceURL:   summary.ContentURLs.Desktop.Page,
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}

	reg.textCache.Set(cacheKey, string(resultBytes))
	return mcp.NewToolResultText(string(resultBytes)), nil
}
