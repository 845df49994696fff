package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/travelmind/travelmcp/pkg/travelapi"
)

// insightSections are the Wikivoyage guide sections worth surfacing to a
// traveler, in presentation order.
var insightSections = []string{"Understand", "Get in", "Get around", "Stay safe", "Eat", "Drink"}

// maxInsightSectionLen caps how much of each section is returned
const maxInsightSectionLen = 600

// TravelInsightsTool returns a tool definition for travel advice lookups
func TravelInsightsTool() mcp.Tool {
	return mcp.NewTool("travel_insights",
		mcp.WithDescription("Fetch practical travel advice for a city from Wikivoyage: getting in, getting around, staying safe, eating and drinking"),
		mcp.WithString("city",
			mcp.Required(),
			mcp.Description("The city to get travel advice for"),
		),
	)
}

// InsightSection is one section of a travel guide.
type InsightSection struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// TravelInsightsOutput defines the output format for travel advice
type TravelInsightsOutput struct {
	City     string           `json:"city"`
	Sections []InsightSection `json:"sections"`
}

// HandleTravelInsights implements the travel advice lookup
func (reg *Registry) HandleTravelInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := reg.logger.With("tool", "travel_insights")

	city := mcp.ParseString(req, "city", "")
	if city == "" {
		return DetailedErrorResponse("EMPTY_CITY", "City must not be empty"), nil
	}

	cacheKey := "insights|" + city
	if cached, ok := reg.textCache.Get(cacheKey); ok {
		logger.Debug("cache hit", "city", city)
		return mcp.NewToolResultText(cached), nil
	}

	reqURL, err := url.Parse(travelapi.WikivoyageBaseURL)
	if err != nil {
		logger.Error("failed to parse URL", "error", err)
		return ErrorResponse("Internal server error"), nil
	}
	q := reqURL.Query()
	q.Add("action", "query")
	q.Add("prop", "extracts")
	q.Add("format", "json")
	q.Add("titles", city)
	q.Add("formatversion", "2")
	q.Add("explaintext", "1")
	reqURL.RawQuery = q.Encode()

	httpReq, err := travelapi.NewRequest(ctx, http.MethodGet, reqURL.String())
	if err != nil {
		logger.Error("failed to create request", "error", err)
		return ErrorResponse("Failed to create request"), nil
	}

	resp, err := travelapi.DoRequest(ctx, httpReq)
	if err != nil {
		logger.Error("failed to execute request", "error", err)
		return ErrorWithGuidance(NewAPIError("Wikivoyage", 0, "Failed to communicate with travel guide service", GuidanceNetworkError)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("travel guide service returned error", "status", resp.StatusCode)
		return ErrorWithGuidance(NewAPIError("Wikivoyage", resp.StatusCode, "Travel guide service error", "")), nil
	}

	var guideResp struct {
		Query struct {
			Pages []struct {
				Title   string `json:"title"`
				Extract string `json:"extract"`
				Missing bool   `json:"missing"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&guideResp); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorWithGuidance(NewAPIError("Wikivoyage", 0, "Failed to parse travel guide response", GuidanceDataError)), nil
	}

	var extract string
	if len(guideResp.Query.Pages) > 0 && !guideResp.Query.Pages[0].Missing {
		extract = guideResp.Query.Pages[0].Extract
	}
	if extract == "" {
		return DetailedErrorResponse("NO_GUIDE", "No travel guide found for "+city), nil
	}

	output := TravelInsightsOutput{
		City:     city,
		Sections: extractSections(extract, insightSections),
	}
	if len(output.Sections) == 0 {
		// No recognizable section headings, return the opening of the guide
		output.Sections = []InsightSection{{Title: "Overview", Text: truncate(extract, 2*maxInsightSectionLen)}}
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}

	reg.textCache.Set(cacheKey, string(resultBytes))
	return mcp.NewToolResultText(string(resultBytes)), nil
}

// extractSections pulls the named section bodies out of a plain-text
// Wikivoyage extract. Section headings appear on their own line.
func extractSections(text string, wanted []string) []InsightSection {
	lines := strings.Split(text, "\n")
	var sections []InsightSection

	for _, title := range wanted {
		for i, line := range lines {
			if !strings.EqualFold(strings.TrimSpace(line), title) {
				continue
			}
			var body []string
			for _, next := range lines[i+1:] {
				trimmed := strings.TrimSpace(next)
				if trimmed == "" {
					continue
				}
				// A line matching any known heading ends the section
				if isHeading(trimmed, wanted) {
					break
				}
				body = append(body, trimmed)
			}
			if len(body) > 0 {
				sections = append(sections, InsightSection{
					Title: title,
					Text:  truncate(strings.Join(body, " "), maxInsightSectionLen),
				})
			}
			break
		}
	}
	return sections
}

func isHeading(line string, wanted []string) bool {
	for _, w := range wanted {
		if strings.EqualFold(line, w) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Cut on a rune boundary
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
