package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/travelmind/travelmcp/pkg/geo"
	"github.com/travelmind/travelmcp/pkg/geocode"
	"github.com/travelmind/travelmcp/pkg/travelapi"
)

const (
	// OpenTripMapKeyEnv names the environment variable holding the
	// OpenTripMap API key (loaded from .env at startup).
	OpenTripMapKeyEnv = "OPENTRIPMAP_API_KEY"

	// attractionsRadiusM is the fixed search radius around the city center
	attractionsRadiusM = 5000

	// maxAttractions caps how many rated attractions a call returns.
	// Each result costs an extra detail request, so keep this small.
	maxAttractions = 20
)

// FindAttractionsTool returns a tool definition for rated attraction searches
func FindAttractionsTool() mcp.Tool {
	return mcp.NewTool("find_attractions",
		mcp.WithDescription("Find rated tourist attractions around a city, with category and popularity information"),
		mcp.WithString("city",
			mcp.Required(),
			mcp.Description("The city to search in"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of attractions to return"),
			mcp.DefaultNumber(10),
		),
	)
}

// Attraction is a rated point of interest.
type Attraction struct {
	Name     string       `json:"name"`
	Location geo.Location `json:"location"`
	Category string       `json:"category,omitempty"`
	Rating   string       `json:"rating,omitempty"`
}

// AttractionsOutput defines the output format for attraction searches
type AttractionsOutput struct {
	City        string       `json:"city"`
	Location    geo.Location `json:"location"`
	Attractions []Attraction `json:"attractions"`
}

// HandleFindAttractions implements the rated attraction search
func (reg *Registry) HandleFindAttractions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := reg.logger.With("tool", "find_attractions")

	city := mcp.ParseString(req, "city", "")
	limit := int(mcp.ParseFloat64(req, "limit", 10))

	if city == "" {
		return DetailedErrorResponse("EMPTY_CITY", "City must not be empty"), nil
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > maxAttractions {
		limit = maxAttractions
	}

	apiKey := os.Getenv(OpenTripMapKeyEnv)
	if apiKey == "" {
		return ErrorWithGuidance(NewAPIError("OpenTripMap", http.StatusUnauthorized,
			"OpenTripMap API key is not configured", GuidanceOpenTripMapKey)), nil
	}

	center, err := reg.resolver.Lookup(ctx, city)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			return DetailedErrorResponse("NO_RESULTS", "Could not find coordinates for "+city), nil
		}
		logger.Error("geocoding failed", "city", city, "error", err)
		return ErrorWithGuidance(NewAPIError("Nominatim", 0, err.Error(), GuidanceNetworkError)), nil
	}

	radiusURL := fmt.Sprintf("%s/places/radius?radius=%d&lon=%f&lat=%f&limit=%d&apikey=%s",
		travelapi.OpenTripMapBaseURL, attractionsRadiusM, center.Longitude, center.Latitude, limit, url.QueryEscape(apiKey))

	httpReq, err := travelapi.NewRequest(ctx, http.MethodGet, radiusURL)
	if err != nil {
		logger.Error("failed to create request", "error", err)
		return ErrorResponse("Failed to create request"), nil
	}

	resp, err := travelapi.DoRequest(ctx, httpReq)
	if err != nil {
		logger.Error("failed to execute request", "error", err)
		return ErrorWithGuidance(NewAPIError("OpenTripMap", 0, "Failed to communicate with attractions service", GuidanceNetworkError)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("attractions service returned error", "status", resp.StatusCode)
		return ErrorWithGuidance(NewAPIError("OpenTripMap", resp.StatusCode, "Attractions service error", "")), nil
	}

	var radiusResp struct {
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"` // [lon, lat]
			} `json:"geometry"`
			Properties struct {
				XID  string `json:"xid"`
				Name string `json:"name"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&radiusResp); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorWithGuidance(NewAPIError("OpenTripMap", 0, "Failed to parse attractions response", GuidanceDataError)), nil
	}

	attractions := make([]Attraction, 0, len(radiusResp.Features))
	for _, f := range radiusResp.Features {
		if f.Properties.XID == "" || f.Properties.Name == "" {
			continue
		}

		a := Attraction{Name: f.Properties.Name}
		if len(f.Geometry.Coordinates) == 2 {
			a.Location = geo.Location{Latitude: f.Geometry.Coordinates[1], Longitude: f.Geometry.Coordinates[0]}
		}

		// Fetch category and popularity from the detail endpoint.
		// A failed detail lookup keeps the bare entry.
		if kinds, rate, err := reg.attractionDetail(ctx, f.Properties.XID, apiKey); err != nil {
			logger.Debug("detail lookup failed", "xid", f.Properties.XID, "error", err)
		} else {
			a.Category = kinds
			a.Rating = rate
		}

		attractions = append(attractions, a)
		if len(attractions) >= limit {
			break
		}
	}

	output := AttractionsOutput{City: city, Location: center, Attractions: attractions}
	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}

	logger.Debug("attraction search complete", "city", city, "results", len(attractions))
	return mcp.NewToolResultText(string(resultBytes)), nil
}

// attractionDetail fetches the category ("kinds") and popularity rating of
// a single OpenTripMap place.
func (reg *Registry) attractionDetail(ctx context.Context, xid, apiKey string) (kinds, rate string, err error) {
	detailURL := fmt.Sprintf("%s/places/xid/%s?apikey=%s",
		travelapi.OpenTripMapBaseURL, url.PathEscape(xid), url.QueryEscape(apiKey))

	req, err := travelapi.NewRequest(ctx, http.MethodGet, detailURL)
	if err != nil {
		return "", "", err
	}
	resp, err := travelapi.DoRequest(ctx, req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("detail request returned status %d", resp.StatusCode)
	}

	var detail struct {
		Kinds string          `json:"kinds"`
		Rate  json.RawMessage `json:"rate"` // number or string depending on the place
	}
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return "", "", err
	}

	rate = strings.Trim(string(detail.Rate), `"`)
	return detail.Kinds, rate, nil
}
