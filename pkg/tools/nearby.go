package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/travelmind/travelmcp/pkg/geo"
	"github.com/travelmind/travelmcp/pkg/geocode"
	"github.com/travelmind/travelmcp/pkg/travelapi"
)

const (
	// maxNearbyRadiusKm caps the Overpass search radius
	maxNearbyRadiusKm = 50.0

	// maxNearbyResults caps how many places a single call returns
	maxNearbyResults = 50
)

// FindNearbyPlacesTool returns a tool definition for finding nearby attractions
func FindNearbyPlacesTool() mcp.Tool {
	return mcp.NewTool("find_nearby_places",
		mcp.WithDescription("Find tourist attractions and public amenities within a radius of a named place, sorted by distance"),
		mcp.WithString("place_name",
			mcp.Required(),
			mcp.Description("The place to search around"),
		),
		mcp.WithNumber("radius_km",
			mcp.Description("Search radius in kilometers (max 50)"),
			mcp.DefaultNumber(5),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return"),
			mcp.DefaultNumber(20),
		),
	)
}

// NearbyPlacesOutput defines the output format for nearby place searches
type NearbyPlacesOutput struct {
	Center   string       `json:"center"`
	Location geo.Location `json:"location"`
	RadiusKm float64      `json:"radius_km"`
	Places   []Place      `json:"places"`
}

// HandleFindNearbyPlaces implements finding nearby points of interest
func (reg *Registry) HandleFindNearbyPlaces(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := reg.logger.With("tool", "find_nearby_places")

	placeName := mcp.ParseString(req, "place_name", "")
	radiusKm := mcp.ParseFloat64(req, "radius_km", 5)
	limit := int(mcp.ParseFloat64(req, "limit", 20))

	if placeName == "" {
		return DetailedErrorResponse("EMPTY_NAME", "Place name must not be empty"), nil
	}
	if radiusKm <= 0 || radiusKm > maxNearbyRadiusKm {
		return ErrorResponse(fmt.Sprintf("Radius must be between 0 and %.0f km", maxNearbyRadiusKm)), nil
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > maxNearbyResults {
		limit = maxNearbyResults
	}

	center, err := reg.resolver.Lookup(ctx, placeName)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			return DetailedErrorResponse("NO_RESULTS", "Could not find coordinates for "+placeName), nil
		}
		logger.Error("geocoding failed", "name", placeName, "error", err)
		return ErrorWithGuidance(NewAPIError("Nominatim", 0, err.Error(), GuidanceNetworkError)), nil
	}

	// Query tourism, amenity and historic nodes around the center
	radiusM := radiusKm * 1000
	var queryBuilder strings.Builder
	queryBuilder.WriteString("[out:json];(")
	for _, tag := range []string{"tourism", "amenity", "historic"} {
		queryBuilder.WriteString(fmt.Sprintf("node(around:%f,%f,%f)[%q];",
			radiusM, center.Latitude, center.Longitude, tag))
	}
	queryBuilder.WriteString(");out body;")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, travelapi.OverpassBaseURL,
		strings.NewReader("data="+url.QueryEscape(queryBuilder.String())))
	if err != nil {
		logger.Error("failed to create request", "error", err)
		return ErrorResponse("Failed to create request"), nil
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := travelapi.DoRequest(ctx, httpReq)
	if err != nil {
		logger.Error("failed to execute request", "error", err)
		return ErrorWithGuidance(NewAPIError("Overpass", 0, "Failed to communicate with places service", GuidanceNetworkError)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("places service returned error", "status", resp.StatusCode)
		return ErrorWithGuidance(NewAPIError("Overpass", resp.StatusCode, "Places service error", GuidanceOverpassGeneral)), nil
	}

	var overpassResp struct {
		Elements []struct {
			ID   int64   `json:"id"`
			Lat  float64 `json:"lat"`
			Lon  float64 `json:"lon"`
			Tags struct {
				Name     string `json:"name"`
				Tourism  string `json:"tourism"`
				Amenity  string `json:"amenity"`
				Historic string `json:"historic"`
			} `json:"tags"`
		} `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&overpassResp); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorWithGuidance(NewAPIError("Overpass", 0, "Failed to parse places response", GuidanceDataError)), nil
	}

	// Keep named places only, deduplicated, sorted by distance from center
	seen := make(map[string]bool)
	places := make([]Place, 0, len(overpassResp.Elements))
	for _, el := range overpassResp.Elements {
		name := el.Tags.Name
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		category := el.Tags.Tourism
		if category == "" {
			category = el.Tags.Amenity
		}
		if category == "" {
			category = el.Tags.Historic
		}

		loc := geo.Location{Latitude: el.Lat, Longitude: el.Lon}
		places = append(places, Place{
			Name:       name,
			Location:   loc,
			Category:   category,
			DistanceKm: geo.DistanceKm(center, loc),
		})
	}

	sort.Slice(places, func(i, j int) bool {
		return places[i].DistanceKm < places[j].DistanceKm
	})
	if len(places) > limit {
		places = places[:limit]
	}

	output := NearbyPlacesOutput{
		Center:   placeName,
		Location: center,
		RadiusKm: radiusKm,
		Places:   places,
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}

	logger.Debug("nearby search complete", "center", placeName, "results", len(places))
	return mcp.NewToolResultText(string(resultBytes)), nil
}
