package tools

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/travelmind/travelmcp/pkg/geo"
)

func TestHandleGeocodePlace(t *testing.T) {
	reg := parisRegistry()

	t.Run("resolves", func(t *testing.T) {
		result, err := reg.HandleGeocodePlace(context.Background(),
			newToolRequest("geocode_place", map[string]any{"name": "Paris"}))
		if err != nil {
			t.Fatalf("unexpected handler error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected error result: %s", resultText(t, result))
		}

		var output GeocodePlaceOutput
		if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Location.Latitude != 48.8566 || output.Location.Longitude != 2.3522 {
			t.Errorf("location = %+v, want 48.8566,2.3522", output.Location)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		result, err := reg.HandleGeocodePlace(context.Background(),
			newToolRequest("geocode_place", map[string]any{"name": ""}))
		if err != nil {
			t.Fatalf("unexpected handler error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected error result for empty name")
		}
	})

	t.Run("no results", func(t *testing.T) {
		result, err := reg.HandleGeocodePlace(context.Background(),
			newToolRequest("geocode_place", map[string]any{"name": "Atlantis"}))
		if err != nil {
			t.Fatalf("unexpected handler error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected error result for unknown place")
		}
		var detailed DetailedError
		if err := json.Unmarshal([]byte(resultText(t, result)), &detailed); err != nil {
			t.Fatalf("error payload is not structured: %v", err)
		}
		if detailed.Code != "NO_RESULTS" {
			t.Errorf("error code = %q, want NO_RESULTS", detailed.Code)
		}
	})
}

func TestHandlePlaceDistance(t *testing.T) {
	reg := parisRegistry()

	result, err := reg.HandlePlaceDistance(context.Background(),
		newToolRequest("place_distance", map[string]any{"from": "Louvre", "to": "Eiffel Tower"}))
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var output PlaceDistanceOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	want := geo.DistanceKm(
		geo.Location{Latitude: 48.8606, Longitude: 2.3376},
		geo.Location{Latitude: 48.8584, Longitude: 2.2945},
	)
	if math.Abs(output.DistanceKm-want) > 1e-9 {
		t.Errorf("distance = %f km, want %f km", output.DistanceKm, want)
	}
	if !strings.Contains(output.Summary, "Louvre") || !strings.Contains(output.Summary, "Eiffel Tower") {
		t.Errorf("summary %q does not name both places", output.Summary)
	}
}

func TestHandlePlaceDistanceUnresolved(t *testing.T) {
	reg := parisRegistry()

	result, err := reg.HandlePlaceDistance(context.Background(),
		newToolRequest("place_distance", map[string]any{"from": "Louvre", "to": "Atlantis"}))
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unresolved place")
	}
}

func TestHandleGetWeatherValidation(t *testing.T) {
	reg := parisRegistry()

	tests := []struct {
		name string
		args map[string]any
	}{
		{"empty city", map[string]any{"city": ""}},
		{"bad start date", map[string]any{"city": "Paris", "start_date": "March 5"}},
		{"bad end date", map[string]any{"city": "Paris", "start_date": "2026-09-01", "end_date": "09/05/2026"}},
		{"end without start", map[string]any{"city": "Paris", "end_date": "2026-09-05"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := reg.HandleGetWeather(context.Background(), newToolRequest("get_weather", tc.args))
			if err != nil {
				t.Fatalf("unexpected handler error: %v", err)
			}
			if !result.IsError {
				t.Fatalf("expected error result, got: %s", resultText(t, result))
			}
		})
	}
}

func TestHandleFindAttractionsRequiresKey(t *testing.T) {
	t.Setenv(OpenTripMapKeyEnv, "")
	reg := parisRegistry()

	result, err := reg.HandleFindAttractions(context.Background(),
		newToolRequest("find_attractions", map[string]any{"city": "Paris"}))
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result without API key")
	}
	if !strings.Contains(resultText(t, result), OpenTripMapKeyEnv) {
		t.Errorf("error should point at %s: %s", OpenTripMapKeyEnv, resultText(t, result))
	}
}

func TestHandleFindNearbyPlacesValidation(t *testing.T) {
	reg := parisRegistry()

	tests := []struct {
		name string
		args map[string]any
	}{
		{"empty name", map[string]any{"place_name": ""}},
		{"zero radius", map[string]any{"place_name": "Paris", "radius_km": 0.0}},
		{"radius too large", map[string]any{"place_name": "Paris", "radius_km": 100.0}},
		{"unknown place", map[string]any{"place_name": "Atlantis"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := reg.HandleFindNearbyPlaces(context.Background(), newToolRequest("find_nearby_places", tc.args))
			if err != nil {
				t.Fatalf("unexpected handler error: %v", err)
			}
			if !result.IsError {
				t.Fatalf("expected error result, got: %s", resultText(t, result))
			}
		})
	}
}

func TestExtractSections(t *testing.T) {
	text := "Paris is the capital of France.\n" +
		"Understand\n\nParis has been a major city for centuries.\n\n" +
		"Get in\n\nBy plane via CDG or Orly.\nBy train via Gare du Nord.\n\n" +
		"Eat\n\nBistros everywhere.\n"

	sections := extractSections(text, insightSections)
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3: %+v", len(sections), sections)
	}
	if sections[0].Title != "Understand" || !strings.Contains(sections[0].Text, "major city") {
		t.Errorf("unexpected first section: %+v", sections[0])
	}
	if sections[1].Title != "Get in" || !strings.Contains(sections[1].Text, "By train") {
		t.Errorf("unexpected second section: %+v", sections[1])
	}
	if sections[2].Title != "Eat" {
		t.Errorf("unexpected third section: %+v", sections[2])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short, 10) = %q", got)
	}
	long := strings.Repeat("a", 20)
	if got := truncate(long, 10); len([]rune(got)) != 11 || !strings.HasSuffix(got, "…") {
		t.Errorf("truncate() = %q, want 10 runes plus ellipsis", got)
	}
}
