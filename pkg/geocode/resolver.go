// Package geocode resolves free-text place names to geographic coordinates.
//
// The package defines the Resolver interface consumed by the route planner
// and provides a Nominatim-backed implementation with in-process memoization,
// so repeated lookups of the same name (the base city often reappears among
// the stops) hit the network only once.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/travelmind/travelmcp/pkg/geo"
	"github.com/travelmind/travelmcp/pkg/travelapi"
)

// ErrNotFound is returned when the geocoding provider has no match for
// the requested name.
var ErrNotFound = errors.New("place not found")

// Resolver maps a place name to a coordinate, or reports that the name
// could not be resolved. Implementations must be safe for concurrent use.
type Resolver interface {
	Lookup(ctx context.Context, name string) (geo.Location, error)
}

const (
	// defaultCacheSize bounds the resolver's memoization cache
	defaultCacheSize = 4096

	// defaultCacheTTL is how long a resolved coordinate stays cached.
	// Coordinates of named places effectively never move; the TTL only
	// bounds staleness of corrected map data.
	defaultCacheTTL = 24 * time.Hour

	// defaultTimeout bounds a single provider lookup
	defaultTimeout = 10 * time.Second
)

// NominatimResolver resolves place names against the Nominatim geocoding
// service. Resolved coordinates are memoized in an expiring LRU cache.
type NominatimResolver struct {
	baseURL string
	timeout time.Duration
	logger  *slog.Logger
	cache   *expirable.LRU[string, geo.Location]
}

// NewNominatimResolver creates a resolver backed by the public Nominatim
// instance. A nil logger falls back to slog.Default().
func NewNominatimResolver(logger *slog.Logger) *NominatimResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &NominatimResolver{
		baseURL: travelapi.NominatimBaseURL,
		timeout: defaultTimeout,
		logger:  logger.With("component", "geocode"),
		cache:   expirable.NewLRU[string, geo.Location](defaultCacheSize, nil, defaultCacheTTL),
	}
}

// SetBaseURL overrides the Nominatim endpoint. Used by tests.
func (r *NominatimResolver) SetBaseURL(u string) {
	r.baseURL = u
}

// SetTimeout overrides the per-lookup timeout.
func (r *NominatimResolver) SetTimeout(d time.Duration) {
	r.timeout = d
}

// cacheKey normalizes a name for memoization so trivial casing and
// whitespace differences share an entry.
func cacheKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Lookup resolves a place name to its best-match coordinate.
// It returns ErrNotFound when the provider has zero matches; other errors
// indicate the provider was unreachable or returned malformed data.
func (r *NominatimResolver) Lookup(ctx context.Context, name string) (geo.Location, error) {
	if strings.TrimSpace(name) == "" {
		return geo.Location{}, fmt.Errorf("geocode: %w: empty name", ErrNotFound)
	}

	key := cacheKey(name)
	if loc, ok := r.cache.Get(key); ok {
		r.logger.Debug("cache hit", "name", name)
		return loc, nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	reqURL, err := url.Parse(r.baseURL + "/search")
	if err != nil {
		return geo.Location{}, fmt.Errorf("geocode: parse URL: %w", err)
	}
	q := reqURL.Query()
	q.Add("q", name)
	q.Add("format", "json")
	q.Add("limit", "1")
	reqURL.RawQuery = q.Encode()

	req, err := travelapi.NewRequest(ctx, http.MethodGet, reqURL.String())
	if err != nil {
		return geo.Location{}, fmt.Errorf("geocode: create request: %w", err)
	}

	resp, err := travelapi.DoRequest(ctx, req)
	if err != nil {
		r.logger.Error("geocoding request failed", "name", name, "error", err)
		return geo.Location{}, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("geocoding service returned error", "name", name, "status", resp.StatusCode)
		return geo.Location{}, fmt.Errorf("geocode: service returned status %d", resp.StatusCode)
	}

	// Nominatim returns lat/lon as strings
	var results []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		r.logger.Error("failed to decode geocoding response", "name", name, "error", err)
		return geo.Location{}, fmt.Errorf("geocode: decode response: %w", err)
	}

	if len(results) == 0 {
		r.logger.Debug("no results", "name", name)
		return geo.Location{}, fmt.Errorf("geocode %q: %w", name, ErrNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Location{}, fmt.Errorf("geocode: malformed latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Location{}, fmt.Errorf("geocode: malformed longitude %q: %w", results[0].Lon, err)
	}

	loc := geo.Location{Latitude: lat, Longitude: lon}
	if !loc.Valid() {
		return geo.Location{}, fmt.Errorf("geocode: coordinates out of range: %s", loc)
	}

	r.cache.Add(key, loc)
	r.logger.Debug("resolved", "name", name, "match", results[0].DisplayName, "location", loc)
	return loc, nil
}
