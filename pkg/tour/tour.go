// Package tour computes the optimal visiting order for a set of named
// attractions around a base city.
//
// Place names are resolved to coordinates through a geocode.Resolver; the
// visiting order minimizing total great-circle distance is then found by
// exhaustive permutation search. The search is exact, so the stop count is
// capped at MaxStops; larger requests are rejected with KindTooManyStops
// instead of silently degrading to a heuristic.
package tour

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/travelmind/travelmcp/pkg/geo"
	"github.com/travelmind/travelmcp/pkg/geocode"
)

// MaxStops is the largest number of resolved stops accepted for the exact
// permutation search. 10! = 3,628,800 candidate orders, which with a
// precomputed distance matrix still completes in well under a second.
const MaxStops = 10

// Result is the outcome of a best-route computation. Coordinates[0] is
// always the base; the remaining entries follow Route order.
type Result struct {
	Base            string         `json:"base"`
	Route           []string       `json:"route"`
	TotalDistanceKm float64        `json:"total_distance_km"`
	Coordinates     []geo.Location `json:"coordinates"`
	Skipped         []string       `json:"skipped,omitempty"`
}

// PathDescription renders the route as a compact textual path,
// e.g. "Paris → Louvre → Eiffel Tower".
func (r *Result) PathDescription() string {
	parts := make([]string, 0, len(r.Route)+1)
	parts = append(parts, r.Base)
	parts = append(parts, r.Route...)
	return strings.Join(parts, " → ")
}

// Summary renders a one-line human-readable description of the result.
func (r *Result) Summary() string {
	return fmt.Sprintf("Best route: %s (total distance: %.2f km)", r.PathDescription(), r.TotalDistanceKm)
}

// Planner computes best visiting routes. It is stateless apart from the
// injected resolver and safe for concurrent use.
type Planner struct {
	resolver geocode.Resolver
	maxStops int
	logger   *slog.Logger
}

// NewPlanner creates a route planner using the given resolver.
// A nil logger falls back to slog.Default().
func NewPlanner(resolver geocode.Resolver, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		resolver: resolver,
		maxStops: MaxStops,
		logger:   logger.With("component", "tour"),
	}
}

// stop is a resolved place retained for the search.
type stop struct {
	name string
	loc  geo.Location
}

// BestRoute resolves the base city and each stop name, then returns the
// visiting order with the smallest total great-circle distance starting
// from the base.
//
// Stops that fail to resolve are dropped and reported in Result.Skipped.
// The whole request fails with a *tour.Error when the base is unresolvable,
// when no stop resolves (or none was requested), or when more than the
// exact-search bound of stops resolve.
func (p *Planner) BestRoute(ctx context.Context, base string, stopNames []string) (*Result, error) {
	if len(stopNames) == 0 {
		return nil, newError(KindNoValidStops, "no stops requested")
	}

	baseLoc, err := p.resolver.Lookup(ctx, base)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			return nil, wrapError(KindBaseUnresolved, err, "could not find location for %q", base)
		}
		return nil, wrapError(KindProvider, err, "geocoding failed for base %q", base)
	}

	// Per-request memoization: duplicate names (including the base reused
	// as a stop) resolve once. Failures are memoized too.
	known := map[string]geo.Location{cacheKey(base): baseLoc}
	failed := map[string]bool{}

	stops := make([]stop, 0, len(stopNames))
	var skipped []string
	for _, name := range stopNames {
		key := cacheKey(name)
		if failed[key] {
			// Already reported in skipped
			continue
		}
		loc, ok := known[key]
		if !ok {
			var err error
			loc, err = p.resolver.Lookup(ctx, name)
			if err != nil {
				p.logger.Warn("skipping unresolvable stop", "name", name, "error", err)
				failed[key] = true
				skipped = append(skipped, name)
				continue
			}
			known[key] = loc
		}
		stops = append(stops, stop{name: name, loc: loc})
	}

	if len(stops) == 0 {
		return nil, newError(KindNoValidStops, "none of the %d requested stops could be resolved", len(stopNames))
	}
	if len(stops) > p.maxStops {
		return nil, newError(KindTooManyStops, "%d resolved stops exceed the exact-search limit of %d", len(stops), p.maxStops)
	}

	order, total := bestOrder(baseLoc, stops)

	result := &Result{
		Base:            base,
		Route:           make([]string, len(order)),
		TotalDistanceKm: total,
		Coordinates:     make([]geo.Location, 0, len(order)+1),
		Skipped:         skipped,
	}
	result.Coordinates = append(result.Coordinates, baseLoc)
	for i, idx := range order {
		result.Route[i] = stops[idx].name
		result.Coordinates = append(result.Coordinates, stops[idx].loc)
	}

	p.logger.Debug("route computed",
		"base", base,
		"stops", len(stops),
		"skipped", len(skipped),
		"total_km", total)
	return result, nil
}

// cacheKey normalizes a name for per-request memoization.
func cacheKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// bestOrder finds the permutation of stops minimizing the total distance
// base -> p1 -> ... -> pn. Permutations are enumerated in lexicographic
// order over the input indices and compared with strict less-than, so ties
// deterministically keep the first order encountered.
func bestOrder(base geo.Location, stops []stop) ([]int, float64) {
	n := len(stops)

	// Precompute all leg distances once; the search then only sums.
	fromBase := make([]float64, n)
	legs := make([][]float64, n)
	for i := range stops {
		fromBase[i] = geo.DistanceKm(base, stops[i].loc)
		legs[i] = make([]float64, n)
		for j := range stops {
			legs[i][j] = geo.DistanceKm(stops[i].loc, stops[j].loc)
		}
	}

	best := make([]int, n)
	bestTotal := -1.0

	perm := make([]int, 0, n)
	used := make([]bool, n)

	var walk func(total float64)
	walk = func(total float64) {
		if len(perm) == n {
			if bestTotal < 0 || total < bestTotal {
				bestTotal = total
				copy(best, perm)
			}
			return
		}
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			leg := fromBase[i]
			if len(perm) > 0 {
				leg = legs[perm[len(perm)-1]][i]
			}
			used[i] = true
			perm = append(perm, i)
			walk(total + leg)
			perm = perm[:len(perm)-1]
			used[i] = false
		}
	}
	walk(0)

	return best, bestTotal
}
