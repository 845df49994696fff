package travelapi

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Service names for rate limiting
	ServiceNominatim   = "nominatim"
	ServiceOverpass    = "overpass"
	ServiceOpenMeteo   = "openmeteo"
	ServiceWikimedia   = "wikimedia"
	ServiceOpenTripMap = "opentripmap"
)

// RateLimiter manages rate limiting for the external travel data services
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

var (
	// globalRateLimiter is the singleton rate limiter instance
	globalRateLimiter *RateLimiter

	// rateLimiterOnce ensures we only create the rate limiter once
	rateLimiterOnce sync.Once
)

// GetRateLimiter returns the global rate limiter instance
func GetRateLimiter() *RateLimiter {
	rateLimiterOnce.Do(func() {
		// Initialize the global rate limiter with service-specific limits
		// according to each provider's usage policy
		limiters := make(map[string]*rate.Limiter)

		// Nominatim: 1 request per second
		// https://operations.osmfoundation.org/policies/nominatim/
		limiters[ServiceNominatim] = rate.NewLimiter(rate.Every(1*time.Second), 1)

		// Overpass: 2 requests per minute with bursts of up to 2 requests
		// https://wiki.openstreetmap.org/wiki/Overpass_API#Public_Overpass_API_instances
		limiters[ServiceOverpass] = rate.NewLimiter(rate.Every(30*time.Second), 2)

		// Open-Meteo: free tier allows generous usage, stay well under it
		limiters[ServiceOpenMeteo] = rate.NewLimiter(rate.Every(200*time.Millisecond), 5)

		// Wikimedia (Wikipedia/Wikivoyage): 200 req/s allowed, we need far less
		limiters[ServiceWikimedia] = rate.NewLimiter(rate.Every(100*time.Millisecond), 10)

		// OpenTripMap: free plan is limited, keep a conservative pace
		limiters[ServiceOpenTripMap] = rate.NewLimiter(rate.Every(200*time.Millisecond), 5)

		globalRateLimiter = &RateLimiter{
			limiters: limiters,
		}
	})

	return globalRateLimiter
}

// Update replaces the rate limiter for a service. Used to apply
// operator-configured limits at startup.
func (rl *RateLimiter) Update(service string, rps float64, burst int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.limiters[service] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the rate limit for the specified service allows an event
// or the context is canceled.
func (rl *RateLimiter) Wait(ctx context.Context, service string) error {
	rl.mu.RLock()
	limiter, exists := rl.limiters[service]
	rl.mu.RUnlock()

	if !exists {
		return fmt.Errorf("no rate limiter defined for service: %s", service)
	}

	// Wait for rate limiter or context cancellation
	err := limiter.Wait(ctx)
	if err != nil {
		slog.Debug("rate limiter wait error", "service", service, "error", err)
		return err
	}

	return nil
}

// WaitForService is a convenience function to wait for a service's rate limit
// using the global rate limiter
func WaitForService(ctx context.Context, service string) error {
	return GetRateLimiter().Wait(ctx, service)
}
