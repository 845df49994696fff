// Package travelapi provides shared plumbing for the external travel data
// services: a pooled HTTP client, per-service rate limiting, and response
// caching.
package travelapi

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	// DefaultUserAgent is the default User-Agent string sent on every
	// outbound request (required by Nominatim's usage policy)
	DefaultUserAgent = "travelmcp/0.1.0"

	// Service base URLs
	NominatimBaseURL   = "https://nominatim.openstreetmap.org"
	OverpassBaseURL    = "https://overpass-api.de/api/interpreter"
	OpenMeteoBaseURL   = "https://api.open-meteo.com/v1/forecast"
	WikipediaBaseURL   = "https://en.wikipedia.org/api/rest_v1"
	WikivoyageBaseURL  = "https://en.wikivoyage.org/w/api.php"
	OpenTripMapBaseURL = "https://api.opentripmap.com/0.1/en"
)

var (
	// Global HTTP client with connection pooling
	httpClient *http.Client

	// User agent string
	userAgent     string
	userAgentLock sync.RWMutex
)

func init() {
	httpClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: 30 * time.Second,
	}

	userAgent = DefaultUserAgent
}

// SetUserAgent sets the User-Agent string
func SetUserAgent(ua string) {
	userAgentLock.Lock()
	defer userAgentLock.Unlock()
	userAgent = ua
}

// GetUserAgent returns the current User-Agent string
func GetUserAgent() string {
	userAgentLock.RLock()
	defer userAgentLock.RUnlock()
	return userAgent
}

// hostFromURL extracts the host from a URL string
func hostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}

// serviceForHost maps a request host to its rate-limiting service name.
// Unknown hosts are not rate limited.
func serviceForHost(host string) string {
	switch host {
	case hostFromURL(NominatimBaseURL):
		return ServiceNominatim
	case hostFromURL(OverpassBaseURL):
		return ServiceOverpass
	case hostFromURL(OpenMeteoBaseURL):
		return ServiceOpenMeteo
	case hostFromURL(WikipediaBaseURL), hostFromURL(WikivoyageBaseURL):
		return ServiceWikimedia
	case hostFromURL(OpenTripMapBaseURL):
		return ServiceOpenTripMap
	default:
		return ""
	}
}

// NewRequest creates a bodyless request with the proper User-Agent header set.
func NewRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", GetUserAgent())
	return req, nil
}

// DoRequest performs an HTTP request with rate limiting applied for the
// target service. The User-Agent header is always set.
func DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", GetUserAgent())

	if service := serviceForHost(req.URL.Host); service != "" {
		if err := WaitForService(ctx, service); err != nil {
			return nil, err
		}
	}

	return httpClient.Do(req)
}
