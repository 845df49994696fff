package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/travelmind/travelmcp/pkg/testutil"
)

// fakeNominatim serves canned Nominatim search responses and counts requests.
func fakeNominatim(t *testing.T, requests *atomic.Int64, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		q := r.URL.Query().Get("q")
		body, ok := responses[q]
		if !ok {
			body = "[]"
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func newTestResolver(t *testing.T, baseURL string) *NominatimResolver {
	t.Helper()
	r := NewNominatimResolver(testutil.DiscardLogger())
	r.SetBaseURL(baseURL)
	return r
}

func TestLookup(t *testing.T) {
	var requests atomic.Int64
	srv := fakeNominatim(t, &requests, map[string]string{
		"Paris":        `[{"display_name":"Paris, France","lat":"48.8566","lon":"2.3522"}]`,
		"Eiffel Tower": `[{"display_name":"Eiffel Tower, Paris","lat":"48.8584","lon":"2.2945"}]`,
	})
	defer srv.Close()

	r := newTestResolver(t, srv.URL)
	ctx := context.Background()

	loc, err := r.Lookup(ctx, "Paris")
	if err != nil {
		t.Fatalf("Lookup(Paris) error: %v", err)
	}
	if loc.Latitude != 48.8566 || loc.Longitude != 2.3522 {
		t.Errorf("Lookup(Paris) = %+v, want 48.8566,2.3522", loc)
	}

	if _, err := r.Lookup(ctx, "Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(Atlantis) error = %v, want ErrNotFound", err)
	}
}

func TestLookupEmptyName(t *testing.T) {
	r := newTestResolver(t, "http://127.0.0.1:0")

	for _, name := range []string{"", "   "} {
		if _, err := r.Lookup(context.Background(), name); !errors.Is(err, ErrNotFound) {
			t.Errorf("Lookup(%q) error = %v, want ErrNotFound", name, err)
		}
	}
}

func TestLookupMemoization(t *testing.T) {
	var requests atomic.Int64
	srv := fakeNominatim(t, &requests, map[string]string{
		"Rome": `[{"display_name":"Rome, Italy","lat":"41.9028","lon":"12.4964"}]`,
	})
	defer srv.Close()

	r := newTestResolver(t, srv.URL)
	ctx := context.Background()

	// Same name in different casings and spacings must resolve once
	for _, name := range []string{"Rome", "rome", "  ROME  ", "Rome"} {
		if _, err := r.Lookup(ctx, name); err != nil {
			t.Fatalf("Lookup(%q) error: %v", name, err)
		}
	}

	if got := requests.Load(); got != 1 {
		t.Errorf("provider saw %d requests, want 1 (memoized)", got)
	}
}

func TestLookupProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := newTestResolver(t, srv.URL)
	if _, err := r.Lookup(context.Background(), "Paris"); err == nil {
		t.Fatal("expected error for provider failure, got nil")
	}
}

func TestLookupMalformedCoordinates(t *testing.T) {
	var requests atomic.Int64
	srv := fakeNominatim(t, &requests, map[string]string{
		"Broken": `[{"display_name":"Broken","lat":"not-a-number","lon":"2.0"}]`,
	})
	defer srv.Close()

	r := newTestResolver(t, srv.URL)
	if _, err := r.Lookup(context.Background(), "Broken"); err == nil {
		t.Fatal("expected error for malformed latitude, got nil")
	}
}
