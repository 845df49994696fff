package geo

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	// Test cases with known distances
	tests := []struct {
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		expected  float64
		name      string
		tolerance float64 // relative tolerance (e.g., 0.001 for 0.1%)
	}{
		{
			name:      "Same point",
			lat1:      48.8566,
			lon1:      2.3522,
			lat2:      48.8566,
			lon2:      2.3522,
			expected:  0,
			tolerance: 0.0001,
		},
		{
			name:      "Short distance - Louvre to Notre-Dame",
			lat1:      48.8606,
			lon1:      2.3376,
			lat2:      48.8530,
			lon2:      2.3499,
			expected:  1233.9,
			tolerance: 0.005,
		},
		{
			name:      "Medium distance - Paris to Versailles",
			lat1:      48.8566,
			lon1:      2.3522,
			lat2:      48.8049,
			lon2:      2.1204,
			expected:  17830.0,
			tolerance: 0.005,
		},
		{
			name:      "Long distance - Paris to Rome",
			lat1:      48.8566,
			lon1:      2.3522,
			lat2:      41.9028,
			lon2:      12.4964,
			expected:  1105760.0, // ~1106 km
			tolerance: 0.005,
		},
		{
			name:      "Antipodal points",
			lat1:      0,
			lon1:      0,
			lat2:      0,
			lon2:      180,
			expected:  math.Pi * EarthRadius, // half the circumference
			tolerance: 0.0001,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := HaversineDistance(tc.lat1, tc.lon1, tc.lat2, tc.lon2)

			// Use relative tolerance for non-zero distances
			var difference float64
			if tc.expected == 0 {
				difference = math.Abs(result)
			} else {
				difference = math.Abs(result-tc.expected) / tc.expected
			}

			if difference > tc.tolerance {
				t.Errorf("HaversineDistance(%f, %f, %f, %f) = %f, expected %f ± %.1f%%",
					tc.lat1, tc.lon1, tc.lat2, tc.lon2, result, tc.expected, tc.tolerance*100)
			}
		})
	}
}

func TestDistanceKm(t *testing.T) {
	a := Location{Latitude: 48.8566, Longitude: 2.3522}
	b := Location{Latitude: 41.9028, Longitude: 12.4964}

	meters := Distance(a, b)
	km := DistanceKm(a, b)

	if math.Abs(km*1000-meters) > 1e-9 {
		t.Errorf("DistanceKm inconsistent with Distance: %f km vs %f m", km, meters)
	}
	if km < 1100 || km > 1112 {
		t.Errorf("Paris-Rome distance = %f km, expected ~1106 km", km)
	}
}

func TestLocationValid(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want bool
	}{
		{"valid", Location{Latitude: 48.8566, Longitude: 2.3522}, true},
		{"lat too high", Location{Latitude: 90.1, Longitude: 0}, false},
		{"lat too low", Location{Latitude: -90.1, Longitude: 0}, false},
		{"lon too high", Location{Latitude: 0, Longitude: 180.1}, false},
		{"lon too low", Location{Latitude: 0, Longitude: -180.1}, false},
		{"boundary", Location{Latitude: 90, Longitude: -180}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.loc.Valid(); got != tc.want {
				t.Errorf("Valid(%+v) = %v, want %v", tc.loc, got, tc.want)
			}
		})
	}
}
