package geo

import (
	"math"
	"testing"
)

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{12.9716, 77.5946, 12.9352, 77.6146},
		{0, 0, 10, 10},
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}

	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("distance not symmetric: %v vs %v for %v", ab, ba, p)
		}
	}
}

func TestDistance_SamePointIsZero(t *testing.T) {
	if d := Distance(12.9716, 77.5946, 12.9716, 77.5946); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestDistance_KnownRoute(t *testing.T) {
	// MG Road to Koramangala, Bangalore.
	d := Distance(12.9716, 77.5946, 12.9352, 77.6146)
	if d < 4.3 || d > 4.6 {
		t.Errorf("expected roughly 4.3-4.6 km, got %v", d)
	}
}

func TestValidCoordinates(t *testing.T) {
	if !ValidLatitude(90) || !ValidLatitude(-90) || ValidLatitude(90.1) {
		t.Error("latitude bounds wrong")
	}
	if !ValidLongitude(180) || !ValidLongitude(-180) || ValidLongitude(-180.5) {
		t.Error("longitude bounds wrong")
	}
}
