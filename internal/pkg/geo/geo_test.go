package geo

import (
	"math"
	"testing"
)

func TestEvaluateSamePoint(t *testing.T) {
	office := Coordinate{Latitude: -6.2088, Longitude: 106.8456}
	fence := Fence{Office: office, RadiusMeters: 1, Enabled: true}

	res := Evaluate(office, fence)
	if !res.Inside {
		t.Errorf("Evaluate(office, fence).Inside = false, want true")
	}
	if res.DistanceMeters != 0 {
		t.Errorf("Evaluate(office, fence).DistanceMeters = %v, want 0", res.DistanceMeters)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	cases := []struct {
		lat1, lon1, lat2, lon2 float64
	}{
		{-6.2088, 106.8456, -6.1751, 106.8650},
		{51.5074, -0.1278, 48.8566, 2.3522},
		{0, 0, 0, 180},
	}
	for _, c := range cases {
		ab := HaversineDistance(c.lat1, c.lon1, c.lat2, c.lon2)
		ba := HaversineDistance(c.lat2, c.lon2, c.lat1, c.lon1)
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("HaversineDistance not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Monas to Istiqlal Mosque, roughly 700m.
	d := HaversineDistance(-6.1754, 106.8272, -6.1702, 106.8311)
	if d < 500 || d > 900 {
		t.Errorf("HaversineDistance = %v, want roughly 700m", d)
	}
}

func TestEvaluateRadiusBoundary(t *testing.T) {
	office := Coordinate{Latitude: -6.2088, Longitude: 106.8456}
	// ~111m north of the office.
	point := Coordinate{Latitude: -6.2078, Longitude: 106.8456}

	inside := Evaluate(point, Fence{Office: office, RadiusMeters: 200, Enabled: true})
	if !inside.Inside {
		t.Errorf("point within 200m radius reported outside (distance %v)", inside.DistanceMeters)
	}

	outside := Evaluate(point, Fence{Office: office, RadiusMeters: 50, Enabled: true})
	if outside.Inside {
		t.Errorf("point beyond 50m radius reported inside (distance %v)", outside.DistanceMeters)
	}
}

func TestEvaluateDisabledFence(t *testing.T) {
	fence := Fence{Office: Coordinate{}, RadiusMeters: 10, Enabled: false}
	res := Evaluate(Coordinate{Latitude: 89, Longitude: 170}, fence)
	if !res.Inside || res.DistanceMeters != 0 {
		t.Errorf("disabled fence must admit every point with distance 0, got %+v", res)
	}
}

func TestEvaluateNaNCoordinate(t *testing.T) {
	office := Coordinate{Latitude: -6.2088, Longitude: 106.8456}
	fence := Fence{Office: office, RadiusMeters: 50, Enabled: true}

	res := Evaluate(Coordinate{Latitude: math.NaN(), Longitude: 106.8456}, fence)
	if res.Inside {
		t.Error("NaN coordinate must never pass the fence")
	}
	if !math.IsNaN(res.DistanceMeters) {
		t.Errorf("NaN coordinate must propagate NaN distance, got %v", res.DistanceMeters)
	}
}

func TestCoordinateValid(t *testing.T) {
	cases := []struct {
		c    Coordinate
		want bool
	}{
		{Coordinate{0, 0}, true},
		{Coordinate{-90, 180}, true},
		{Coordinate{91, 0}, false},
		{Coordinate{0, -181}, false},
		{Coordinate{math.NaN(), 0}, false},
	}
	for _, c := range cases {
		if got := c.c.Valid(); got != c.want {
			t.Errorf("Valid(%+v) = %v, want %v", c.c, got, c.want)
		}
	}
}
