package geo

import "math"

const earthRadiusMeters = 6371000

// Coordinate is a WGS-84 point in decimal degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether both components are real numbers inside the WGS-84
// value ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Fence is a circular boundary around an office coordinate. Geofencing is
// opt-in: a disabled fence admits every point.
type Fence struct {
	Office       Coordinate
	RadiusMeters float64
	Enabled      bool
}

type Result struct {
	Inside         bool
	DistanceMeters float64
}

// Evaluate decides whether point falls inside the fence and how far from the
// office it is. Invalid (NaN) coordinates propagate as Inside=false with a NaN
// distance; callers must treat that as a hard failure, not a pass.
func Evaluate(point Coordinate, fence Fence) Result {
	if !fence.Enabled {
		return Result{Inside: true, DistanceMeters: 0}
	}

	dist := HaversineDistance(point.Latitude, point.Longitude, fence.Office.Latitude, fence.Office.Longitude)
	if math.IsNaN(dist) {
		return Result{Inside: false, DistanceMeters: dist}
	}

	return Result{
		Inside:         dist <= fence.RadiusMeters,
		DistanceMeters: dist,
	}
}

// HaversineDistance returns the great-circle distance between two coordinates
// in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
