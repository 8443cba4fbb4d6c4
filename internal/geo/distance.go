package geo

import (
	"math"

	"stationbook/internal/models"
)

// earthRadiusKm is the mean Earth radius used by the Haversine formula.
const earthRadiusKm = 6371.0

// Point is a geographical point. Nil coordinates mean the location is unknown.
type Point struct {
	Latitude  *float64
	Longitude *float64
}

// NewPoint builds a Point from concrete coordinates.
func NewPoint(lat, lng float64) Point {
	return Point{Latitude: &lat, Longitude: &lng}
}

// StationPoint extracts a station's location, which may be unknown.
func StationPoint(s *models.ServiceStation) Point {
	return Point{Latitude: s.Latitude, Longitude: s.Longitude}
}

// Distance returns the great-circle distance between two points in kilometers
// using the Haversine formula. If either point's coordinates are unknown it
// returns +Inf, so unknown locations never match any finite radius.
func Distance(a, b Point) float64 {
	if a.Latitude == nil || a.Longitude == nil || b.Latitude == nil || b.Longitude == nil {
		return math.Inf(1)
	}

	lat1 := *a.Latitude * math.Pi / 180.0
	lon1 := *a.Longitude * math.Pi / 180.0
	lat2 := *b.Latitude * math.Pi / 180.0
	lon2 := *b.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// ValidCoordinates reports whether a latitude/longitude pair is inside the
// valid coordinate ranges.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Finite reports whether all given values parse as finite numbers.
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
