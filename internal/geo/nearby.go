package geo

import (
	"sort"

	"stationbook/internal/models"
)

// StationDistance pairs a station with its distance from a query point.
type StationDistance struct {
	Station    models.ServiceStation
	DistanceKm float64
}

// NearbyStations filters candidates to those within radiusKm of the query
// point (inclusive boundary) and orders them by ascending distance. Stations
// without coordinates are skipped. The sort is stable, so candidates at equal
// distance keep their input order.
func NearbyStations(lat, lng, radiusKm float64, candidates []models.ServiceStation) []StationDistance {
	origin := NewPoint(lat, lng)

	results := make([]StationDistance, 0, len(candidates))
	for _, s := range candidates {
		if !s.HasCoordinates() {
			continue
		}
		d := Distance(StationPoint(&s), origin)
		if d <= radiusKm {
			results = append(results, StationDistance{Station: s, DistanceKm: d})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	return results
}
