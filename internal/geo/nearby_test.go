package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationbook/internal/models"
)

func station(name string, lat, lng *float64) models.ServiceStation {
	return models.ServiceStation{Name: name, Latitude: lat, Longitude: lng, IsActive: true}
}

func coords(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func TestNearbyStationsSkipsUnknownLocations(t *testing.T) {
	lat, lng := coords(40.0, -74.0)
	candidates := []models.ServiceStation{
		station("with coords", lat, lng),
		station("no coords", nil, nil),
		{Name: "only latitude", Latitude: lat, IsActive: true},
	}

	got := NearbyStations(40.0, -74.0, 1e9, candidates)

	require.Len(t, got, 1)
	assert.Equal(t, "with coords", got[0].Station.Name)
}

func TestNearbyStationsRadiusBoundary(t *testing.T) {
	// (0,1) is ~111.19 km from the origin
	lat, lng := coords(0, 1)
	candidates := []models.ServiceStation{station("edge", lat, lng)}

	exact := Distance(NewPoint(0, 0), NewPoint(0, 1))

	t.Run("distance equal to radius is included", func(t *testing.T) {
		got := NearbyStations(0, 0, exact, candidates)
		assert.Len(t, got, 1)
	})

	t.Run("distance just over radius is excluded", func(t *testing.T) {
		got := NearbyStations(0, 0, exact-1e-9, candidates)
		assert.Empty(t, got)
	})
}

func TestNearbyStationsOrdering(t *testing.T) {
	farLat, farLng := coords(1.0, 0)
	midLat, midLng := coords(0.5, 0)
	nearLat, nearLng := coords(0.1, 0)
	candidates := []models.ServiceStation{
		station("far", farLat, farLng),
		station("near", nearLat, nearLng),
		station("mid", midLat, midLng),
	}

	got := NearbyStations(0, 0, 500, candidates)

	require.Len(t, got, 3)
	assert.Equal(t, "near", got[0].Station.Name)
	assert.Equal(t, "mid", got[1].Station.Name)
	assert.Equal(t, "far", got[2].Station.Name)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].DistanceKm, got[i].DistanceKm)
	}
}

func TestNearbyStationsStableTies(t *testing.T) {
	aLat, aLng := coords(0, 0.2)
	bLat, bLng := coords(0, 0.2)
	candidates := []models.ServiceStation{
		station("first", aLat, aLng),
		station("second", bLat, bLng),
	}

	got := NearbyStations(0, 0, 100, candidates)

	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Station.Name)
	assert.Equal(t, "second", got[1].Station.Name)
}

func TestNearbyStationsScenario(t *testing.T) {
	s1Lat, s1Lng := coords(40.0, -74.0)
	s3Lat, s3Lng := coords(41.0, -74.0)
	candidates := []models.ServiceStation{
		station("S1", s1Lat, s1Lng),
		station("S2", nil, nil),
		station("S3", s3Lat, s3Lng),
	}

	// S3 is ~111 km from the query point, beyond the 50 km radius
	got := NearbyStations(40.0, -74.0, 50, candidates)
	require.Len(t, got, 1)
	assert.Equal(t, "S1", got[0].Station.Name)

	// widen the radius so S3 joins, ordered; S2 never appears
	got = NearbyStations(40.0, -74.0, 200, candidates)
	require.Len(t, got, 2)
	assert.Equal(t, "S1", got[0].Station.Name)
	assert.Equal(t, "S3", got[1].Station.Name)
}
