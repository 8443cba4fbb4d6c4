package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	model "stationbook/internal/models"
	"stationbook/internal/policy"
)

func ownerPrincipal() policy.Principal {
	return policy.Principal{ID: uuid.New(), Role: model.RoleStations}
}

func TestStationCreateCoordinateRules(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewStationService(db, zap.NewNop())

	lat := 40.0
	badLat := 91.0
	lng := -74.0

	tests := []struct {
		name string
		in   StationInput
	}{
		{
			name: "latitude without longitude",
			in:   StationInput{Name: "Solo Lat", Latitude: &lat},
		},
		{
			name: "longitude without latitude",
			in:   StationInput{Name: "Solo Lng", Longitude: &lng},
		},
		{
			name: "latitude out of range",
			in:   StationInput{Name: "Bad Lat", Latitude: &badLat, Longitude: &lng},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), ownerPrincipal(), tt.in)
			require.Error(t, err)
			assert.True(t, model.IsValidation(err))
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStationCreateForcesOwner(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewStationService(db, zap.NewNop())

	p := ownerPrincipal()
	someoneElse := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO "service_stations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(uuid.New(), now, now))

	// a non-admin supplying owner_id gets it overridden server-side
	station, err := svc.Create(context.Background(), p, StationInput{
		Name:    "Midtown Garage",
		Address: "5th Ave",
		OwnerID: &someoneElse,
	})

	require.NoError(t, err)
	assert.Equal(t, p.ID, station.OwnerID)
	assert.True(t, station.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNearbyRejectsNonFiniteInput(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewStationService(db, zap.NewNop())

	tests := []struct {
		name     string
		lat, lng float64
		radius   float64
	}{
		{"NaN latitude", math.NaN(), 0, 10},
		{"infinite longitude", 0, math.Inf(1), 10},
		{"NaN radius", 0, 0, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Nearby(context.Background(), tt.lat, tt.lng, tt.radius)
			require.Error(t, err)
			assert.True(t, model.IsInvalidArgument(err))
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNearbyRejectsOutOfRangeCoordinates(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewStationService(db, zap.NewNop())

	_, err := svc.Nearby(context.Background(), 95.0, 0, 10)

	require.Error(t, err)
	assert.True(t, model.IsInvalidArgument(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func stationRows(stations ...model.ServiceStation) *sqlmock.Rows {
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "name", "owner_id", "address", "latitude", "longitude",
		"phone", "email", "is_active", "created_at", "updated_at",
	})
	for _, s := range stations {
		rows.AddRow(s.ID, s.Name, s.OwnerID, s.Address, s.Latitude, s.Longitude,
			s.Phone, s.Email, s.IsActive, now, now)
	}
	return rows
}

func TestNearbyFiltersAndOrders(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewStationService(db, zap.NewNop())

	near, nearLng := 0.1, 0.0
	far, farLng := 1.0, 0.0
	owner := uuid.New()

	// candidates arrive in store order, far one first
	mock.ExpectQuery(`SELECT (.+) FROM "service_stations"`).WillReturnRows(stationRows(
		model.ServiceStation{ID: uuid.New(), Name: "Far", OwnerID: owner, Latitude: &far, Longitude: &farLng, IsActive: true},
		model.ServiceStation{ID: uuid.New(), Name: "Near", OwnerID: owner, Latitude: &near, Longitude: &nearLng, IsActive: true},
	))

	got, err := svc.Nearby(context.Background(), 0, 0, 50)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Near", got[0].Station.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
