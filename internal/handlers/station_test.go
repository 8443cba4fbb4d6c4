package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"

	"stationbook/internal/config"
	"stationbook/internal/models"
	"stationbook/internal/services"
)

func setupStationHandler(t *testing.T) (*StationHandler, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := bun.NewDB(mockDB, pgdialect.New())
	db.RegisterModel((*models.StationServiceType)(nil))
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{DefaultNearbyRadiusKm: 10}
	svc := services.NewStationService(db, zap.NewNop())
	return NewStationHandler(svc, cfg, zap.NewNop()), mock
}

func TestNearbyParameterValidation(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"missing both", "", "Latitude and longitude are required"},
		{"missing longitude", "lat=40.0", "Latitude and longitude are required"},
		{"missing latitude", "lng=-74.0", "Latitude and longitude are required"},
		{"non-numeric latitude", "lat=abc&lng=-74.0", "Invalid coordinates"},
		{"non-numeric longitude", "lat=40.0&lng=xyz", "Invalid coordinates"},
		{"non-numeric radius", "lat=40.0&lng=-74.0&radius=far", "Invalid radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := setupStationHandler(t)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/service-stations/nearby?"+tt.query, nil)
			rec := httptest.NewRecorder()

			h.Nearby(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expected)
			// parameter errors never reach the store
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNearbyUsesDefaultRadius(t *testing.T) {
	h, mock := setupStationHandler(t)

	now := time.Now().UTC()
	lat, lng := 40.0, -74.0
	mock.ExpectQuery(`SELECT (.+) FROM "service_stations"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "owner_id", "address", "latitude", "longitude",
			"phone", "email", "is_active", "created_at", "updated_at",
		}).AddRow(uuid.New(), "Close By", uuid.New(), "Main St", &lat, &lng, "", "", true, now, now))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/service-stations/nearby?lat=40.0&lng=-74.0", nil)
	rec := httptest.NewRecorder()

	h.Nearby(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"radius_km":10`)
	assert.Contains(t, rec.Body.String(), "Close By")
	assert.NoError(t, mock.ExpectationsWereMet())
}
