package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationbook/internal/models"
)

func TestScopeStations(t *testing.T) {
	owner := uuid.New()
	otherOwner := uuid.New()
	customer := uuid.New()

	active := models.ServiceStation{ID: uuid.New(), OwnerID: owner, IsActive: true}
	inactive := models.ServiceStation{ID: uuid.New(), OwnerID: owner, IsActive: false}
	foreign := models.ServiceStation{ID: uuid.New(), OwnerID: otherOwner, IsActive: true}
	all := []models.ServiceStation{active, inactive, foreign}

	tests := []struct {
		name      string
		principal Principal
		expected  []uuid.UUID
	}{
		{
			name:      "admin sees everything",
			principal: Principal{ID: uuid.New(), Role: models.RoleAdmin},
			expected:  []uuid.UUID{active.ID, inactive.ID, foreign.ID},
		},
		{
			name:      "owner sees only own stations, active or not",
			principal: Principal{ID: owner, Role: models.RoleStations},
			expected:  []uuid.UUID{active.ID, inactive.ID},
		},
		{
			name:      "customer sees only active stations",
			principal: Principal{ID: customer, Role: models.RoleUser},
			expected:  []uuid.UUID{active.ID, foreign.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScopeStations(tt.principal, all)
			require.Len(t, got, len(tt.expected))
			for i, s := range got {
				assert.Equal(t, tt.expected[i], s.ID)
			}
		})
	}
}

func TestScopeAppointments(t *testing.T) {
	owner := uuid.New()
	customer := uuid.New()
	stranger := uuid.New()

	ownedStation := models.ServiceStation{ID: uuid.New(), OwnerID: owner, IsActive: true}
	foreignStation := models.ServiceStation{ID: uuid.New(), OwnerID: uuid.New(), IsActive: true}

	mine := models.Appointment{ID: uuid.New(), UserID: customer, StationID: ownedStation.ID, Station: &ownedStation}
	theirs := models.Appointment{ID: uuid.New(), UserID: stranger, StationID: foreignStation.ID, Station: &foreignStation}
	all := []models.Appointment{mine, theirs}

	t.Run("admin is unfiltered", func(t *testing.T) {
		got := ScopeAppointments(Principal{ID: uuid.New(), Role: models.RoleAdmin}, all)
		assert.Len(t, got, 2)
	})

	t.Run("customer sees only own appointments", func(t *testing.T) {
		got := ScopeAppointments(Principal{ID: customer, Role: models.RoleUser}, all)
		require.Len(t, got, 1)
		assert.Equal(t, mine.ID, got[0].ID)
	})

	t.Run("station owner sees only appointments at owned stations", func(t *testing.T) {
		got := ScopeAppointments(Principal{ID: owner, Role: models.RoleStations}, all)
		require.Len(t, got, 1)
		assert.Equal(t, mine.ID, got[0].ID)
	})

	t.Run("station owner without loaded station relation sees nothing", func(t *testing.T) {
		detached := models.Appointment{ID: uuid.New(), UserID: stranger, StationID: ownedStation.ID}
		got := ScopeAppointments(Principal{ID: owner, Role: models.RoleStations}, []models.Appointment{detached})
		assert.Empty(t, got)
	})
}

func TestStationVisible(t *testing.T) {
	owner := uuid.New()
	s := models.ServiceStation{ID: uuid.New(), OwnerID: owner, IsActive: false}

	assert.True(t, StationVisible(Principal{ID: uuid.New(), Role: models.RoleAdmin}, &s))
	assert.True(t, StationVisible(Principal{ID: owner, Role: models.RoleStations}, &s))
	assert.False(t, StationVisible(Principal{ID: uuid.New(), Role: models.RoleStations}, &s))
	assert.False(t, StationVisible(Principal{ID: uuid.New(), Role: models.RoleUser}, &s))
}
