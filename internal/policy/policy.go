// Package policy holds the role-based visibility rules. Every read scopes its
// result set through these rules and every write re-checks them, so a row
// outside the caller's scope behaves exactly like a row that does not exist.
package policy

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"stationbook/internal/models"
)

// Principal is the authenticated actor making a request.
type Principal struct {
	ID   uuid.UUID
	Role models.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// StationVisible reports whether the principal may see the station.
// admin: all; stations: own stations; user: active stations only.
func StationVisible(p Principal, s *models.ServiceStation) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleStations:
		return s.OwnerID == p.ID
	default:
		return s.IsActive
	}
}

// AppointmentVisible reports whether the principal may see the appointment.
// The station relation must be loaded for the stations role to be evaluated.
func AppointmentVisible(p Principal, a *models.Appointment) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleStations:
		return a.Station != nil && a.Station.OwnerID == p.ID
	default:
		return a.UserID == p.ID
	}
}

// ScopeStations filters a station collection down to what the principal may see.
func ScopeStations(p Principal, stations []models.ServiceStation) []models.ServiceStation {
	if p.IsAdmin() {
		return stations
	}
	out := make([]models.ServiceStation, 0, len(stations))
	for i := range stations {
		if StationVisible(p, &stations[i]) {
			out = append(out, stations[i])
		}
	}
	return out
}

// ScopeAppointments filters an appointment collection down to what the
// principal may see.
func ScopeAppointments(p Principal, appointments []models.Appointment) []models.Appointment {
	if p.IsAdmin() {
		return appointments
	}
	out := make([]models.Appointment, 0, len(appointments))
	for i := range appointments {
		if AppointmentVisible(p, &appointments[i]) {
			out = append(out, appointments[i])
		}
	}
	return out
}

// StationScopeQuery applies the station visibility rule as WHERE clauses, so
// list and guarded-lookup queries enforce the same rule as the pure filters.
func StationScopeQuery(q *bun.SelectQuery, p Principal) *bun.SelectQuery {
	switch p.Role {
	case models.RoleAdmin:
		return q
	case models.RoleStations:
		return q.Where("ss.owner_id = ?", p.ID)
	default:
		return q.Where("ss.is_active = TRUE")
	}
}

// AppointmentScopeQuery applies the appointment visibility rule. The stations
// role scopes by owning station via a subquery so callers stay free to join
// service_stations themselves.
func AppointmentScopeQuery(q *bun.SelectQuery, p Principal) *bun.SelectQuery {
	switch p.Role {
	case models.RoleAdmin:
		return q
	case models.RoleStations:
		return q.Where("apt.station_id IN (SELECT id FROM service_stations WHERE owner_id = ?)", p.ID)
	default:
		return q.Where("apt.user_id = ?", p.ID)
	}
}
