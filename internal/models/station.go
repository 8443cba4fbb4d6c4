package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ServiceStation is a bookable location owned by a single user with role
// "stations" (or created by an admin on an owner's behalf). Latitude and
// longitude are optional but always set or cleared together; a station
// without coordinates never appears in proximity results.
type ServiceStation struct {
	bun.BaseModel `bun:"table:service_stations,alias:ss"`

	ID        uuid.UUID  `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name      string     `json:"name"`
	OwnerID   uuid.UUID  `bun:"owner_id,type:uuid" json:"owner_id"`
	Address   string     `json:"address"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	IsActive  bool       `bun:",default:true" json:"is_active"`
	CreatedAt time.Time  `bun:",nullzero,default:now()" json:"created_at"`
	UpdatedAt time.Time  `bun:",nullzero,default:now()" json:"updated_at"`

	ServicesOffered []ServiceType `bun:"m2m:station_service_types,join:Station=ServiceType" json:"services_offered,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (s *ServiceStation) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// StationServiceType is the join row linking a station to an offered service type.
type StationServiceType struct {
	bun.BaseModel `bun:"table:station_service_types,alias:sst"`

	StationID     uuid.UUID       `bun:"station_id,pk,type:uuid" json:"station_id"`
	ServiceTypeID uuid.UUID       `bun:"service_type_id,pk,type:uuid" json:"service_type_id"`
	Station       *ServiceStation `bun:"rel:belongs-to,join:station_id=id" json:"-"`
	ServiceType   *ServiceType    `bun:"rel:belongs-to,join:service_type_id=id" json:"-"`
}

// StationService overrides a service type's catalog price and duration for one
// station. At most one row exists per (station, service type) pair.
type StationService struct {
	bun.BaseModel `bun:"table:station_services,alias:svc"`

	ID              uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	StationID       uuid.UUID `bun:"station_id,type:uuid,unique:station_service" json:"station_id"`
	ServiceTypeID   uuid.UUID `bun:"service_type_id,type:uuid,unique:station_service" json:"service_type_id"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	IsAvailable     bool      `bun:",default:true" json:"is_available"`
}
