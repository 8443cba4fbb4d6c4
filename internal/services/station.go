package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stationbook/internal/geo"
	model "stationbook/internal/models"
	"stationbook/internal/policy"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type StationService struct {
	db   *bun.DB
	logr *zap.Logger
}

func NewStationService(db *bun.DB, logr *zap.Logger) *StationService {
	return &StationService{db: db, logr: logr}
}

type StationInput struct {
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	IsActive  *bool      `json:"is_active"`
	OwnerID   *uuid.UUID `json:"owner_id"` // honored for admins only
}

// StationUpdate carries optional fields for a partial update.
type StationUpdate struct {
	Name      *string  `json:"name"`
	Address   *string  `json:"address"`
	Phone     *string  `json:"phone"`
	Email     *string  `json:"email"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsActive  *bool    `json:"is_active"`
}

func validateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return model.NewValidationError("location", "latitude and longitude must be set together")
	}
	if lat != nil {
		if !geo.Finite(*lat, *lng) || !geo.ValidCoordinates(*lat, *lng) {
			return model.NewValidationError("location", "coordinates out of range")
		}
	}
	return nil
}

// Create inserts a station owned by the principal. Admins may create a station
// on behalf of another owner; everyone else has the owner forced server-side.
func (s *StationService) Create(ctx context.Context, p policy.Principal, in StationInput) (*model.ServiceStation, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, model.NewValidationError("name", "name is required")
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	ownerID := p.ID
	if in.OwnerID != nil && p.IsAdmin() {
		exists, err := s.db.NewSelect().Model((*model.User)(nil)).Where("id = ?", *in.OwnerID).Exists(ctx)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, model.NewNotFoundError("user")
		}
		ownerID = *in.OwnerID
	}

	station := model.ServiceStation{
		Name:      in.Name,
		OwnerID:   ownerID,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		IsActive:  true,
	}
	if in.IsActive != nil {
		station.IsActive = *in.IsActive
	}

	if _, err := s.db.NewInsert().Model(&station).Exec(ctx); err != nil {
		return nil, err
	}

	s.logr.Info("station created", zap.String("id", station.ID.String()), zap.String("owner", ownerID.String()))
	return &station, nil
}

// scopedGet resolves an id against the principal's visible set. A station that
// exists but is out of scope yields the same NotFound as a missing one.
func (s *StationService) scopedGet(ctx context.Context, p policy.Principal, id uuid.UUID) (*model.ServiceStation, error) {
	var station model.ServiceStation
	q := s.db.NewSelect().Model(&station).Where("ss.id = ?", id)
	err := policy.StationScopeQuery(q, p).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("service station")
		}
		return nil, err
	}
	return &station, nil
}

func (s *StationService) Get(ctx context.Context, p policy.Principal, id uuid.UUID) (*model.ServiceStation, error) {
	return s.scopedGet(ctx, p, id)
}

// List returns the stations visible to the principal.
func (s *StationService) List(ctx context.Context, p policy.Principal) ([]model.ServiceStation, error) {
	var stations []model.ServiceStation
	q := s.db.NewSelect().Model(&stations).
		Relation("ServicesOffered").
		OrderExpr("ss.created_at ASC")
	err := policy.StationScopeQuery(q, p).Scan(ctx)
	return stations, err
}

func (s *StationService) Update(ctx context.Context, p policy.Principal, id uuid.UUID, in StationUpdate) (*model.ServiceStation, error) {
	station, err := s.scopedGet(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, model.NewValidationError("name", "name must not be empty")
		}
		station.Name = *in.Name
	}
	if in.Address != nil {
		station.Address = *in.Address
	}
	if in.Phone != nil {
		station.Phone = *in.Phone
	}
	if in.Email != nil {
		station.Email = *in.Email
	}
	if in.IsActive != nil {
		station.IsActive = *in.IsActive
	}
	if in.Latitude != nil || in.Longitude != nil {
		if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
			return nil, err
		}
		station.Latitude = in.Latitude
		station.Longitude = in.Longitude
	}

	_, err = s.db.NewUpdate().Model(station).
		Column("name", "address", "phone", "email", "is_active", "latitude", "longitude").
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return station, nil
}

func (s *StationService) Delete(ctx context.Context, p policy.Principal, id uuid.UUID) error {
	if _, err := s.scopedGet(ctx, p, id); err != nil {
		return err
	}
	_, err := s.db.NewDelete().Model((*model.ServiceStation)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

// Nearby returns active, geolocated stations within radiusKm of the query
// point, nearest first. The candidate scan is a plain read over all active
// stations with known coordinates; there is no spatial index.
func (s *StationService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]geo.StationDistance, error) {
	if !geo.Finite(lat, lng, radiusKm) {
		return nil, fmt.Errorf("coordinates and radius must be finite: %w", model.ErrInvalidArgument)
	}
	if !geo.ValidCoordinates(lat, lng) {
		return nil, fmt.Errorf("coordinates out of range: %w", model.ErrInvalidArgument)
	}

	var candidates []model.ServiceStation
	err := s.db.NewSelect().Model(&candidates).
		Where("ss.is_active = TRUE").
		Where("ss.latitude IS NOT NULL").
		Where("ss.longitude IS NOT NULL").
		OrderExpr("ss.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return geo.NearbyStations(lat, lng, radiusKm, candidates), nil
}

// AttachServiceType marks a service type as offered by the station.
func (s *StationService) AttachServiceType(ctx context.Context, p policy.Principal, stationID, serviceTypeID uuid.UUID) error {
	if _, err := s.scopedGet(ctx, p, stationID); err != nil {
		return err
	}
	exists, err := s.db.NewSelect().Model((*model.ServiceType)(nil)).Where("id = ?", serviceTypeID).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return model.NewNotFoundError("service type")
	}

	link := model.StationServiceType{StationID: stationID, ServiceTypeID: serviceTypeID}
	_, err = s.db.NewInsert().Model(&link).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// DetachServiceType removes a service type from the station's offering.
func (s *StationService) DetachServiceType(ctx context.Context, p policy.Principal, stationID, serviceTypeID uuid.UUID) error {
	if _, err := s.scopedGet(ctx, p, stationID); err != nil {
		return err
	}
	_, err := s.db.NewDelete().Model((*model.StationServiceType)(nil)).
		Where("station_id = ? AND service_type_id = ?", stationID, serviceTypeID).
		Exec(ctx)
	return err
}

type StationServiceInput struct {
	ServiceTypeID   uuid.UUID `json:"service_type_id"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	IsAvailable     *bool     `json:"is_available"`
}

// UpsertStationService sets a station's price/duration override for a service
// type, keeping at most one row per (station, service type) pair.
func (s *StationService) UpsertStationService(ctx context.Context, p policy.Principal, stationID uuid.UUID, in StationServiceInput) (*model.StationService, error) {
	if in.Price < 0 {
		return nil, model.NewValidationError("price", "price must not be negative")
	}
	if in.DurationMinutes <= 0 {
		return nil, model.NewValidationError("duration_minutes", "duration must be positive")
	}
	if _, err := s.scopedGet(ctx, p, stationID); err != nil {
		return nil, err
	}
	exists, err := s.db.NewSelect().Model((*model.ServiceType)(nil)).Where("id = ?", in.ServiceTypeID).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.NewNotFoundError("service type")
	}

	svc := model.StationService{
		StationID:       stationID,
		ServiceTypeID:   in.ServiceTypeID,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		IsAvailable:     true,
	}
	if in.IsAvailable != nil {
		svc.IsAvailable = *in.IsAvailable
	}

	_, err = s.db.NewInsert().Model(&svc).
		On("CONFLICT (station_id, service_type_id) DO UPDATE").
		Set("price = EXCLUDED.price").
		Set("duration_minutes = EXCLUDED.duration_minutes").
		Set("is_available = EXCLUDED.is_available").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return &svc, nil
}
