package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	model "stationbook/internal/models"
	"stationbook/internal/policy"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type AppointmentService struct {
	db   *bun.DB
	logr *zap.Logger
}

func NewAppointmentService(db *bun.DB, logr *zap.Logger) *AppointmentService {
	return &AppointmentService{db: db, logr: logr}
}

// AppointmentView is the read shape: the record plus display names joined in
// for convenience.
type AppointmentView struct {
	ID            uuid.UUID               `bun:"id" json:"id"`
	UserID        uuid.UUID               `bun:"user_id" json:"user_id"`
	StationID     uuid.UUID               `bun:"station_id" json:"station_id"`
	ServiceTypeID uuid.UUID               `bun:"service_type_id" json:"service_type_id"`
	Date          time.Time               `bun:"appointment_date" json:"appointment_date"`
	Time          string                  `bun:"appointment_time" json:"appointment_time"`
	Status        model.AppointmentStatus `bun:"status" json:"status"`
	Notes         string                  `bun:"notes" json:"notes"`
	CreatedAt     time.Time               `bun:"created_at" json:"created_at"`
	UpdatedAt     time.Time               `bun:"updated_at" json:"updated_at"`

	StationName     string `bun:"station_name" json:"station_name"`
	ServiceTypeName string `bun:"service_type_name" json:"service_type_name"`
	UserName        string `bun:"user_name" json:"user_name"`
}

type AppointmentInput struct {
	UserID        *uuid.UUID `json:"user_id"` // honored for admins only
	StationID     uuid.UUID  `json:"station_id"`
	ServiceTypeID uuid.UUID  `json:"service_type_id"`
	Date          string     `json:"appointment_date"` // YYYY-MM-DD
	Time          string     `json:"appointment_time"` // HH:MM
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
}

// AppointmentUpdate carries optional fields for a partial update. Each present
// field is validated independently before any of them is applied.
type AppointmentUpdate struct {
	StationID     *uuid.UUID `json:"station_id"`
	ServiceTypeID *uuid.UUID `json:"service_type_id"`
	Date          *string    `json:"appointment_date"`
	Time          *string    `json:"appointment_time"`
	Status        *string    `json:"status"`
	Notes         *string    `json:"notes"`
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, model.NewValidationError("appointment_date", "invalid date, expected YYYY-MM-DD")
	}
	return d, nil
}

func parseTimeOfDay(s string) (string, error) {
	if _, err := time.Parse(timeLayout, s); err != nil {
		if _, err := time.Parse("15:04:05", s); err != nil {
			return "", model.NewValidationError("appointment_time", "invalid time, expected HH:MM")
		}
	}
	return s, nil
}

func invalidStatusError() error {
	allowed := make([]string, 0, len(model.AppointmentStatuses()))
	for _, s := range model.AppointmentStatuses() {
		allowed = append(allowed, string(s))
	}
	return model.NewValidationError("status", "invalid status, must be one of: "+strings.Join(allowed, ", "))
}

// Create books an appointment. Validation short-circuits in a fixed order:
// status vocabulary, station existence, service type existence, customer
// existence, then the no-past-date rule. The persisted record always starts
// in pending regardless of the supplied status; a bogus status is still
// rejected up front.
func (s *AppointmentService) Create(ctx context.Context, p policy.Principal, in AppointmentInput) (*model.Appointment, error) {
	if in.Status != "" && !model.AppointmentStatus(in.Status).Valid() {
		return nil, invalidStatusError()
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	timeOfDay, err := parseTimeOfDay(in.Time)
	if err != nil {
		return nil, err
	}

	customerID := p.ID
	if in.UserID != nil && p.IsAdmin() {
		customerID = *in.UserID
	}

	var apt *model.Appointment
	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*model.ServiceStation)(nil)).Where("id = ?", in.StationID).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return model.NewNotFoundError("service station")
		}

		exists, err = tx.NewSelect().Model((*model.ServiceType)(nil)).Where("id = ?", in.ServiceTypeID).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return model.NewNotFoundError("service type")
		}

		exists, err = tx.NewSelect().Model((*model.User)(nil)).Where("id = ?", customerID).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return model.NewNotFoundError("user")
		}

		today := time.Now().UTC().Truncate(24 * time.Hour)
		if date.Before(today) {
			return model.NewValidationError("appointment_date", "appointment date cannot be in the past")
		}

		apt = &model.Appointment{
			UserID:        customerID,
			StationID:     in.StationID,
			ServiceTypeID: in.ServiceTypeID,
			Date:          date,
			Time:          timeOfDay,
			Status:        model.StatusPending,
			Notes:         in.Notes,
		}
		_, err = tx.NewInsert().Model(apt).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logr.Info("appointment created",
		zap.String("id", apt.ID.String()),
		zap.String("station_id", in.StationID.String()),
		zap.String("user_id", customerID.String()))
	return apt, nil
}

// scopedGet resolves an appointment id within the principal's visibility
// scope; out-of-scope and nonexistent ids fail identically.
func (s *AppointmentService) scopedGet(ctx context.Context, db bun.IDB, p policy.Principal, id uuid.UUID) (*model.Appointment, error) {
	var apt model.Appointment
	q := db.NewSelect().Model(&apt).Where("apt.id = ?", id)
	err := policy.AppointmentScopeQuery(q, p).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("appointment")
		}
		return nil, err
	}
	return &apt, nil
}

func (s *AppointmentService) viewQuery(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		Model((*model.Appointment)(nil)).
		ColumnExpr("apt.*").
		ColumnExpr("ss.name AS station_name").
		ColumnExpr("st.name AS service_type_name").
		ColumnExpr("u.username AS user_name").
		Join("JOIN service_stations AS ss ON ss.id = apt.station_id").
		Join("JOIN service_types AS st ON st.id = apt.service_type_id").
		Join("JOIN users AS u ON u.id = apt.user_id")
}

// Get returns one appointment with display names, within scope.
func (s *AppointmentService) Get(ctx context.Context, p policy.Principal, id uuid.UUID) (*AppointmentView, error) {
	var view AppointmentView
	q := s.viewQuery(s.db).Where("apt.id = ?", id)
	err := policy.AppointmentScopeQuery(q, p).Scan(ctx, &view)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("appointment")
		}
		return nil, err
	}
	return &view, nil
}

// List returns the appointments visible to the principal, optionally filtered
// to a status subset.
func (s *AppointmentService) List(ctx context.Context, p policy.Principal, statuses []string) ([]AppointmentView, error) {
	for _, st := range statuses {
		if !model.AppointmentStatus(st).Valid() {
			return nil, invalidStatusError()
		}
	}

	var views []AppointmentView
	q := s.viewQuery(s.db)
	if len(statuses) > 0 {
		q = q.Where("apt.status IN (?)", bun.In(statuses))
	}
	q = q.OrderExpr("apt.appointment_date ASC, apt.appointment_time ASC")
	err := policy.AppointmentScopeQuery(q, p).Scan(ctx, &views)
	return views, err
}

// ListForUser returns appointments booked by one customer, within scope.
func (s *AppointmentService) ListForUser(ctx context.Context, p policy.Principal, userID uuid.UUID) ([]AppointmentView, error) {
	var views []AppointmentView
	q := s.viewQuery(s.db).Where("apt.user_id = ?", userID)
	err := policy.AppointmentScopeQuery(q, p).Scan(ctx, &views)
	return views, err
}

// ListForStation returns appointments at one station, within scope.
func (s *AppointmentService) ListForStation(ctx context.Context, p policy.Principal, stationID uuid.UUID) ([]AppointmentView, error) {
	var views []AppointmentView
	q := s.viewQuery(s.db).Where("apt.station_id = ?", stationID)
	err := policy.AppointmentScopeQuery(q, p).Scan(ctx, &views)
	return views, err
}

// Update applies a partial field set. Present fields are validated with the
// same rules as create; absent fields stay untouched. The id must resolve
// inside the caller's scope.
func (s *AppointmentService) Update(ctx context.Context, p policy.Principal, id uuid.UUID, in AppointmentUpdate) (*model.Appointment, error) {
	var apt *model.Appointment
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		apt, err = s.scopedGet(ctx, tx, p, id)
		if err != nil {
			return err
		}

		if in.Status != nil {
			if !model.AppointmentStatus(*in.Status).Valid() {
				return invalidStatusError()
			}
			apt.Status = model.AppointmentStatus(*in.Status)
		}
		if in.StationID != nil {
			exists, err := tx.NewSelect().Model((*model.ServiceStation)(nil)).Where("id = ?", *in.StationID).Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return model.NewNotFoundError("service station")
			}
			apt.StationID = *in.StationID
		}
		if in.ServiceTypeID != nil {
			exists, err := tx.NewSelect().Model((*model.ServiceType)(nil)).Where("id = ?", *in.ServiceTypeID).Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return model.NewNotFoundError("service type")
			}
			apt.ServiceTypeID = *in.ServiceTypeID
		}
		if in.Date != nil {
			date, err := parseDate(*in.Date)
			if err != nil {
				return err
			}
			apt.Date = date
		}
		if in.Time != nil {
			timeOfDay, err := parseTimeOfDay(*in.Time)
			if err != nil {
				return err
			}
			apt.Time = timeOfDay
		}
		if in.Notes != nil {
			apt.Notes = *in.Notes
		}

		_, err = tx.NewUpdate().Model(apt).
			Column("station_id", "service_type_id", "appointment_date", "appointment_time", "status", "notes").
			Set("updated_at = now()").
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return apt, nil
}

// Delete removes an appointment that resolves within scope. Hard delete;
// nothing references an appointment as a parent.
func (s *AppointmentService) Delete(ctx context.Context, p policy.Principal, id uuid.UUID) error {
	if _, err := s.scopedGet(ctx, s.db, p, id); err != nil {
		return err
	}
	res, err := s.db.NewDelete().Model((*model.Appointment)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.NewNotFoundError("appointment")
	}
	return nil
}
