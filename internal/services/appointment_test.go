package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"

	model "stationbook/internal/models"
	"stationbook/internal/policy"
)

func setupServiceTest(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := bun.NewDB(mockDB, pgdialect.New())
	db.RegisterModel((*model.StationServiceType)(nil))
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func existsRow(exists bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
}

func customerPrincipal() policy.Principal {
	return policy.Principal{ID: uuid.New(), Role: model.RoleUser}
}

func TestAppointmentCreateRejectsBogusStatus(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewAppointmentService(db, zap.NewNop())

	_, err := svc.Create(context.Background(), customerPrincipal(), AppointmentInput{
		StationID:     uuid.New(),
		ServiceTypeID: uuid.New(),
		Date:          time.Now().UTC().Format("2006-01-02"),
		Time:          "10:00",
		Status:        "bogus",
	})

	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
	// the vocabulary check short-circuits before any store access
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreateRejectsPastDate(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewAppointmentService(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(existsRow(true))
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(existsRow(true))
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(existsRow(true))
	mock.ExpectRollback()

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	_, err := svc.Create(context.Background(), customerPrincipal(), AppointmentInput{
		StationID:     uuid.New(),
		ServiceTypeID: uuid.New(),
		Date:          yesterday,
		Time:          "10:00",
	})

	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
	assert.Contains(t, err.Error(), "past")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreateAcceptsToday(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewAppointmentService(db, zap.NewNop())

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(existsRow(true))
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(existsRow(true))
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(existsRow(true))
	mock.ExpectQuery(`INSERT INTO "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(uuid.New(), now, now))
	mock.ExpectCommit()

	apt, err := svc.Create(context.Background(), customerPrincipal(), AppointmentInput{
		StationID:     uuid.New(),
		ServiceTypeID: uuid.New(),
		Date:          now.Format("2006-01-02"),
		Time:          "10:00",
		Status:        "confirmed",
	})

	require.NoError(t, err)
	require.NotNil(t, apt)
	// create always starts pending, whatever status the caller supplied
	assert.Equal(t, model.StatusPending, apt.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreateValidationOrder(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewAppointmentService(db, zap.NewNop())

	// the station check runs first; its failure must win
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(existsRow(false))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), customerPrincipal(), AppointmentInput{
		StationID:     uuid.New(),
		ServiceTypeID: uuid.New(),
		Date:          time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02"),
		Time:          "10:00",
	})

	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
	assert.Equal(t, "service station not found", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func appointmentRow(id, userID uuid.UUID) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "user_id", "station_id", "service_type_id",
		"appointment_date", "appointment_time", "status", "notes",
		"created_at", "updated_at",
	}).AddRow(id, userID, uuid.New(), uuid.New(), now, "10:00", "pending", "", now, now)
}

func TestAppointmentUpdateRejectsBogusStatus(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewAppointmentService(db, zap.NewNop())

	p := customerPrincipal()
	aptID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).WillReturnRows(appointmentRow(aptID, p.ID))
	mock.ExpectRollback()

	bogus := "bogus"
	_, err := svc.Update(context.Background(), p, aptID, AppointmentUpdate{Status: &bogus})

	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentUpdateOutOfScopeIsNotFound(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewAppointmentService(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	status := "confirmed"
	_, err := svc.Update(context.Background(), customerPrincipal(), uuid.New(), AppointmentUpdate{Status: &status})

	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentDeleteOutOfScopeIsNotFound(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewAppointmentService(db, zap.NewNop())

	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).WillReturnError(sql.ErrNoRows)

	err := svc.Delete(context.Background(), customerPrincipal(), uuid.New())

	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentListRejectsBogusStatusFilter(t *testing.T) {
	db, mock := setupServiceTest(t)
	svc := NewAppointmentService(db, zap.NewNop())

	_, err := svc.List(context.Background(), customerPrincipal(), []string{"pending", "bogus"})

	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
