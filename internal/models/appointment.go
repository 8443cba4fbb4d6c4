package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AppointmentStatus is the closed status vocabulary for appointments.
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

var appointmentStatuses = []AppointmentStatus{
	StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled,
}

func (s AppointmentStatus) Valid() bool {
	for _, v := range appointmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// AppointmentStatuses returns the allowed status values, used in error messages.
func AppointmentStatuses() []AppointmentStatus {
	return appointmentStatuses
}

// Appointment joins a customer, a station and a service type at a date/time.
// It is a standalone join record: deleting it cascades nowhere.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments,alias:apt"`

	ID            uuid.UUID         `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID         `bun:"user_id,type:uuid" json:"user_id"`
	StationID     uuid.UUID         `bun:"station_id,type:uuid" json:"station_id"`
	ServiceTypeID uuid.UUID         `bun:"service_type_id,type:uuid" json:"service_type_id"`
	Date          time.Time         `bun:"appointment_date,type:date" json:"appointment_date"`
	Time          string            `bun:"appointment_time,type:time" json:"appointment_time"`
	Status        AppointmentStatus `json:"status"`
	Notes         string            `json:"notes"`
	CreatedAt     time.Time         `bun:",nullzero,default:now()" json:"created_at"`
	UpdatedAt     time.Time         `bun:",nullzero,default:now()" json:"updated_at"`

	Station     *ServiceStation `bun:"rel:belongs-to,join:station_id=id" json:"-"`
	ServiceType *ServiceType    `bun:"rel:belongs-to,join:service_type_id=id" json:"-"`
	User        *User           `bun:"rel:belongs-to,join:user_id=id" json:"-"`
}
