package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// ActiveStatuses consume salon capacity
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// IsValid reports whether s is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the status blocks capacity
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusInProgress
}

// Appointment is a booked grooming visit
type Appointment struct {
	ID                   uuid.UUID
	PetID                uuid.UUID
	UserID               *uuid.UUID // owner of the pet; nil for walk-in pets created by staff
	ScheduledDate        time.Time
	ScheduledTime        types.TimeString
	EndTime              types.TimeString
	TotalDurationMinutes int
	TotalPrice           float64
	Status               AppointmentStatus
	Notes                *string

	Services []AppointmentService
	Pet      *Pet
	Profile  *Profile

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppointmentService is a service line of an appointment in booking order
type AppointmentService struct {
	ServiceID       uuid.UUID
	Position        int
	Name            string
	DurationMinutes int
	Price           float64
}

// IsActive returns true if the appointment still consumes capacity
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// CanBeCancelled returns true if the owner may still cancel
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Overlaps reports whether the appointment interval intersects [start, start+durationMinutes).
// Touching intervals do not overlap.
func (a *Appointment) Overlaps(start types.TimeString, durationMinutes int) bool {
	aStart := a.ScheduledTime.Minutes()
	aEnd := aStart + a.TotalDurationMinutes
	bStart := start.Minutes()
	bEnd := bStart + durationMinutes
	return aStart < bEnd && bStart < aEnd
}

// AppointmentFilter фильтр выборки записей
type AppointmentFilter struct {
	UserID     *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Status     *AppointmentStatus
	OnlyActive bool
	ExcludeID  *uuid.UUID
	Limit      int
}

// IsSingleDay reports whether the filter targets exactly one date
func (f AppointmentFilter) IsSingleDay() bool {
	return f.DateFrom != nil && f.DateTo != nil && f.DateFrom.Equal(*f.DateTo)
}
