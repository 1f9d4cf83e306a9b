package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// BusinessHours is the opening window of one weekday (0 = Sunday).
type BusinessHours struct {
	ID        uuid.UUID
	DayOfWeek int
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsClosed  bool
	UpdatedAt time.Time
}

// IsOpen reports whether the salon takes appointments on this day.
func (h *BusinessHours) IsOpen() bool {
	return h != nil && !h.IsClosed && h.OpenTime.IsBefore(h.CloseTime)
}

// BlockedTime is an ad hoc closure on a specific date.
type BlockedTime struct {
	ID        uuid.UUID
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Reason    *string
	CreatedAt time.Time
}

// Covers reports whether clock lies in [StartTime, EndTime).
func (b *BlockedTime) Covers(clock types.TimeString) bool {
	return !clock.IsBefore(b.StartTime) && clock.IsBefore(b.EndTime)
}

// StaffSchedule overrides capacity for a time window on a weekday.
type StaffSchedule struct {
	ID                  uuid.UUID
	DayOfWeek           int
	StartTime           types.TimeString
	EndTime             types.TimeString
	StaffCount          int
	AppointmentsPerHour int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Contains reports whether clock lies in [StartTime, EndTime).
func (s *StaffSchedule) Contains(clock types.TimeString) bool {
	return !clock.IsBefore(s.StartTime) && clock.IsBefore(s.EndTime)
}

// Overlaps reports whether two windows of the same weekday intersect.
func (s *StaffSchedule) Overlaps(other *StaffSchedule) bool {
	return s.DayOfWeek == other.DayOfWeek &&
		s.StartTime.IsBefore(other.EndTime) &&
		other.StartTime.IsBefore(s.EndTime)
}

// DefaultCapacity is the salon-wide concurrency used outside staff windows.
type DefaultCapacity struct {
	ID                  uuid.UUID
	AppointmentsPerHour int
	UpdatedAt           time.Time
}

// IsValidDayOfWeek checks the 0..6 range (Sunday = 0).
func IsValidDayOfWeek(day int) bool {
	return day >= 0 && day <= 6
}
