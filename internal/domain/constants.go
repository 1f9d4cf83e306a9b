package domain

// Slot engine constants
const (
	SlotStepMinutes       = 30 // candidate start granularity
	MinBookingLeadMinutes = 60 // same-day bookings need at least this much notice
	FallbackCapacity      = 1  // used when no default capacity is configured
)

// Validation limits
const (
	MinServiceDurationMinutes = 1
	MaxServiceDurationMinutes = 480
	MaxServicesPerAppointment = 10
	MaxNotesLength            = 1000
	MaxNameLength             = 120
	MaxReasonLength           = 500
	MinAppointmentsPerHour    = 1
	MinStaffCount             = 1
	DefaultListLimit          = 50
	MaxListLimit              = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
