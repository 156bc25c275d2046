package domain

import "time"

// Booking policy
const (
	// MinLeadMinutes same-day bookings must start at least this far ahead
	MinLeadMinutes = 120
	// GraceMinutes guard against booking the current minute
	GraceMinutes = 1
	// BookingHorizonMonths how many calendar months ahead a date may be booked
	BookingHorizonMonths = 1
	// SlotStepMinutes grid of the available-slots listing
	SlotStepMinutes = 15

	// CancellationWindow online cancellation closes this long before the start
	CancellationWindow = 24 * time.Hour
	// RetentionAge appointments are purged this long after their start
	RetentionAge = 24 * time.Hour
	// ReminderLead reminder email is sent this long before the start
	ReminderLead = 24 * time.Hour
)

// Identity linking limits
const (
	DefaultLinkBatch = 50
	MaxLinkBatch     = 200
)

// Business validation constants
const (
	MaxNotesLength        = 500
	MaxCustomerNameLength = 100
	MaxServiceNameLength  = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultTimezone IANA zone the barbershop operates in
const DefaultTimezone = "Europe/Prague"
