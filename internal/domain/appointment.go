package domain

import (
	"strings"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AnonymousUserID owner sentinel for bookings made without signing in
const AnonymousUserID = "anonymous"

// Appointment represents a booked slot in the barbershop
type Appointment struct {
	ID            string
	UserID        string // subject id or AnonymousUserID
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	ServiceName   string
	Date          string // YYYY-MM-DD, civil date in the business timezone
	Time          string // H:MM or HH:MM, civil time in the business timezone

	// StartsAtMs absolute start instant (epoch ms, UTC), computed once at creation.
	// Nil only for legacy rows created before the column existed.
	StartsAtMs *int64

	// DurationMinutes explicit override given at booking time (informational)
	DurationMinutes *int
	Status          AppointmentStatus
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsAnonymous returns true if the appointment was booked without an account
func (a *Appointment) IsAnonymous() bool {
	return a.UserID == AnonymousUserID
}

// IsOwnedBy reports whether the identity owns the appointment: by subject id,
// or by verified email when the appointment is anonymous.
func (a *Appointment) IsOwnedBy(id Identity) bool {
	if id.UserID != "" && id.UserID != AnonymousUserID && a.UserID == id.UserID {
		return true
	}
	if a.IsAnonymous() && id.EmailVerified && id.Email != "" {
		return strings.EqualFold(strings.TrimSpace(a.CustomerEmail), strings.TrimSpace(id.Email))
	}
	return false
}

// ValidStatuses statuses an administrator may set
var ValidStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
}

// ParseStatus validates a status string
func ParseStatus(s string) (AppointmentStatus, bool) {
	for _, st := range ValidStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}
