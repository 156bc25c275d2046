package domain

import "time"

// NotificationKind type of outbound message
type NotificationKind string

const (
	NotificationConfirmation NotificationKind = "confirmation"
	NotificationReminder     NotificationKind = "reminder"
	NotificationStatusUpdate NotificationKind = "status_update"
)

// NotificationOutcome result of a single send attempt
type NotificationOutcome string

const (
	OutcomeSent   NotificationOutcome = "sent"
	OutcomeFailed NotificationOutcome = "failed"
)

// NotificationLogEntry one row per attempted send; never mutated
type NotificationLogEntry struct {
	ID                int64
	AppointmentID     string
	Kind              NotificationKind
	Recipient         string
	Outcome           NotificationOutcome
	Error             *string
	ProviderMessageID *string
	CreatedAt         time.Time
}
