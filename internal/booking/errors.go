package booking

import "errors"

var (
	// ErrInvalidInput missing or malformed request fields
	ErrInvalidInput = errors.New("booking: invalid input")

	// ErrInvalidTimeFormat time is not H:MM or HH:MM
	ErrInvalidTimeFormat = errors.New("booking: invalid time format")

	// ErrInvalidDateFormat date is not a real YYYY-MM-DD date
	ErrInvalidDateFormat = errors.New("booking: invalid date format")

	// ErrTooFarInAdvance date is beyond the booking horizon
	ErrTooFarInAdvance = errors.New("booking: too far in advance")

	// ErrInPast date or time already passed
	ErrInPast = errors.New("booking: must be in the future")

	// ErrTooSoon same-day slot inside the minimum lead time
	ErrTooSoon = errors.New("booking: must be booked at least 2 hours in advance")

	// ErrOutsideWorkingHours interval not contained in a single open period
	ErrOutsideWorkingHours = errors.New("booking: outside working hours")

	// ErrVacationConflict interval overlaps a vacation blackout
	ErrVacationConflict = errors.New("booking: during vacation")

	// ErrSlotTaken interval overlaps an existing non-cancelled appointment
	ErrSlotTaken = errors.New("booking: appointment already exists at this time")
)

var messages = []struct {
	err    error
	reason string
	text   string
}{
	{ErrInvalidTimeFormat, "invalid_time", "Neplatný formát času."},
	{ErrInvalidDateFormat, "invalid_date", "Neplatný formát data."},
	{ErrInvalidInput, "invalid_input", "Vyplňte prosím všechny povinné údaje."},
	{ErrTooFarInAdvance, "too_far_in_advance", "Rezervovat lze nejvýše jeden měsíc dopředu."},
	{ErrInPast, "in_past", "Termín musí být v budoucnosti."},
	{ErrTooSoon, "too_soon", "Rezervaci je nutné provést alespoň 2 hodiny předem."},
	{ErrOutsideWorkingHours, "outside_working_hours", "Vybraný čas je mimo otevírací dobu."},
	{ErrVacationConflict, "vacation", "V tomto termínu máme dovolenou."},
	{ErrSlotTaken, "slot_taken", "V tomto čase již existuje jiná rezervace."},
}

// Message user-facing text for a rejection, empty for unknown errors
func Message(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.text
		}
	}
	return ""
}

// Reason short machine-readable rejection label, "other" for unknown errors
func Reason(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.reason
		}
	}
	return "other"
}

// IsRejection reports whether err is one of the scheduling rejections
func IsRejection(err error) bool {
	return Reason(err) != "other"
}
