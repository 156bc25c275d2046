package domain

import "github.com/m04kA/barbershop-booking/pkg/types"

// AvailableSlot represents a start time that would pass every booking check
type AvailableSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}
