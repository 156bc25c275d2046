// Package booking decides whether a proposed appointment slot is legal.
//
// Checks run in a fixed order and the first failing one wins:
//
//  1. time format
//  2. booking horizon
//  3. past / minimum lead time
//  4. duration (explicit override or the catalog)
//  5. working hours
//  6. vacations
//  7. existing appointments
//
// Steps 1-5 need no storage and are done by PreCheck. Steps 6 and 7 take the
// records of the requested date, which the caller loads.
package booking

import (
	"fmt"

	"github.com/m04kA/barbershop-booking/internal/calendar"
	"github.com/m04kA/barbershop-booking/internal/catalog"
	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/internal/schedule"
	"github.com/m04kA/barbershop-booking/pkg/types"
)

// Proposal requested slot
type Proposal struct {
	Date             string
	Time             string
	Service          string
	DurationOverride *int
}

// Slot proposal that passed PreCheck
type Slot struct {
	Date            string
	Interval        schedule.Interval
	DurationMinutes int
	StartsAtMs      int64
}

// Checker pure slot validation
type Checker struct {
	cal   *calendar.Calendar
	hours *schedule.Hours
}

// NewChecker creates a checker bound to a calendar and opening hours
func NewChecker(cal *calendar.Calendar, hours *schedule.Hours) *Checker {
	return &Checker{cal: cal, hours: hours}
}

// Calendar used by the checker
func (c *Checker) Calendar() *calendar.Calendar {
	return c.cal
}

// Hours used by the checker
func (c *Checker) Hours() *schedule.Hours {
	return c.hours
}

// PreCheck runs steps 1-5
func (c *Checker) PreCheck(p Proposal) (Slot, error) {
	start, err := types.ParseMinutes(p.Time)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, p.Time)
	}
	if _, err := calendar.ParseDate(p.Date); err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, p.Date)
	}

	// Past dates are left to the next check so they get the more precise message
	if c.cal.BeyondHorizon(p.Date) {
		return Slot{}, ErrTooFarInAdvance
	}

	now := c.cal.Now()
	if p.Date < now.Date {
		return Slot{}, ErrInPast
	}
	if p.Date == now.Date {
		if start < now.Minutes+domain.GraceMinutes {
			return Slot{}, ErrInPast
		}
		if start < now.Minutes+domain.MinLeadMinutes {
			return Slot{}, ErrTooSoon
		}
	}

	duration := catalog.Duration(p.Service)
	if p.DurationOverride != nil {
		if *p.DurationOverride < 0 {
			return Slot{}, fmt.Errorf("%w: negative duration", ErrInvalidInput)
		}
		duration = *p.DurationOverride
	}

	interval := schedule.Interval{Start: start, End: start + duration}
	if !c.hours.IsWithinWorkingHours(c.cal.WeekdayIndex(p.Date), interval.Start, interval.End) {
		return Slot{}, ErrOutsideWorkingHours
	}

	startsAt, err := c.cal.LocalToUTC(p.Date, p.Time)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return Slot{
		Date:            p.Date,
		Interval:        interval,
		DurationMinutes: duration,
		StartsAtMs:      startsAt,
	}, nil
}

// CheckVacations step 6. Vacations with unparseable times are returned so the
// caller can log them; they never block a slot.
func (c *Checker) CheckVacations(slot Slot, vacations []*domain.Vacation) ([]*domain.Vacation, error) {
	intervals, skipped := schedule.VacationIntervalsForDate(slot.Date, vacations)
	for _, v := range intervals {
		if schedule.Overlaps(v, slot.Interval) {
			return skipped, ErrVacationConflict
		}
	}
	return skipped, nil
}

// CheckConflicts step 7. Durations of existing appointments are always derived
// from their service name; stored overrides are ignored.
func (c *Checker) CheckConflicts(slot Slot, existing []*domain.Appointment) error {
	for _, a := range existing {
		if a == nil || !a.IsActive() || a.Date != slot.Date {
			continue
		}
		interval, ok := AppointmentInterval(a)
		if !ok {
			continue
		}
		if schedule.Overlaps(interval, slot.Interval) {
			return fmt.Errorf("%w: conflicts with appointment id=%s", ErrSlotTaken, a.ID)
		}
	}
	return nil
}

// AppointmentInterval occupied minutes of an existing appointment
func AppointmentInterval(a *domain.Appointment) (schedule.Interval, bool) {
	start, err := types.ParseMinutes(a.Time)
	if err != nil {
		return schedule.Interval{}, false
	}
	return schedule.Interval{Start: start, End: start + catalog.Duration(a.ServiceName)}, true
}
