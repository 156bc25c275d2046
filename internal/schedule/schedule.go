// Package schedule describes when the barbershop is open.
package schedule

import (
	"time"

	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/pkg/types"
)

// Interval half-open range of minutes since local midnight: [Start, End)
type Interval struct {
	Start int
	End   int
}

// FullDay whole civil day
var FullDay = Interval{Start: 0, End: types.MinutesPerDay}

// Overlaps reports whether two half-open intervals share at least one minute
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Contains reports whether other lies entirely inside i
func (i Interval) Contains(other Interval) bool {
	return other.Start >= i.Start && other.End <= i.End
}

// Week open periods indexed by time.Weekday (Sunday = 0)
type Week [7][]Interval

// DefaultWeek opening hours of the shop
var DefaultWeek = Week{
	time.Sunday:    nil,
	time.Monday:    {{Start: 9 * 60, End: 11*60 + 45}, {Start: 13 * 60, End: 17 * 60}},
	time.Tuesday:   {{Start: 9 * 60, End: 11*60 + 45}, {Start: 13 * 60, End: 17 * 60}},
	time.Wednesday: {{Start: 9 * 60, End: 11*60 + 45}, {Start: 13 * 60, End: 17 * 60}},
	time.Thursday:  {{Start: 13 * 60, End: 19*60 + 30}},
	time.Friday:    {{Start: 9 * 60, End: 11*60 + 45}, {Start: 13 * 60, End: 17 * 60}},
	time.Saturday:  nil,
}

// Hours weekly opening hours
type Hours struct {
	week Week
}

// NewHours wraps a weekly schedule
func NewHours(week Week) *Hours {
	return &Hours{week: week}
}

// Default hours of the shop
func Default() *Hours {
	return NewHours(DefaultWeek)
}

// Periods open periods of a weekday, nil when closed or out of range
func (h *Hours) Periods(weekday int) []Interval {
	if weekday < 0 || weekday >= len(h.week) {
		return nil
	}
	return h.week[weekday]
}

// IsOpen reports whether the shop has any period on the weekday
func (h *Hours) IsOpen(weekday int) bool {
	return len(h.Periods(weekday)) > 0
}

// IsWithinWorkingHours true iff [startMin, endMin) fits inside a single open period.
// An appointment may not straddle the midday closure or run past closing.
func (h *Hours) IsWithinWorkingHours(weekday, startMin, endMin int) bool {
	slot := Interval{Start: startMin, End: endMin}
	for _, p := range h.Periods(weekday) {
		if p.Contains(slot) {
			return true
		}
	}
	return false
}

// VacationIntervalsForDate blackout intervals of every vacation covering date.
// Records without times block the whole day. Records with unparseable times
// are returned in skipped so the caller can log them. Overlapping records are
// not merged.
func VacationIntervalsForDate(date string, vacations []*domain.Vacation) (intervals []Interval, skipped []*domain.Vacation) {
	for _, v := range vacations {
		if v == nil || !v.Covers(date) {
			continue
		}
		if v.IsFullDay() {
			intervals = append(intervals, FullDay)
			continue
		}

		start, err := types.ParseMinutes(*v.StartTime)
		if err != nil {
			skipped = append(skipped, v)
			continue
		}
		end, err := types.ParseMinutes(*v.EndTime)
		if err != nil {
			skipped = append(skipped, v)
			continue
		}
		intervals = append(intervals, Interval{Start: start, End: end})
	}
	return intervals, skipped
}
