package domain

import "time"

// Vacation blackout period; no appointment may be scheduled inside it.
// Without StartTime/EndTime every covered date is blocked entirely.
type Vacation struct {
	ID        int64
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
	StartTime *string
	EndTime   *string
	Note      *string
	CreatedAt time.Time
}

// IsFullDay returns true if the vacation has no explicit time range
func (v *Vacation) IsFullDay() bool {
	return v.StartTime == nil || v.EndTime == nil
}

// Covers reports whether the civil date lies within [StartDate, EndDate].
// ISO dates compare correctly as strings.
func (v *Vacation) Covers(date string) bool {
	return v.StartDate <= date && date <= v.EndDate
}
