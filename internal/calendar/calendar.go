// Package calendar projects instants into the barbershop's civil timezone and
// back. All booking rules compare civil dates and minutes of day; absolute
// instants are only used for lead times, cancellation windows and retention.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/pkg/types"
)

// ErrInvalidDate returned for anything that is not a real YYYY-MM-DD date
var ErrInvalidDate = errors.New("calendar: invalid date")

// Clock source of the current instant
type Clock interface {
	Now() time.Time
}

// RealClock wall clock
type RealClock struct{}

// Now returns time.Now()
func (RealClock) Now() time.Time {
	return time.Now()
}

// Logger receives degraded-mode warnings
type Logger interface {
	Warn(format string, v ...interface{})
}

// CivilNow current instant as seen on the barbershop's wall clock
type CivilNow struct {
	Date    string // YYYY-MM-DD
	Minutes int    // minutes since local midnight
}

// Calendar civil-time helpers bound to one IANA timezone
type Calendar struct {
	loc      *time.Location
	degraded bool
	clock    Clock
	logger   Logger
}

// New loads the timezone by name. When the zone cannot be loaded the calendar
// falls back to the system local zone and keeps warning about it.
func New(timezone string, clock Clock, logger Logger) *Calendar {
	if clock == nil {
		clock = RealClock{}
	}
	c := &Calendar{clock: clock, logger: logger}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		c.loc = time.Local
		c.degraded = true
		c.warn("Calendar: failed to load timezone %q, falling back to system local time: %v", timezone, err)
		return c
	}
	c.loc = loc
	return c
}

// NewWithLocation builds a calendar on an already loaded location
func NewWithLocation(loc *time.Location, clock Clock) *Calendar {
	if clock == nil {
		clock = RealClock{}
	}
	return &Calendar{loc: loc, clock: clock}
}

// Location business timezone in effect
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Degraded reports whether the calendar runs on the system zone
func (c *Calendar) Degraded() bool {
	return c.degraded
}

// Clock returns the underlying clock
func (c *Calendar) Clock() Clock {
	return c.clock
}

// ParseDate parses a strict YYYY-MM-DD civil date at UTC midnight.
// The zone is irrelevant; the value is only used as a civil date.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return d, nil
}

// Instant converts a civil (date, time) in the business timezone to an absolute instant.
// DST offsets are resolved by the tz database: a wall time inside a spring-forward gap
// is normalized forward, an ambiguous fall-back time resolves to the first occurrence.
func (c *Calendar) Instant(date, tm string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := types.ParseMinutes(tm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, c.loc), nil
}

// LocalToUTC civil (date, time) to epoch milliseconds
func (c *Calendar) LocalToUTC(date, tm string) (int64, error) {
	t, err := c.Instant(date, tm)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// FromEpochMs projects epoch milliseconds back to civil date and HH:MM
func (c *Calendar) FromEpochMs(ms int64) (string, string) {
	t := time.UnixMilli(ms).In(c.loc)
	return t.Format(domain.DateFormat), t.Format(domain.TimeFormat)
}

// Now current civil date and minute of day
func (c *Calendar) Now() CivilNow {
	if c.degraded {
		c.warn("Calendar: running in degraded mode, using system local time zone %s", c.loc)
	}
	now := c.clock.Now().In(c.loc)
	return CivilNow{
		Date:    now.Format(domain.DateFormat),
		Minutes: now.Hour()*60 + now.Minute(),
	}
}

// Today current civil date
func (c *Calendar) Today() time.Time {
	d, _ := ParseDate(c.Now().Date)
	return d
}

// WeekdayIndex 0..6 with Sunday = 0, -1 for an unparseable date
func (c *Calendar) WeekdayIndex(date string) int {
	d, err := ParseDate(date)
	if err != nil {
		return -1
	}
	return int(d.Weekday())
}

// HorizonEnd last bookable civil date: today plus whole calendar months
func (c *Calendar) HorizonEnd() time.Time {
	return c.Today().AddDate(0, domain.BookingHorizonMonths, 0)
}

// WithinHorizon true iff today <= date <= today + 1 month, compared as civil dates
func (c *Calendar) WithinHorizon(date string) bool {
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	return !d.Before(c.Today()) && !d.After(c.HorizonEnd())
}

// BeyondHorizon true iff date lies after the last bookable date
func (c *Calendar) BeyondHorizon(date string) bool {
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	return d.After(c.HorizonEnd())
}

func (c *Calendar) warn(format string, v ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(format, v...)
	}
}
