package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay number of minutes in a civil day
const MinutesPerDay = 24 * 60

// ErrInvalidTimeFormat returned for anything that is not H:MM or HH:MM
var ErrInvalidTimeFormat = errors.New("invalid time string format")

// TimeString civil time of day in "H:MM" or "HH:MM" form
type TimeString string

// ParseMinutes converts "H:MM"/"HH:MM" into minutes since local midnight.
func ParseMinutes(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return 0, ErrInvalidTimeFormat
	}
	if !isDigits(hh) || !isDigits(mm) {
		return 0, ErrInvalidTimeFormat
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h > 23 {
		return 0, ErrInvalidTimeFormat
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m > 59 {
		return 0, ErrInvalidTimeFormat
	}

	return h*60 + m, nil
}

// FromMinutes formats minutes since midnight as "HH:MM"
func FromMinutes(minutes int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}

// Minutes returns minutes since midnight
func (t TimeString) Minutes() (int, error) {
	return ParseMinutes(string(t))
}

// Validate checks the format
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// IsZero reports whether the value is empty
func (t TimeString) IsZero() bool {
	return strings.TrimSpace(string(t)) == ""
}

// String implements fmt.Stringer
func (t TimeString) String() string {
	return string(t)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
