package calendar

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type recordingLogger struct{ warnings []string }

func (l *recordingLogger) Warn(format string, v ...interface{}) {
	l.warnings = append(l.warnings, format)
}

func prague(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	return loc
}

func TestLocalToUTC_DSTPairs(t *testing.T) {
	cal := NewWithLocation(prague(t), nil)

	tests := []struct {
		name string
		date string
		time string
		want time.Time
	}{
		{"day before spring forward", "2026-03-28", "10:00", time.Date(2026, 3, 28, 9, 0, 0, 0, time.UTC)},
		{"spring forward day", "2026-03-29", "10:00", time.Date(2026, 3, 29, 8, 0, 0, 0, time.UTC)},
		{"day before fall back", "2026-10-24", "10:00", time.Date(2026, 10, 24, 8, 0, 0, 0, time.UTC)},
		{"fall back day", "2026-10-25", "10:00", time.Date(2026, 10, 25, 9, 0, 0, 0, time.UTC)},
		{"single digit hour", "2026-10-25", "9:15", time.Date(2026, 10, 25, 8, 15, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, err := cal.LocalToUTC(tt.date, tt.time)
			require.NoError(t, err)
			assert.Equal(t, tt.want.UnixMilli(), ms)
		})
	}
}

func TestLocalToUTC_RoundTrip(t *testing.T) {
	cal := NewWithLocation(prague(t), nil)

	for _, date := range []string{"2026-03-28", "2026-03-29", "2026-10-24", "2026-10-25"} {
		for _, tm := range []string{"00:00", "01:30", "09:00", "13:45", "19:30", "23:59"} {
			ms, err := cal.LocalToUTC(date, tm)
			require.NoError(t, err)

			gotDate, gotTime := cal.FromEpochMs(ms)
			assert.Equal(t, date, gotDate, "%s %s", date, tm)
			assert.Equal(t, tm, gotTime, "%s %s", date, tm)
		}
	}
}

func TestLocalToUTC_Malformed(t *testing.T) {
	cal := NewWithLocation(prague(t), nil)

	for _, in := range [][2]string{
		{"2026-13-01", "10:00"},
		{"2026-02-30", "10:00"},
		{"26-01-01", "10:00"},
		{"2026-01-01", "24:00"},
		{"2026-01-01", "10:5"},
		{"2026-01-01", ""},
	} {
		_, err := cal.LocalToUTC(in[0], in[1])
		assert.Error(t, err, "%v", in)
	}
}

func TestNow_ProjectsIntoBusinessZone(t *testing.T) {
	// 23:30 UTC on Oct 24 is already Oct 25 01:30 in Prague (CEST)
	clock := fixedClock{time.Date(2026, 10, 24, 23, 30, 0, 0, time.UTC)}
	cal := NewWithLocation(prague(t), clock)

	now := cal.Now()
	assert.Equal(t, "2026-10-25", now.Date)
	assert.Equal(t, 90, now.Minutes)
}

func TestNew_DegradedModeWarns(t *testing.T) {
	log := &recordingLogger{}
	cal := New("Mars/Olympus_Mons", fixedClock{time.Now()}, log)

	assert.True(t, cal.Degraded())
	assert.Equal(t, time.Local, cal.Location())
	require.Len(t, log.warnings, 1)

	cal.Now()
	assert.Len(t, log.warnings, 2)
}

func TestWeekdayIndex(t *testing.T) {
	cal := NewWithLocation(prague(t), nil)

	assert.Equal(t, 0, cal.WeekdayIndex("2026-03-29")) // Sunday
	assert.Equal(t, 4, cal.WeekdayIndex("2026-10-15")) // Thursday
	assert.Equal(t, 6, cal.WeekdayIndex("2026-10-24")) // Saturday
	assert.Equal(t, -1, cal.WeekdayIndex("not-a-date"))
}

func TestWithinHorizon(t *testing.T) {
	loc := prague(t)
	cal := NewWithLocation(loc, fixedClock{time.Date(2026, 10, 15, 10, 0, 0, 0, loc)})

	assert.True(t, cal.WithinHorizon("2026-10-15"), "today")
	assert.True(t, cal.WithinHorizon("2026-11-15"), "exactly one calendar month")
	assert.False(t, cal.WithinHorizon("2026-11-16"), "one day beyond")
	assert.False(t, cal.WithinHorizon("2026-10-14"), "yesterday")
	assert.False(t, cal.WithinHorizon("garbage"))

	assert.True(t, cal.BeyondHorizon("2026-11-16"))
	assert.False(t, cal.BeyondHorizon("2026-10-14"))
}

func TestWithinHorizon_CalendarMonthArithmetic(t *testing.T) {
	loc := prague(t)
	// Feb 28 + 1 month is Mar 28, not a fixed 30 days later
	cal := NewWithLocation(loc, fixedClock{time.Date(2026, 2, 28, 12, 0, 0, 0, loc)})

	assert.True(t, cal.WithinHorizon("2026-03-28"))
	assert.False(t, cal.WithinHorizon("2026-03-29"))
}
