package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barbershop-booking/internal/booking"
	"github.com/m04kA/barbershop-booking/internal/calendar"
	"github.com/m04kA/barbershop-booking/internal/catalog"
	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/internal/schedule"
	"github.com/m04kA/barbershop-booking/pkg/ptr"
	"github.com/m04kA/barbershop-booking/pkg/types"
)

type stubAppointments struct {
	items []*domain.Appointment
	err   error
	calls int
}

func (s *stubAppointments) ListByDate(_ context.Context, date string, includeCancelled bool) ([]*domain.Appointment, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var out []*domain.Appointment
	for _, a := range s.items {
		if a.Date == date && (includeCancelled || a.IsActive()) {
			out = append(out, a)
		}
	}
	return out, nil
}

type stubVacations struct {
	items []*domain.Vacation
}

func (s *stubVacations) ListCovering(_ context.Context, date string) ([]*domain.Vacation, error) {
	var out []*domain.Vacation
	for _, v := range s.items {
		if v.Covers(date) {
			out = append(out, v)
		}
	}
	return out, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// now: Thursday 2026-10-15 09:00 Europe/Prague
func newUseCase(t *testing.T, hour int, appts *stubAppointments, vacations *stubVacations) *UseCase {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	now := time.Date(2026, 10, 15, hour, 0, 0, 0, loc)
	checker := booking.NewChecker(calendar.NewWithLocation(loc, fixedClock{now}), schedule.Default())
	return NewUseCase(appts, vacations, checker, nopLogger{})
}

func starts(slots []domain.AvailableSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.String())
	}
	return out
}

func TestExecute_FreeFriday(t *testing.T) {
	uc := newUseCase(t, 9, &stubAppointments{}, &stubVacations{})

	resp, err := uc.Execute(context.Background(), &Request{Date: "2026-10-23", ServiceName: catalog.ClassicCut})
	require.NoError(t, err)

	assert.Equal(t, 30, resp.DurationMinutes)
	// 09:00-11:15 and 13:00-16:30 on a 15 minute grid
	require.Len(t, resp.Slots, 25)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("09:30"), resp.Slots[0].EndTime)
	assert.Equal(t, types.TimeString("11:15"), resp.Slots[9].StartTime)
	assert.Equal(t, types.TimeString("13:00"), resp.Slots[10].StartTime)
	assert.Equal(t, types.TimeString("16:30"), resp.Slots[24].StartTime)
	assert.Equal(t, types.TimeString("17:00"), resp.Slots[24].EndTime)
}

func TestExecute_LongServiceFitsInsidePeriods(t *testing.T) {
	uc := newUseCase(t, 9, &stubAppointments{}, &stubVacations{})

	resp, err := uc.Execute(context.Background(), &Request{Date: "2026-10-23", ServiceName: catalog.FullPackage})
	require.NoError(t, err)

	assert.Equal(t, 70, resp.DurationMinutes)
	for _, s := range resp.Slots {
		end, err := s.EndTime.Minutes()
		require.NoError(t, err)
		assert.LessOrEqual(t, end, 17*60, "slot %s-%s", s.StartTime, s.EndTime)
	}
	assert.Contains(t, starts(resp.Slots), "10:30")
	assert.NotContains(t, starts(resp.Slots), "10:45")
	assert.Contains(t, starts(resp.Slots), "15:45")
	assert.NotContains(t, starts(resp.Slots), "16:00")
}

func TestExecute_ExistingAppointmentsBlockOverlaps(t *testing.T) {
	appts := &stubAppointments{items: []*domain.Appointment{
		{ID: "a1", Date: "2026-10-23", Time: "10:00", ServiceName: catalog.ClassicCut, Status: domain.StatusConfirmed},
		{ID: "a2", Date: "2026-10-23", Time: "14:00", ServiceName: catalog.ClassicCut, Status: domain.StatusCancelled},
		// stored override is ignored, the service still takes 30 minutes
		{ID: "a3", Date: "2026-10-23", Time: "15:00", ServiceName: catalog.ClassicCut, Status: domain.StatusPending, DurationMinutes: ptr.Ptr(90)},
	}}
	uc := newUseCase(t, 9, appts, &stubVacations{})

	resp, err := uc.Execute(context.Background(), &Request{Date: "2026-10-23", ServiceName: catalog.ClassicCut})
	require.NoError(t, err)

	got := starts(resp.Slots)
	for _, blocked := range []string{"09:45", "10:00", "10:15", "14:45", "15:00", "15:15"} {
		assert.NotContains(t, got, blocked)
	}
	for _, free := range []string{"09:30", "10:30", "14:00", "15:30"} {
		assert.Contains(t, got, free)
	}
	assert.Len(t, got, 19)
	assert.Equal(t, 1, appts.calls)
}

func TestExecute_Vacations(t *testing.T) {
	t.Run("partial day", func(t *testing.T) {
		vacations := &stubVacations{items: []*domain.Vacation{
			{ID: 1, StartDate: "2026-10-23", EndDate: "2026-10-23", StartTime: ptr.Ptr("13:00"), EndTime: ptr.Ptr("14:00")},
		}}
		uc := newUseCase(t, 9, &stubAppointments{}, vacations)

		resp, err := uc.Execute(context.Background(), &Request{Date: "2026-10-23", ServiceName: catalog.ClassicCut})
		require.NoError(t, err)
		assert.Len(t, resp.Slots, 21)
		assert.NotContains(t, starts(resp.Slots), "13:45")
		assert.Contains(t, starts(resp.Slots), "14:00")
	})

	t.Run("full day", func(t *testing.T) {
		vacations := &stubVacations{items: []*domain.Vacation{
			{ID: 1, StartDate: "2026-10-22", EndDate: "2026-10-26"},
		}}
		uc := newUseCase(t, 9, &stubAppointments{}, vacations)

		resp, err := uc.Execute(context.Background(), &Request{Date: "2026-10-23", ServiceName: catalog.ClassicCut})
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})
}

func TestExecute_TodayRespectsLeadTime(t *testing.T) {
	// Thursday opens at 13:00; at 12:00 the earliest start is 14:00
	uc := newUseCase(t, 12, &stubAppointments{}, &stubVacations{})

	resp, err := uc.Execute(context.Background(), &Request{Date: "2026-10-15", ServiceName: catalog.ClassicCut})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("14:00"), resp.Slots[0].StartTime)
	assert.NotContains(t, starts(resp.Slots), "13:45")
}

func TestExecute_EmptyDays(t *testing.T) {
	uc := newUseCase(t, 9, &stubAppointments{}, &stubVacations{})

	for name, date := range map[string]string{
		"sunday":   "2026-10-25",
		"saturday": "2026-10-24",
		"past":     "2026-10-01",
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := uc.Execute(context.Background(), &Request{Date: date, ServiceName: catalog.ClassicCut})
			require.NoError(t, err)
			assert.NotNil(t, resp.Slots)
			assert.Empty(t, resp.Slots)
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	uc := newUseCase(t, 9, &stubAppointments{}, &stubVacations{})

	_, err := uc.Execute(context.Background(), &Request{Date: "2026-12-01", ServiceName: catalog.ClassicCut})
	assert.ErrorIs(t, err, booking.ErrTooFarInAdvance)

	_, err = uc.Execute(context.Background(), &Request{Date: "2026-02-30", ServiceName: catalog.ClassicCut})
	assert.ErrorIs(t, err, booking.ErrInvalidDateFormat)

	_, err = uc.Execute(context.Background(), &Request{Date: "2026-10-23", ServiceName: "  "})
	assert.ErrorIs(t, err, booking.ErrInvalidInput)

	failing := newUseCase(t, 9, &stubAppointments{err: errors.New("db down")}, &stubVacations{})
	_, err = failing.Execute(context.Background(), &Request{Date: "2026-10-23", ServiceName: catalog.ClassicCut})
	assert.ErrorIs(t, err, ErrInternal)
}
