package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barbershop-booking/internal/calendar"
	"github.com/m04kA/barbershop-booking/internal/catalog"
	"github.com/m04kA/barbershop-booking/internal/domain"
	appointmentRepo "github.com/m04kA/barbershop-booking/internal/infra/storage/appointment"
	"github.com/m04kA/barbershop-booking/pkg/ptr"
)

type memAppointments struct {
	items map[string]*domain.Appointment
}

func newMemAppointments(items ...*domain.Appointment) *memAppointments {
	m := &memAppointments{items: map[string]*domain.Appointment{}}
	for _, a := range items {
		m.items[a.ID] = a
	}
	return m
}

func (m *memAppointments) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAppointments) ListByDate(_ context.Context, date string, includeCancelled bool) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range m.items {
		if a.Date == date && (includeCancelled || a.IsActive()) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAppointments) ListByUserID(_ context.Context, userID string) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range m.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAppointments) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus) error {
	a, ok := m.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

func (m *memAppointments) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memAppointments) LinkAnonymousByEmail(_ context.Context, email, userID string, limit int) (int64, error) {
	ids := make([]string, 0)
	for id, a := range m.items {
		if a.IsAnonymous() && strings.EqualFold(a.CustomerEmail, email) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	var n int64
	for _, id := range ids {
		if int(n) == limit {
			break
		}
		m.items[id].UserID = userID
		n++
	}
	return n, nil
}

type memLog struct {
	rows map[string]int
}

func (m *memLog) DeleteByAppointmentIDs(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		n += int64(m.rows[id])
		delete(m.rows, id)
	}
	return n, nil
}

type stubRoles struct{ admins map[string]bool }

func (s stubRoles) IsAdmin(_ context.Context, userID string) (bool, error) {
	return s.admins[userID], nil
}

type fakeScheduler struct {
	names []string
	err   error
}

func (f *fakeScheduler) RunAfter(_ context.Context, name string, _ interface{}, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.names = append(f.names, name)
	return "task", nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var (
	owner = domain.Identity{UserID: "user-1", Email: "jan@example.com", EmailVerified: true}
	admin = domain.Identity{UserID: "admin-1", Email: "boss@example.com", EmailVerified: true}
	other = domain.Identity{UserID: "user-2", Email: "eva@example.com", EmailVerified: true}
)

type env struct {
	appts     *memAppointments
	logs      *memLog
	scheduler *fakeScheduler
	svc       *Service
	now       time.Time
}

// now: Thursday 2026-10-15 09:00 Europe/Prague
func newEnv(t *testing.T, items ...*domain.Appointment) *env {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, loc)

	e := &env{
		appts:     newMemAppointments(items...),
		logs:      &memLog{rows: map[string]int{}},
		scheduler: &fakeScheduler{},
		now:       now,
	}
	e.svc = NewService(
		e.appts,
		e.logs,
		stubRoles{admins: map[string]bool{admin.UserID: true}},
		e.scheduler,
		passthroughTx{},
		calendar.NewWithLocation(loc, fixedClock{now}),
		LinkConfig{},
		nopLogger{},
	)
	return e
}

func appointmentAt(id, userID string, startsAt time.Time) *domain.Appointment {
	ms := startsAt.UnixMilli()
	local := startsAt.UTC()
	return &domain.Appointment{
		ID:            id,
		UserID:        userID,
		CustomerName:  "Jan Novák",
		CustomerEmail: "jan@example.com",
		ServiceName:   catalog.ClassicCut,
		Date:          local.Format(domain.DateFormat),
		Time:          local.Format(domain.TimeFormat),
		StartsAtMs:    &ms,
		Status:        domain.StatusPending,
	}
}

func TestCancel_WindowBoundary(t *testing.T) {
	tests := []struct {
		name    string
		in      time.Duration
		wantErr error
	}{
		{name: "24h and one minute ahead", in: 24*time.Hour + time.Minute},
		{name: "exactly 24h ahead", in: 24 * time.Hour},
		{name: "23h59m ahead", in: 23*time.Hour + 59*time.Minute, wantErr: ErrCancellationWindowClosed},
		{name: "already started", in: -time.Hour, wantErr: ErrCancellationWindowClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.appts.items["a1"] = appointmentAt("a1", owner.UserID, e.now.Add(tt.in))

			err := e.svc.Cancel(context.Background(), "a1", owner)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, domain.StatusPending, e.appts.items["a1"].Status)
				assert.Empty(t, e.scheduler.names)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, e.appts.items["a1"].Status)
			assert.Equal(t, []string{domain.TaskSendStatusUpdate}, e.scheduler.names)
		})
	}
}

func TestCancel_Ownership(t *testing.T) {
	t.Run("anonymous appointment with verified email", func(t *testing.T) {
		e := newEnv(t)
		e.appts.items["a1"] = appointmentAt("a1", domain.AnonymousUserID, e.now.Add(48*time.Hour))

		caller := domain.Identity{UserID: "new-user", Email: "JAN@example.com", EmailVerified: true}
		require.NoError(t, e.svc.Cancel(context.Background(), "a1", caller))
		assert.Equal(t, domain.StatusCancelled, e.appts.items["a1"].Status)
	})

	t.Run("anonymous appointment with unverified email", func(t *testing.T) {
		e := newEnv(t)
		e.appts.items["a1"] = appointmentAt("a1", domain.AnonymousUserID, e.now.Add(48*time.Hour))

		caller := domain.Identity{UserID: "new-user", Email: "jan@example.com"}
		assert.ErrorIs(t, e.svc.Cancel(context.Background(), "a1", caller), ErrAccessDenied)
	})

	t.Run("someone else", func(t *testing.T) {
		e := newEnv(t)
		e.appts.items["a1"] = appointmentAt("a1", owner.UserID, e.now.Add(48*time.Hour))

		assert.ErrorIs(t, e.svc.Cancel(context.Background(), "a1", other), ErrAccessDenied)
	})

	t.Run("already cancelled", func(t *testing.T) {
		e := newEnv(t)
		a := appointmentAt("a1", owner.UserID, e.now.Add(48*time.Hour))
		a.Status = domain.StatusCancelled
		e.appts.items["a1"] = a

		assert.ErrorIs(t, e.svc.Cancel(context.Background(), "a1", owner), ErrAlreadyCancelled)
	})

	t.Run("missing", func(t *testing.T) {
		e := newEnv(t)
		assert.ErrorIs(t, e.svc.Cancel(context.Background(), "nope", owner), ErrAppointmentNotFound)
	})
}

func TestCancel_LegacyRowDerivesStart(t *testing.T) {
	e := newEnv(t)
	e.appts.items["near"] = &domain.Appointment{
		ID: "near", UserID: owner.UserID, ServiceName: catalog.Fade,
		Date: "2026-10-16", Time: "8:30", Status: domain.StatusConfirmed,
	}
	e.appts.items["far"] = &domain.Appointment{
		ID: "far", UserID: owner.UserID, ServiceName: catalog.Fade,
		Date: "2026-10-16", Time: "9:01", Status: domain.StatusConfirmed,
	}

	assert.ErrorIs(t, e.svc.Cancel(context.Background(), "near", owner), ErrCancellationWindowClosed)
	assert.NoError(t, e.svc.Cancel(context.Background(), "far", owner))
}

func TestCancel_NotificationFailureDoesNotFail(t *testing.T) {
	e := newEnv(t)
	e.scheduler.err = errors.New("queue down")
	e.appts.items["a1"] = appointmentAt("a1", owner.UserID, e.now.Add(48*time.Hour))

	require.NoError(t, e.svc.Cancel(context.Background(), "a1", owner))
	assert.Equal(t, domain.StatusCancelled, e.appts.items["a1"].Status)
}

func TestUpdateStatus(t *testing.T) {
	e := newEnv(t)
	// admins ignore the 24h window
	e.appts.items["a1"] = appointmentAt("a1", owner.UserID, e.now.Add(time.Hour))

	require.NoError(t, e.svc.UpdateStatus(context.Background(), "a1", "confirmed", admin))
	assert.Equal(t, domain.StatusConfirmed, e.appts.items["a1"].Status)

	require.NoError(t, e.svc.UpdateStatus(context.Background(), "a1", "cancelled", admin))
	require.NoError(t, e.svc.UpdateStatus(context.Background(), "a1", "pending", admin))
	assert.Len(t, e.scheduler.names, 3)

	assert.ErrorIs(t, e.svc.UpdateStatus(context.Background(), "a1", "done", admin), ErrInvalidInput)
	assert.ErrorIs(t, e.svc.UpdateStatus(context.Background(), "a1", "confirmed", owner), ErrAccessDenied)
	assert.ErrorIs(t, e.svc.UpdateStatus(context.Background(), "missing", "confirmed", admin), ErrAppointmentNotFound)
}

func TestDelete(t *testing.T) {
	e := newEnv(t)
	e.appts.items["a1"] = appointmentAt("a1", owner.UserID, e.now.Add(48*time.Hour))
	e.appts.items["a2"] = appointmentAt("a2", owner.UserID, e.now.Add(72*time.Hour))
	e.logs.rows["a1"] = 2
	e.logs.rows["a2"] = 1

	assert.ErrorIs(t, e.svc.Delete(context.Background(), "a1", owner), ErrAccessDenied)
	require.NoError(t, e.svc.Delete(context.Background(), "a1", admin))

	assert.NotContains(t, e.appts.items, "a1")
	assert.NotContains(t, e.logs.rows, "a1")
	assert.Equal(t, 1, e.logs.rows["a2"])

	assert.ErrorIs(t, e.svc.Delete(context.Background(), "a1", admin), ErrAppointmentNotFound)
}

func TestGetByID_Visibility(t *testing.T) {
	e := newEnv(t)
	e.appts.items["a1"] = appointmentAt("a1", owner.UserID, e.now.Add(48*time.Hour))

	resp, err := e.svc.GetByID(context.Background(), "a1", owner)
	require.NoError(t, err)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, 350, resp.Price)

	_, err = e.svc.GetByID(context.Background(), "a1", admin)
	require.NoError(t, err)

	_, err = e.svc.GetByID(context.Background(), "a1", other)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListByDate_AdminOnly(t *testing.T) {
	e := newEnv(t)
	a := appointmentAt("a1", owner.UserID, time.Date(2026, 10, 23, 8, 0, 0, 0, time.UTC))
	a.Status = domain.StatusCancelled
	e.appts.items["a1"] = a
	e.appts.items["a2"] = appointmentAt("a2", owner.UserID, time.Date(2026, 10, 23, 9, 0, 0, 0, time.UTC))

	resp, err := e.svc.ListByDate(context.Background(), "2026-10-23", admin)
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)

	_, err = e.svc.ListByDate(context.Background(), "2026-10-23", owner)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = e.svc.ListByDate(context.Background(), "23.10.2026", admin)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListMine(t *testing.T) {
	e := newEnv(t)
	e.appts.items["a1"] = appointmentAt("a1", owner.UserID, e.now.Add(48*time.Hour))
	e.appts.items["a2"] = appointmentAt("a2", other.UserID, e.now.Add(48*time.Hour))

	resp, err := e.svc.ListMine(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "a1", resp.Appointments[0].ID)

	_, err = e.svc.ListMine(context.Background(), domain.Identity{})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestLinkAnonymous(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		e := newEnv(t)
		for _, id := range []string{"a1", "a2", "a3"} {
			e.appts.items[id] = appointmentAt(id, domain.AnonymousUserID, e.now.Add(48*time.Hour))
		}
		e.appts.items["a3"].CustomerEmail = "someone@else.cz"

		first, err := e.svc.LinkAnonymous(context.Background(), "user-9", "Jan@Example.com", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), first.Linked)

		second, err := e.svc.LinkAnonymous(context.Background(), "user-9", "Jan@Example.com", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), second.Linked)

		assert.Equal(t, "user-9", e.appts.items["a1"].UserID)
		assert.Equal(t, "user-9", e.appts.items["a2"].UserID)
		assert.Equal(t, domain.AnonymousUserID, e.appts.items["a3"].UserID)
	})

	t.Run("batch is capped", func(t *testing.T) {
		e := newEnv(t)
		for i := 0; i < domain.MaxLinkBatch+5; i++ {
			id := fmt.Sprintf("a%03d", i)
			e.appts.items[id] = appointmentAt(id, domain.AnonymousUserID, e.now.Add(48*time.Hour))
		}

		resp, err := e.svc.LinkAnonymous(context.Background(), "user-9", "jan@example.com", 10_000)
		require.NoError(t, err)
		assert.Equal(t, int64(domain.MaxLinkBatch), resp.Linked)

		resp, err = e.svc.LinkAnonymous(context.Background(), "user-9", "jan@example.com", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), resp.Linked)
	})

	t.Run("invalid input", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.svc.LinkAnonymous(context.Background(), domain.AnonymousUserID, "jan@example.com", 0)
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = e.svc.LinkAnonymous(context.Background(), "user-9", " ", 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestFromDomainAppointment_Override(t *testing.T) {
	e := newEnv(t)
	a := appointmentAt("a1", owner.UserID, e.now.Add(48*time.Hour))
	a.ServiceName = "Fade + Vousy"
	a.DurationMinutes = ptr.Ptr(90)
	e.appts.items["a1"] = a

	resp, err := e.svc.GetByID(context.Background(), "a1", owner)
	require.NoError(t, err)
	assert.Equal(t, 65, resp.DurationMinutes)
	assert.Equal(t, 90, *resp.RequestedDurationMinutes)
}
