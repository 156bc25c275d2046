package vacations

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barbershop-booking/internal/calendar"
	"github.com/m04kA/barbershop-booking/internal/domain"
	vacationRepo "github.com/m04kA/barbershop-booking/internal/infra/storage/vacation"
	"github.com/m04kA/barbershop-booking/internal/service/vacations/models"
	"github.com/m04kA/barbershop-booking/pkg/ptr"
)

type memVacations struct {
	items  []*domain.Vacation
	nextID int64
}

func (m *memVacations) Create(_ context.Context, v *domain.Vacation) (*domain.Vacation, error) {
	m.nextID++
	v.ID = m.nextID
	m.items = append(m.items, v)
	return v, nil
}

func (m *memVacations) ListFrom(_ context.Context, fromDate string) ([]*domain.Vacation, error) {
	var out []*domain.Vacation
	for _, v := range m.items {
		if v.EndDate >= fromDate {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memVacations) Delete(_ context.Context, id int64) error {
	for i, v := range m.items {
		if v.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return vacationRepo.ErrVacationNotFound
}

type stubRoles struct{}

func (stubRoles) IsAdmin(_ context.Context, userID string) (bool, error) {
	return userID == "admin-1", nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var (
	admin = domain.Identity{UserID: "admin-1"}
	user  = domain.Identity{UserID: "user-1"}
)

func newService(t *testing.T) (*Service, *memVacations) {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	repo := &memVacations{}
	cal := calendar.NewWithLocation(loc, fixedClock{time.Date(2026, 10, 15, 9, 0, 0, 0, loc)})
	return NewService(repo, stubRoles{}, cal, nopLogger{}), repo
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateVacationRequest
		wantErr error
		fullDay bool
	}{
		{
			name:    "full days",
			req:     models.CreateVacationRequest{StartDate: "2026-12-23", EndDate: "2027-01-02", Note: ptr.Ptr("Vánoce")},
			fullDay: true,
		},
		{
			name: "afternoon off",
			req: models.CreateVacationRequest{
				StartDate: "2026-10-20", EndDate: "2026-10-20",
				StartTime: ptr.Ptr("13:00"), EndTime: ptr.Ptr("17:00"),
			},
		},
		{
			name:    "blank times mean full day",
			req:     models.CreateVacationRequest{StartDate: "2026-10-20", EndDate: "2026-10-20", StartTime: ptr.Ptr(" "), EndTime: ptr.Ptr("")},
			fullDay: true,
		},
		{
			name:    "end before start",
			req:     models.CreateVacationRequest{StartDate: "2026-10-21", EndDate: "2026-10-20"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad date",
			req:     models.CreateVacationRequest{StartDate: "2026-13-01", EndDate: "2026-13-02"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "only start time",
			req:     models.CreateVacationRequest{StartDate: "2026-10-20", EndDate: "2026-10-20", StartTime: ptr.Ptr("13:00")},
			wantErr: ErrInvalidInput,
		},
		{
			name: "empty time range",
			req: models.CreateVacationRequest{
				StartDate: "2026-10-20", EndDate: "2026-10-20",
				StartTime: ptr.Ptr("13:00"), EndTime: ptr.Ptr("13:00"),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "bad time",
			req: models.CreateVacationRequest{
				StartDate: "2026-10-20", EndDate: "2026-10-20",
				StartTime: ptr.Ptr("25:00"), EndTime: ptr.Ptr("26:00"),
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			req := tt.req

			resp, err := svc.Create(context.Background(), &req, admin)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.items)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.ID)
			assert.Equal(t, tt.fullDay, resp.FullDay)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	svc, _ := newService(t)
	req := &models.CreateVacationRequest{StartDate: "2026-12-23", EndDate: "2026-12-24"}

	_, err := svc.Create(context.Background(), req, user)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.List(context.Background(), domain.Identity{})
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1, user), ErrAccessDenied)
}

func TestListAndDelete(t *testing.T) {
	svc, repo := newService(t)
	repo.items = []*domain.Vacation{
		{ID: 1, StartDate: "2026-08-01", EndDate: "2026-08-14"},
		{ID: 2, StartDate: "2026-10-10", EndDate: "2026-10-15"},
		{ID: 3, StartDate: "2026-12-23", EndDate: "2027-01-02"},
	}
	repo.nextID = 3

	resp, err := svc.List(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, resp.Vacations, 2)
	assert.Equal(t, int64(2), resp.Vacations[0].ID)

	require.NoError(t, svc.Delete(context.Background(), 3, admin))
	assert.ErrorIs(t, svc.Delete(context.Background(), 3, admin), ErrVacationNotFound)
}
