package identity_webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barbershop-booking/internal/service/appointments/models"
)

type linkCall struct {
	userID string
	email  string
}

type fakeService struct {
	calls []linkCall
}

func (f *fakeService) LinkAnonymous(_ context.Context, userID, email string, _ int) (*models.LinkResponse, error) {
	f.calls = append(f.calls, linkCall{userID, email})
	return &models.LinkResponse{UserID: userID, Linked: 2}, nil
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2026, 10, 15, 7, 0, 0, 0, time.UTC)

func post(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, LinkResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/identity", strings.NewReader(body)))

	var resp LinkResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestHandle_UserCreated(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, fixedTime{now}, nopLogger{})

	rec, resp := post(t, h, `{
		"type": "user.created",
		"object": "event",
		"data": {
			"id": "user_123",
			"primary_email_address_id": "idn_2",
			"email_addresses": [
				{"id": "idn_1", "email_address": "old@example.com", "verification": {"status": "verified"}},
				{"id": "idn_2", "email_address": "jan@example.com", "verification": {"status": "verified"}}
			]
		}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), resp.Linked)
	assert.Equal(t, []linkCall{{"user_123", "jan@example.com"}}, svc.calls)
}

func TestHandle_UserUpdatedNeedsRecentSignIn(t *testing.T) {
	event := func(signedIn time.Time) string {
		return `{"type":"user.updated","data":{"id":"user_123","last_sign_in_at":` +
			jsonInt(signedIn.UnixMilli()) +
			`,"email_addresses":[{"id":"a","email_address":"jan@example.com","verification":{"status":"verified"}}]}}`
	}

	svc := &fakeService{}
	h := NewHandler(svc, fixedTime{now}, nopLogger{})

	_, resp := post(t, h, event(now.Add(-time.Hour)))
	assert.Equal(t, "no_recent_sign_in", resp.Ignored)
	assert.Empty(t, svc.calls)

	_, resp = post(t, h, event(now.Add(-5*time.Minute)))
	assert.Empty(t, resp.Ignored)
	assert.Len(t, svc.calls, 1)
}

func TestHandle_Ignored(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, fixedTime{now}, nopLogger{})

	_, resp := post(t, h, `{"type":"user.deleted","data":{"id":"user_123"}}`)
	assert.Equal(t, "unsupported_type", resp.Ignored)

	_, resp = post(t, h, `{"type":"session.created","data":{"user_id":"user_123","email_addresses":[{"id":"a","email_address":"jan@example.com","verification":{"status":"unverified"}}]}}`)
	assert.Equal(t, "no_verified_email", resp.Ignored)

	assert.Empty(t, svc.calls)

	rec, _ := post(t, h, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
