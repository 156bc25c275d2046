package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestSend_Success(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "re_test", time.Second, 0, nopLogger{})
	id, err := c.Send(context.Background(), Message{
		From:    "Barbershop <rezervace@example.com>",
		To:      []string{"jan@example.com"},
		Subject: "Potvrzení rezervace",
		HTML:    "<p>Ahoj</p>",
		Text:    "Ahoj",
	})

	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	assert.Equal(t, []string{"jan@example.com"}, got.To)
	assert.Equal(t, "Ahoj", got.Text)
}

func TestSend_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "re_test", time.Second, 0, nopLogger{})
	_, err := c.Send(context.Background(), Message{To: []string{"bad"}})

	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Invalid to field")
}

func TestSend_EmptyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "re_test", time.Second, 0, nopLogger{})
	_, err := c.Send(context.Background(), Message{To: []string{"a@example.com"}})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSend_NotConfigured(t *testing.T) {
	c := NewClient("http://localhost", "", time.Second, 0, nopLogger{})
	_, err := c.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSend_RateLimiterHonoursContext(t *testing.T) {
	c := NewClient("http://localhost", "re_test", time.Second, 0.001, nopLogger{})
	// burst of one token is consumed by the first reservation
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Send(ctx, Message{})
	assert.ErrorIs(t, err, ErrInternal)
}
