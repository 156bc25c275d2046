package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointment_IsOwnedBy(t *testing.T) {
	owned := &Appointment{UserID: "user_1", CustomerEmail: "a@example.com"}
	anon := &Appointment{UserID: AnonymousUserID, CustomerEmail: "Jan.Novak@example.com"}

	assert.True(t, owned.IsOwnedBy(Identity{UserID: "user_1"}))
	assert.False(t, owned.IsOwnedBy(Identity{UserID: "user_2", Email: "a@example.com", EmailVerified: true}))

	assert.True(t, anon.IsOwnedBy(Identity{UserID: "user_9", Email: "jan.novak@example.com", EmailVerified: true}))
	assert.False(t, anon.IsOwnedBy(Identity{UserID: "user_9", Email: "jan.novak@example.com"}), "unverified email")
	assert.False(t, anon.IsOwnedBy(Identity{UserID: AnonymousUserID}), "sentinel never matches")
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("confirmed")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, st)

	_, ok = ParseStatus("no_show")
	assert.False(t, ok)
}
