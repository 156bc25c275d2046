package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/barbershop-booking/internal/api/handlers"
	"github.com/m04kA/barbershop-booking/internal/domain"
)

// Заголовки, которые проставляет шлюз провайдера идентификации
const (
	HeaderUserID        = "X-User-ID"
	HeaderUserEmail     = "X-User-Email"
	HeaderEmailVerified = "X-User-Email-Verified"
)

const msgUnauthenticated = "vyžaduje se přihlášení"

type contextKey string

const identityKey contextKey = "identity"

// OptionalAuth кладёт в контекст пользователя, если заголовки есть.
// Без заголовков запрос проходит как анонимный.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := identityFromHeaders(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

// Auth требует X-User-ID, иначе 401
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFromHeaders(r)
		if !ok {
			handlers.RespondUnauthorized(w, msgUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// WithIdentity кладёт пользователя в контекст
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity достаёт пользователя из контекста
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

func identityFromHeaders(r *http.Request) (domain.Identity, bool) {
	userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if userID == "" || userID == domain.AnonymousUserID {
		return domain.Identity{}, false
	}
	verified, _ := strconv.ParseBool(r.Header.Get(HeaderEmailVerified))
	return domain.Identity{
		UserID:        userID,
		Email:         strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
		EmailVerified: verified,
	}, true
}
