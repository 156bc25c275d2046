package domain

// Role of a user account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity caller as resolved by the identity provider
type Identity struct {
	UserID        string
	Email         string
	EmailVerified bool
}

// IsAuthenticated returns true if the caller has a stable subject id
func (i Identity) IsAuthenticated() bool {
	return i.UserID != "" && i.UserID != AnonymousUserID
}
