package identity_webhook

import "strings"

// Типы событий провайдера идентификации
const (
	EventUserCreated    = "user.created"
	EventUserUpdated    = "user.updated"
	EventSessionCreated = "session.created"
)

// Event событие провайдера идентификации
type Event struct {
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData полезная нагрузка события; лишние поля игнорируются
type EventData struct {
	ID                    string         `json:"id"`      // user.* события
	UserID                string         `json:"user_id"` // session.* события
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
	LastSignInAt          *int64         `json:"last_sign_in_at"` // epoch ms
}

// EmailAddress адрес пользователя у провайдера
type EmailAddress struct {
	ID           string        `json:"id"`
	EmailAddress string        `json:"email_address"`
	Verification *Verification `json:"verification"`
}

// Verification статус подтверждения адреса
type Verification struct {
	Status string `json:"status"`
}

// LinkResponse HTTP response model
type LinkResponse struct {
	Linked  int64  `json:"linked"`
	Ignored string `json:"ignored,omitempty"`
}

// Subject ID пользователя из события
func (d EventData) Subject() string {
	if d.UserID != "" {
		return d.UserID
	}
	return d.ID
}

// VerifiedEmail подтверждённый адрес: основной, иначе первый подтверждённый
func (d EventData) VerifiedEmail() string {
	var first string
	for _, e := range d.EmailAddresses {
		if e.Verification == nil || e.Verification.Status != "verified" {
			continue
		}
		addr := strings.TrimSpace(e.EmailAddress)
		if addr == "" {
			continue
		}
		if e.ID == d.PrimaryEmailAddressID {
			return addr
		}
		if first == "" {
			first = addr
		}
	}
	return first
}
