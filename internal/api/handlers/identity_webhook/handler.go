package identity_webhook

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/barbershop-booking/internal/api/handlers"
	"github.com/m04kA/barbershop-booking/internal/service/appointments"
)

// RecentSignInWindow user.updated связывает записи, только если вход был недавно
const RecentSignInWindow = 10 * time.Minute

const msgInvalidRequestBody = "neplatné tělo požadavku"

type Handler struct {
	service      AppointmentService
	timeProvider TimeProvider
	logger       Logger
}

func NewHandler(service AppointmentService, timeProvider TimeProvider, logger Logger) *Handler {
	return &Handler{
		service:      service,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Handle POST /api/v1/webhooks/identity
// Единственная реакция на событие - привязка анонимных записей по email.
// Неподходящие события подтверждаются 200, чтобы провайдер не повторял их.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var event Event
	if err := handlers.DecodeJSONLoose(r, &event); err != nil {
		h.logger.Warn("POST /webhooks/identity - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if reason := h.skipReason(event); reason != "" {
		h.logger.Info("POST /webhooks/identity - Event ignored: type=%s, reason=%s", event.Type, reason)
		handlers.RespondJSON(w, http.StatusOK, LinkResponse{Ignored: reason})
		return
	}

	userID := event.Data.Subject()
	result, err := h.service.LinkAnonymous(r.Context(), userID, event.Data.VerifiedEmail(), 0)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			h.logger.Warn("POST /webhooks/identity - Invalid event data: type=%s, user_id=%s", event.Type, userID)
			handlers.RespondJSON(w, http.StatusOK, LinkResponse{Ignored: "invalid_data"})
			return
		}
		h.logger.Error("POST /webhooks/identity - Failed to link appointments: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /webhooks/identity - Processed: type=%s, user_id=%s, linked=%d", event.Type, userID, result.Linked)
	handlers.RespondJSON(w, http.StatusOK, LinkResponse{Linked: result.Linked})
}

func (h *Handler) skipReason(event Event) string {
	switch event.Type {
	case EventUserCreated, EventSessionCreated:
	case EventUserUpdated:
		if event.Data.LastSignInAt == nil {
			return "no_recent_sign_in"
		}
		signedIn := time.UnixMilli(*event.Data.LastSignInAt)
		if h.timeProvider.Now().Sub(signedIn) > RecentSignInWindow {
			return "no_recent_sign_in"
		}
	default:
		return "unsupported_type"
	}

	if event.Data.Subject() == "" {
		return "missing_user"
	}
	if event.Data.VerifiedEmail() == "" {
		return "no_verified_email"
	}
	return ""
}
