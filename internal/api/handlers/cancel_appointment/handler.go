package cancel_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/barbershop-booking/internal/api/handlers"
	"github.com/m04kA/barbershop-booking/internal/api/middleware"
	"github.com/m04kA/barbershop-booking/internal/service/appointments"
)

const (
	msgMissingUserID    = "chybí ID uživatele"
	msgNotFound         = "rezervace nebyla nalezena"
	msgForbidden        = "k této rezervaci nemáte přístup"
	msgAlreadyCancelled = "rezervace již byla zrušena"
	msgWindowClosed     = "Online zrušení je možné nejpozději 24 hodin před termínem."
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err := h.service.Cancel(r.Context(), appointmentID, identity)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Access denied: appointment_id=%s, user_id=%s",
				appointmentID, identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrAlreadyCancelled):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Already cancelled: appointment_id=%s", appointmentID)
			handlers.RespondErrorCode(w, http.StatusConflict, "already_cancelled", msgAlreadyCancelled)

		case errors.Is(err, appointments.ErrCancellationWindowClosed):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Cancellation window closed: appointment_id=%s", appointmentID)
			handlers.RespondErrorCode(w, http.StatusConflict, "cancellation_window_closed", msgWindowClosed)

		default:
			h.logger.Error("PATCH /appointments/{id}/cancel - Failed to cancel appointment: appointment_id=%s, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled successfully: appointment_id=%s, user_id=%s",
		appointmentID, identity.UserID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
