package get_user_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/barbershop-booking/internal/api/handlers"
	"github.com/m04kA/barbershop-booking/internal/api/middleware"
	"github.com/m04kA/barbershop-booking/internal/service/appointments"
)

const msgMissingUserID = "chybí ID uživatele"

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

// Handle GET /api/v1/me/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /me/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ListMine(r.Context(), identity)
	if err != nil {
		if errors.Is(err, appointments.ErrAccessDenied) {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		h.logger.Error("GET /me/appointments - Failed to get appointments: user_id=%s, error=%v", identity.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /me/appointments - Appointments retrieved successfully: user_id=%s, count=%d",
		identity.UserID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
