package get_date_appointments

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/barbershop-booking/internal/api/handlers"
	"github.com/m04kA/barbershop-booking/internal/api/middleware"
	"github.com/m04kA/barbershop-booking/internal/service/appointments"
)

const (
	msgMissingUserID = "chybí ID uživatele"
	msgInvalidDate   = "neplatné datum, očekává se YYYY-MM-DD"
	msgForbidden     = "přístup odepřen"
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

// Handle GET /api/v1/admin/appointments?date=YYYY-MM-DD
// Возвращает все записи на дату, включая отменённые
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("GET /admin/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))

	result, err := h.service.ListByDate(r.Context(), date, identity)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /admin/appointments - Access denied: user_id=%s", identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /admin/appointments - Invalid date: %q", date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /admin/appointments - Failed to get appointments: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/appointments - Appointments retrieved successfully: date=%s, count=%d",
		date, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
