package vacations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/barbershop-booking/internal/api/handlers"
	"github.com/m04kA/barbershop-booking/internal/api/middleware"
	"github.com/m04kA/barbershop-booking/internal/service/vacations"
	"github.com/m04kA/barbershop-booking/internal/service/vacations/models"
)

const (
	msgMissingUserID      = "chybí ID uživatele"
	msgInvalidRequestBody = "neplatné tělo požadavku"
	msgInvalidVacationID  = "neplatné ID dovolené"
	msgInvalidVacation    = "neplatné datum nebo čas dovolené"
	msgNotFound           = "dovolená nebyla nalezena"
	msgForbidden          = "přístup odepřen"
)

// Handler администрирование отпусков
type Handler struct {
	service VacationService
	logger  Logger
}

func NewHandler(service VacationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/admin/vacations
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.List(r.Context(), identity)
	if err != nil {
		h.respondServiceError(w, "GET /admin/vacations", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/admin/vacations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateVacationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/vacations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req, identity)
	if err != nil {
		h.respondServiceError(w, "POST /admin/vacations", err)
		return
	}

	h.logger.Info("POST /admin/vacations - Vacation created successfully: vacation_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Delete DELETE /api/v1/admin/vacations/{vacationId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vacationID, err := strconv.ParseInt(mux.Vars(r)["vacationId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /admin/vacations/{id} - Invalid vacation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVacationID)
		return
	}

	if err := h.service.Delete(r.Context(), vacationID, identity); err != nil {
		h.respondServiceError(w, "DELETE /admin/vacations/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/vacations/{id} - Vacation deleted successfully: vacation_id=%d", vacationID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, vacations.ErrAccessDenied):
		h.logger.Warn("%s - Access denied", route)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, vacations.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidVacation)

	case errors.Is(err, vacations.ErrVacationNotFound):
		h.logger.Warn("%s - Vacation not found", route)
		handlers.RespondNotFound(w, msgNotFound)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
