package get_available_slots

import (
	"net/http"
	"strings"

	"github.com/m04kA/barbershop-booking/internal/api/handlers"
	"github.com/m04kA/barbershop-booking/internal/booking"
	getAvailableSlots "github.com/m04kA/barbershop-booking/internal/usecase/get_available_slots"
)

const (
	msgMissingDate    = "datum je povinný"
	msgMissingService = "služba je povinná"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots
// Query params: date (required, YYYY-MM-DD), service (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		h.logger.Warn("GET /available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	service := strings.TrimSpace(r.URL.Query().Get("service"))
	if service == "" {
		h.logger.Warn("GET /available-slots - Missing service")
		handlers.RespondBadRequest(w, msgMissingService)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		Date:        date,
		ServiceName: service,
	})
	if err != nil {
		if booking.IsRejection(err) {
			h.logger.Warn("GET /available-slots - Rejected: date=%s, service=%q, reason=%s", date, service, booking.Reason(err))
			handlers.RespondRejection(w, err)
			return
		}
		h.logger.Error("GET /available-slots - Failed to get slots: date=%s, service=%q, error=%v", date, service, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /available-slots - Slots retrieved successfully: date=%s, service=%q, slots_count=%d",
		date, service, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
