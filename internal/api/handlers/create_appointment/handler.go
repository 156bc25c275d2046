package create_appointment

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/barbershop-booking/internal/api/handlers"
	"github.com/m04kA/barbershop-booking/internal/api/middleware"
	"github.com/m04kA/barbershop-booking/internal/booking"
)

const (
	msgInvalidRequestBody = "neplatné tělo požadavku"
)

// Сообщения для полей, не прошедших validate
var fieldMessages = map[string]string{
	"Date": "Neplatný formát data.",
	"Time": "Neplatný formát času.",
}

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
// Без X-User-ID запись создаётся анонимно, тогда телефон обязателен.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /appointments - Validation failed: %v", err)
		handlers.RespondErrorCode(w, http.StatusBadRequest, booking.Reason(booking.ErrInvalidInput), validationMessage(err))
		return
	}

	identity, _ := middleware.GetIdentity(r.Context())

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(identity))
	if err != nil {
		if booking.IsRejection(err) {
			h.logger.Warn("POST /appointments - Rejected: date=%s, time=%s, reason=%s", req.Date, req.Time, booking.Reason(err))
			handlers.RespondRejection(w, err)
			return
		}
		h.logger.Error("POST /appointments - Failed to create appointment: date=%s, time=%s, error=%v", req.Date, req.Time, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%s, user_id=%s",
		result.ID, result.UserID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if msg, ok := fieldMessages[fe.Field()]; ok {
				return msg
			}
		}
	}
	return booking.Message(booking.ErrInvalidInput)
}
