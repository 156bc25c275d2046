package create_appointment

import (
	"time"

	"github.com/m04kA/barbershop-booking/internal/domain"
	createAppointment "github.com/m04kA/barbershop-booking/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	CustomerName    string  `json:"customerName" validate:"required,max=100"`
	CustomerEmail   string  `json:"customerEmail" validate:"required,email"`
	CustomerPhone   *string `json:"customerPhone,omitempty" validate:"omitempty,max=30"`
	Service         string  `json:"service" validate:"required,max=100"`
	Date            string  `json:"date" validate:"required,isodate"` // "2026-10-23"
	Time            string  `json:"time" validate:"required,hhmm"`    // "10:00"
	DurationMinutes *int    `json:"durationMinutes,omitempty" validate:"omitempty,min=0,max=480"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	Service         string  `json:"service"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	StartsAtMs      int64   `json:"startsAtMs"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           int     `json:"price"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(identity domain.Identity) *createAppointment.Request {
	return &createAppointment.Request{
		Identity:         identity,
		CustomerName:     r.CustomerName,
		CustomerEmail:    r.CustomerEmail,
		CustomerPhone:    r.CustomerPhone,
		ServiceName:      r.Service,
		Date:             r.Date,
		Time:             r.Time,
		DurationOverride: r.DurationMinutes,
		Notes:            r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		CustomerName:    resp.CustomerName,
		CustomerEmail:   resp.CustomerEmail,
		CustomerPhone:   resp.CustomerPhone,
		Service:         resp.ServiceName,
		Date:            resp.Date,
		Time:            resp.Time,
		StartsAtMs:      resp.StartsAtMs,
		DurationMinutes: resp.DurationMinutes,
		Price:           resp.Price,
		Status:          resp.Status,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
