package models

import (
	"time"

	"github.com/m04kA/barbershop-booking/internal/catalog"
	"github.com/m04kA/barbershop-booking/internal/domain"
)

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	ServiceName   string  `json:"serviceName"`
	Date          string  `json:"date"` // "2026-10-23"
	Time          string  `json:"time"` // "10:00"
	StartsAtMs    *int64  `json:"startsAtMs,omitempty"`

	// Длительность и цена всегда по каталогу, как при проверке пересечений
	DurationMinutes          int  `json:"durationMinutes"`
	RequestedDurationMinutes *int `json:"requestedDurationMinutes,omitempty"`
	Price                    int  `json:"price"`

	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// LinkResponse результат привязки анонимных записей
type LinkResponse struct {
	UserID string `json:"userId"`
	Linked int64  `json:"linked"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	quote := catalog.Resolve(a.ServiceName)

	return &AppointmentResponse{
		ID:                       a.ID,
		UserID:                   a.UserID,
		CustomerName:             a.CustomerName,
		CustomerEmail:            a.CustomerEmail,
		CustomerPhone:            a.CustomerPhone,
		ServiceName:              a.ServiceName,
		Date:                     a.Date,
		Time:                     a.Time,
		StartsAtMs:               a.StartsAtMs,
		DurationMinutes:          quote.DurationMinutes,
		RequestedDurationMinutes: a.DurationMinutes,
		Price:                    quote.Price,
		Status:                   string(a.Status),
		Notes:                    a.Notes,
		CreatedAt:                a.CreatedAt,
		UpdatedAt:                a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}
