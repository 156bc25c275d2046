package models

import (
	"strings"
	"time"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

// Request модели

// CreateVacationRequest запрос на создание отпуска
type CreateVacationRequest struct {
	StartDate string  `json:"startDate"`           // "2026-12-23"
	EndDate   string  `json:"endDate"`             // "2027-01-02", включительно
	StartTime *string `json:"startTime,omitempty"` // без времени - весь день
	EndTime   *string `json:"endTime,omitempty"`
	Note      *string `json:"note,omitempty"`
}

// ToDomainVacation конвертирует request в domain модель
func (r *CreateVacationRequest) ToDomainVacation() *domain.Vacation {
	return &domain.Vacation{
		StartDate: strings.TrimSpace(r.StartDate),
		EndDate:   strings.TrimSpace(r.EndDate),
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Note:      r.Note,
	}
}

// Response модели

// VacationResponse ответ с данными отпуска
type VacationResponse struct {
	ID        int64     `json:"id"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	StartTime *string   `json:"startTime,omitempty"`
	EndTime   *string   `json:"endTime,omitempty"`
	FullDay   bool      `json:"fullDay"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// VacationListResponse ответ со списком отпусков
type VacationListResponse struct {
	Vacations []VacationResponse `json:"vacations"`
}

// FromDomainVacation конвертирует domain модель в DTO
func FromDomainVacation(v *domain.Vacation) *VacationResponse {
	if v == nil {
		return nil
	}
	return &VacationResponse{
		ID:        v.ID,
		StartDate: v.StartDate,
		EndDate:   v.EndDate,
		StartTime: v.StartTime,
		EndTime:   v.EndTime,
		FullDay:   v.IsFullDay(),
		Note:      v.Note,
		CreatedAt: v.CreatedAt,
	}
}

// FromDomainVacationList конвертирует список domain моделей в DTO
func FromDomainVacationList(vacations []*domain.Vacation) *VacationListResponse {
	resp := &VacationListResponse{
		Vacations: make([]VacationResponse, 0, len(vacations)),
	}
	for _, v := range vacations {
		if item := FromDomainVacation(v); item != nil {
			resp.Vacations = append(resp.Vacations, *item)
		}
	}
	return resp
}
