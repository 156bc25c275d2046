package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/barbershop-booking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	Service         string          `json:"service"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель свободного времени
type AvailableSlot struct {
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "10:30"
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, AvailableSlot{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
		})
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date,
		Service:         resp.ServiceName,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
