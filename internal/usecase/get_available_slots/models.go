package get_available_slots

import "github.com/m04kA/barbershop-booking/internal/domain"

// Request модель запроса на получение свободных времён
type Request struct {
	Date        string // YYYY-MM-DD
	ServiceName string
}

// Response модель ответа со списком свободных времён
type Response struct {
	Date            string
	ServiceName     string
	DurationMinutes int
	Slots           []domain.AvailableSlot
}
