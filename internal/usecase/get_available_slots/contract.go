package get_available_slots

import (
	"context"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListByDate(ctx context.Context, date string, includeCancelled bool) ([]*domain.Appointment, error)
}

// VacationRepository интерфейс репозитория отпусков
type VacationRepository interface {
	ListCovering(ctx context.Context, date string) ([]*domain.Vacation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
