package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	ListByDate(ctx context.Context, date string, includeCancelled bool) ([]*domain.Appointment, error)
}

// VacationRepository интерфейс репозитория отпусков
type VacationRepository interface {
	ListCovering(ctx context.Context, date string) ([]*domain.Vacation, error)
}

// TaskScheduler отложенные задачи: «выполнить name через delay»
type TaskScheduler interface {
	RunAfter(ctx context.Context, name string, payload interface{}, delay time.Duration) (string, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики бронирования
type Metrics interface {
	AppointmentCreated()
	AppointmentRejected(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
