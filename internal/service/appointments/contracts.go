package appointments

import (
	"context"
	"time"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByDate(ctx context.Context, date string, includeCancelled bool) ([]*domain.Appointment, error)
	ListByUserID(ctx context.Context, userID string) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error
	Delete(ctx context.Context, id string) error
	LinkAnonymousByEmail(ctx context.Context, email, userID string, limit int) (int64, error)
}

// NotificationLogRepository интерфейс журнала уведомлений
type NotificationLogRepository interface {
	DeleteByAppointmentIDs(ctx context.Context, ids []string) (int64, error)
}

// RoleRepository интерфейс репозитория ролей
type RoleRepository interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// TaskScheduler отложенные задачи
type TaskScheduler interface {
	RunAfter(ctx context.Context, name string, payload interface{}, delay time.Duration) (string, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
