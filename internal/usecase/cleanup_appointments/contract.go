package cleanup_appointments

import (
	"context"
	"time"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListStartedBefore(ctx context.Context, cutoffMs int64, limit int) ([]*domain.Appointment, error)
	ListLegacy(ctx context.Context, afterCreatedAt time.Time, afterID string, limit int) ([]*domain.Appointment, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	SetStartsAt(ctx context.Context, id string, startsAtMs int64) error
}

// NotificationLogRepository интерфейс журнала уведомлений
type NotificationLogRepository interface {
	DeleteByAppointmentIDs(ctx context.Context, ids []string) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики очистки
type Metrics interface {
	RetentionSwept(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
