package notifications

import (
	"context"

	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/internal/integrations/mailer"
	"github.com/m04kA/barbershop-booking/internal/tasks"
)

// AppointmentRepository чтение записи, о которой отправляется письмо
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
}

// LogRepository журнал попыток отправки
type LogRepository interface {
	Append(ctx context.Context, e *domain.NotificationLogEntry) error
}

// Mailer отправка письма через провайдера
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) (string, error)
}

// Registrar куда регистрируются обработчики задач
type Registrar interface {
	Register(name string, h tasks.Handler)
}

// Metrics метрики отправки
type Metrics interface {
	NotificationAttempt(kind, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
