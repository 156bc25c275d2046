package identity_webhook

import (
	"context"
	"time"

	"github.com/m04kA/barbershop-booking/internal/service/appointments/models"
)

type AppointmentService interface {
	LinkAnonymous(ctx context.Context, userID, email string, limit int) (*models.LinkResponse, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
