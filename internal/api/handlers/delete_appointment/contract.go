package delete_appointment

import (
	"context"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

type AppointmentService interface {
	Delete(ctx context.Context, id string, identity domain.Identity) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
