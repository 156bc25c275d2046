package update_appointment_status

import (
	"context"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

type AppointmentService interface {
	UpdateStatus(ctx context.Context, id string, status string, identity domain.Identity) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
