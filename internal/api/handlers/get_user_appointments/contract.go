package get_user_appointments

import (
	"context"

	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/internal/service/appointments/models"
)

type AppointmentService interface {
	ListMine(ctx context.Context, identity domain.Identity) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
