package vacations

import (
	"context"

	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/internal/service/vacations/models"
)

type VacationService interface {
	List(ctx context.Context, identity domain.Identity) (*models.VacationListResponse, error)
	Create(ctx context.Context, req *models.CreateVacationRequest, identity domain.Identity) (*models.VacationResponse, error)
	Delete(ctx context.Context, id int64, identity domain.Identity) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
