package vacations

import (
	"context"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

// VacationRepository интерфейс репозитория отпусков
type VacationRepository interface {
	Create(ctx context.Context, v *domain.Vacation) (*domain.Vacation, error)
	ListFrom(ctx context.Context, fromDate string) ([]*domain.Vacation, error)
	Delete(ctx context.Context, id int64) error
}

// RoleRepository интерфейс репозитория ролей
type RoleRepository interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
