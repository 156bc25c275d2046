package vacations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/barbershop-booking/internal/calendar"
	"github.com/m04kA/barbershop-booking/internal/domain"
	vacationRepo "github.com/m04kA/barbershop-booking/internal/infra/storage/vacation"
	"github.com/m04kA/barbershop-booking/internal/service/vacations/models"
	"github.com/m04kA/barbershop-booking/pkg/types"
)

// Service сервис управления отпусками. Все операции только для администратора.
type Service struct {
	vacationRepo VacationRepository
	roleRepo     RoleRepository
	cal          *calendar.Calendar
	logger       Logger
}

// NewService создает новый экземпляр сервиса отпусков
func NewService(
	vacationRepo VacationRepository,
	roleRepo RoleRepository,
	cal *calendar.Calendar,
	logger Logger,
) *Service {
	return &Service{
		vacationRepo: vacationRepo,
		roleRepo:     roleRepo,
		cal:          cal,
		logger:       logger,
	}
}

// List возвращает отпуска, которые ещё не закончились
func (s *Service) List(ctx context.Context, identity domain.Identity) (*models.VacationListResponse, error) {
	if err := s.requireAdmin(ctx, "List", identity); err != nil {
		return nil, err
	}

	today := s.cal.Now().Date
	vacations, err := s.vacationRepo.ListFrom(ctx, today)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d vacations from %s", len(vacations), today)
	return models.FromDomainVacationList(vacations), nil
}

// Create создает отпуск
func (s *Service) Create(ctx context.Context, req *models.CreateVacationRequest, identity domain.Identity) (*models.VacationResponse, error) {
	s.logger.Info("Create: creating vacation %s..%s by user=%s", req.StartDate, req.EndDate, identity.UserID)

	if err := s.requireAdmin(ctx, "Create", identity); err != nil {
		return nil, err
	}

	vacation := req.ToDomainVacation()
	vacation.StartTime = trimmed(vacation.StartTime)
	vacation.EndTime = trimmed(vacation.EndTime)
	vacation.Note = trimmed(vacation.Note)

	if err := validateVacation(vacation); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.vacationRepo.Create(ctx, vacation)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created vacation id=%d", created.ID)
	return models.FromDomainVacation(created), nil
}

// Delete удаляет отпуск
func (s *Service) Delete(ctx context.Context, id int64, identity domain.Identity) error {
	s.logger.Info("Delete: deleting vacation id=%d by user=%s", id, identity.UserID)

	if err := s.requireAdmin(ctx, "Delete", identity); err != nil {
		return err
	}

	if err := s.vacationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, vacationRepo.ErrVacationNotFound) {
			s.logger.Warn("Delete: vacation id=%d not found", id)
			return ErrVacationNotFound
		}
		s.logger.Error("Delete: repository error for vacation id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted vacation id=%d", id)
	return nil
}

// validateVacation проверяет даты и время отпуска
func validateVacation(v *domain.Vacation) error {
	if _, err := calendar.ParseDate(v.StartDate); err != nil {
		return fmt.Errorf("%w: invalid start date", ErrInvalidInput)
	}
	if _, err := calendar.ParseDate(v.EndDate); err != nil {
		return fmt.Errorf("%w: invalid end date", ErrInvalidInput)
	}
	if v.EndDate < v.StartDate {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	if (v.StartTime == nil) != (v.EndTime == nil) {
		return fmt.Errorf("%w: start and end time must be set together", ErrInvalidInput)
	}
	if v.IsFullDay() {
		return nil
	}

	start, err := types.ParseMinutes(*v.StartTime)
	if err != nil {
		return fmt.Errorf("%w: invalid start time", ErrInvalidInput)
	}
	end, err := types.ParseMinutes(*v.EndTime)
	if err != nil {
		return fmt.Errorf("%w: invalid end time", ErrInvalidInput)
	}
	if end <= start {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}

	return nil
}

func (s *Service) requireAdmin(ctx context.Context, op string, identity domain.Identity) error {
	if !identity.IsAuthenticated() {
		return ErrAccessDenied
	}
	isAdmin, err := s.roleRepo.IsAdmin(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("%s: failed to get role of user=%s: %v", op, identity.UserID, err)
		return fmt.Errorf("%w: %s - role lookup: %v", ErrInternal, op, err)
	}
	if !isAdmin {
		s.logger.Warn("%s: user=%s is not an admin", op, identity.UserID)
		return ErrAccessDenied
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
