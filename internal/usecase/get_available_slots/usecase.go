package get_available_slots

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/barbershop-booking/internal/booking"
	"github.com/m04kA/barbershop-booking/internal/catalog"
	"github.com/m04kA/barbershop-booking/internal/domain"
)

// UseCase use case для получения свободных времён на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	vacationRepo    VacationRepository
	checker         *booking.Checker
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	vacationRepo VacationRepository,
	checker *booking.Checker,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		vacationRepo:    vacationRepo,
		checker:         checker,
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных времён
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	req.Date = strings.TrimSpace(req.Date)
	uc.logger.Info("GetAvailableSlots: date=%s, service=%q", req.Date, req.ServiceName)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата за горизонтом - ошибка, прошедшая или выходной - пустой список
	if uc.checker.Calendar().BeyondHorizon(req.Date) {
		uc.logger.Warn("GetAvailableSlots: date %s is beyond the booking horizon", req.Date)
		return nil, booking.ErrTooFarInAdvance
	}

	response := &Response{
		Date:            req.Date,
		ServiceName:     req.ServiceName,
		DurationMinutes: catalog.Duration(req.ServiceName),
	}

	if !uc.checker.Hours().IsOpen(uc.checker.Calendar().WeekdayIndex(req.Date)) {
		uc.logger.Info("GetAvailableSlots: closed on %s", req.Date)
		response.Slots = []domain.AvailableSlot{}
		return response, nil
	}

	// 3. Отпуска и записи на дату
	vacations, err := uc.vacationRepo.ListCovering(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get vacations: %v", err)
		return nil, fmt.Errorf("%w: failed to get vacations: %v", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.ListByDate(ctx, req.Date, false)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 4. Генерируем слоты
	response.Slots = generateSlots(uc.checker, req.Date, req.ServiceName, vacations, appointments)

	uc.logger.Info("GetAvailableSlots: %d free slots on %s for %q", len(response.Slots), req.Date, req.ServiceName)
	return response, nil
}
