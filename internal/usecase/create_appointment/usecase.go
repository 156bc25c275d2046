package create_appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/barbershop-booking/internal/booking"
	"github.com/m04kA/barbershop-booking/internal/catalog"
	"github.com/m04kA/barbershop-booking/internal/domain"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	vacationRepo    VacationRepository
	checker         *booking.Checker
	scheduler       TaskScheduler
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	vacationRepo VacationRepository,
	checker *booking.Checker,
	scheduler TaskScheduler,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		vacationRepo:    vacationRepo,
		checker:         checker,
		scheduler:       scheduler,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
//
// Проверка пересечений и вставка идут в одной read-committed транзакции,
// но без блокировки даты: два параллельных запроса на одну дату могут оба
// пройти проверку. Такие двойные записи разбираются вручную в админке.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%s, service=%q, date=%s, time=%s",
		ownerOf(req.Identity), req.ServiceName, req.Date, req.Time)

	// 1. Валидация обязательных полей
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, uc.reject(err)
	}

	// 2. Формат, горизонт, время до начала, длительность, рабочие часы
	slot, err := uc.checker.PreCheck(booking.Proposal{
		Date:             strings.TrimSpace(req.Date),
		Time:             strings.TrimSpace(req.Time),
		Service:          req.ServiceName,
		DurationOverride: req.DurationOverride,
	})
	if err != nil {
		uc.logger.Warn("CreateAppointment: slot %s %s rejected: %v", req.Date, req.Time, err)
		return nil, uc.reject(err)
	}

	if req.DurationOverride == nil && !catalog.IsKnown(req.ServiceName) {
		uc.logger.Warn("CreateAppointment: unknown service %q, using default duration %d min",
			req.ServiceName, catalog.DefaultDurationMinutes)
	}

	var result *domain.Appointment

	// 3. Отпуска, пересечения и вставка
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		vacations, err := uc.vacationRepo.ListCovering(txCtx, slot.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get vacations for %s: %v", slot.Date, err)
			return fmt.Errorf("%w: failed to get vacations: %v", ErrInternal, err)
		}

		skipped, err := uc.checker.CheckVacations(slot, vacations)
		for _, v := range skipped {
			uc.logger.Warn("CreateAppointment: vacation id=%d has unparseable times, ignored", v.ID)
		}
		if err != nil {
			uc.logger.Warn("CreateAppointment: slot %s %s overlaps vacation", slot.Date, req.Time)
			return err
		}

		existing, err := uc.appointmentRepo.ListByDate(txCtx, slot.Date, false)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments for %s: %v", slot.Date, err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		if err := uc.checker.CheckConflicts(slot, existing); err != nil {
			uc.logger.Warn("CreateAppointment: %v", err)
			return err
		}

		startsAt := slot.StartsAtMs
		appointment := &domain.Appointment{
			ID:              uuid.NewString(),
			UserID:          ownerOf(req.Identity),
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
			CustomerPhone:   trimmed(req.CustomerPhone),
			ServiceName:     strings.TrimSpace(req.ServiceName),
			Date:            slot.Date,
			Time:            strings.TrimSpace(req.Time),
			StartsAtMs:      &startsAt,
			DurationMinutes: req.DurationOverride,
			Status:          domain.StatusPending,
			Notes:           trimmed(req.Notes),
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created

		// 4. Письма ставятся в ту же транзакцию (outbox): без записи их не будет,
		// а ошибка постановки запись не откатывает
		uc.scheduleNotifications(txCtx, created)
		return nil
	})

	if err != nil {
		return nil, uc.reject(err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%s", result.ID)
	if uc.metrics != nil {
		uc.metrics.AppointmentCreated()
	}

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		CustomerName:    result.CustomerName,
		CustomerEmail:   result.CustomerEmail,
		CustomerPhone:   result.CustomerPhone,
		ServiceName:     result.ServiceName,
		Date:            result.Date,
		Time:            result.Time,
		StartsAtMs:      slot.StartsAtMs,
		DurationMinutes: slot.DurationMinutes,
		Price:           catalog.Price(result.ServiceName),
		Status:          string(result.Status),
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
	}, nil
}

func (uc *UseCase) scheduleNotifications(ctx context.Context, a *domain.Appointment) {
	payload := domain.AppointmentPayload{AppointmentID: a.ID}

	if _, err := uc.scheduler.RunAfter(ctx, domain.TaskSendConfirmation, payload, 0); err != nil {
		uc.logger.Error("CreateAppointment: failed to schedule confirmation for id=%s: %v", a.ID, err)
	}

	now := uc.checker.Calendar().Clock().Now()
	delay := time.UnixMilli(*a.StartsAtMs).Add(-domain.ReminderLead).Sub(now)
	if delay <= 0 {
		return
	}
	if _, err := uc.scheduler.RunAfter(ctx, domain.TaskSendReminder, payload, delay); err != nil {
		uc.logger.Error("CreateAppointment: failed to schedule reminder for id=%s: %v", a.ID, err)
	}
}

func (uc *UseCase) reject(err error) error {
	if uc.metrics != nil && booking.IsRejection(err) {
		uc.metrics.AppointmentRejected(booking.Reason(err))
	}
	return err
}

func ownerOf(id domain.Identity) string {
	if id.IsAuthenticated() {
		return id.UserID
	}
	return domain.AnonymousUserID
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
