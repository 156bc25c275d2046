package cleanup_appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/barbershop-booking/internal/calendar"
	"github.com/m04kA/barbershop-booking/internal/domain"
	appointmentRepo "github.com/m04kA/barbershop-booking/internal/infra/storage/appointment"
)

// DefaultBatchSize сколько записей удаляется за одну транзакцию
const DefaultBatchSize = 500

// UseCase удаляет записи, начавшиеся более 24 часов назад, вместе с журналом уведомлений
type UseCase struct {
	appointmentRepo AppointmentRepository
	logRepo         NotificationLogRepository
	txManager       TransactionManager
	cal             *calendar.Calendar
	metrics         Metrics
	logger          Logger
	batchSize       int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	logRepo NotificationLogRepository,
	txManager TransactionManager,
	cal *calendar.Calendar,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		logRepo:         logRepo,
		txManager:       txManager,
		cal:             cal,
		metrics:         metrics,
		logger:          logger,
		batchSize:       DefaultBatchSize,
	}
}

// WithBatchSize задает размер пачки
func (uc *UseCase) WithBatchSize(n int) *UseCase {
	if n > 0 {
		uc.batchSize = n
	}
	return uc
}

// Execute выполняет один проход очистки.
// Старые записи без starts_at_ms просматриваются целиком, постранично:
// время выводится из даты и времени, просроченные удаляются, остальным
// время проставляется один раз. Нечитаемые записи пропускаются.
func (uc *UseCase) Execute(ctx context.Context) (*Report, error) {
	now := uc.cal.Clock().Now()
	cutoff := now.Add(-domain.RetentionAge).UnixMilli()
	report := &Report{}

	uc.logger.Info("CleanupAppointments: removing appointments started before %s",
		time.UnixMilli(cutoff).In(uc.cal.Location()).Format(time.RFC3339))

	// 1. Записи с абсолютным временем начала
	for {
		expired, err := uc.appointmentRepo.ListStartedBefore(ctx, cutoff, uc.batchSize)
		if err != nil {
			uc.logger.Error("CleanupAppointments: failed to list expired appointments: %v", err)
			return report, fmt.Errorf("%w: failed to list expired appointments: %v", ErrInternal, err)
		}
		if len(expired) == 0 {
			break
		}

		n, err := uc.deleteBatch(ctx, ids(expired))
		if err != nil {
			return report, err
		}
		report.Deleted += n

		if len(expired) < uc.batchSize || n == 0 {
			break
		}
	}

	// 2. Старые записи: курсор по (created_at, id), чтобы нечитаемые строки
	// не закрывали собой остальные
	var (
		afterCreatedAt time.Time
		afterID        string
	)
	for {
		legacy, err := uc.appointmentRepo.ListLegacy(ctx, afterCreatedAt, afterID, uc.batchSize)
		if err != nil {
			uc.logger.Error("CleanupAppointments: failed to list legacy appointments: %v", err)
			return report, fmt.Errorf("%w: failed to list legacy appointments: %v", ErrInternal, err)
		}
		if len(legacy) == 0 {
			break
		}
		last := legacy[len(legacy)-1]
		afterCreatedAt, afterID = last.CreatedAt, last.ID

		if err := uc.sweepLegacyPage(ctx, legacy, cutoff, report); err != nil {
			return report, err
		}

		if len(legacy) < uc.batchSize {
			break
		}
	}

	if uc.metrics != nil {
		uc.metrics.RetentionSwept(report.Total())
	}

	uc.logger.Info("CleanupAppointments: deleted=%d, legacyDeleted=%d, backfilled=%d, skipped=%d",
		report.Deleted, report.LegacyDeleted, report.Backfilled, report.Skipped)
	return report, nil
}

// sweepLegacyPage удаляет просроченные записи страницы и проставляет время остальным
func (uc *UseCase) sweepLegacyPage(ctx context.Context, legacy []*domain.Appointment, cutoff int64, report *Report) error {
	var expired []string
	for _, a := range legacy {
		startsAt, err := uc.cal.LocalToUTC(a.Date, a.Time)
		if err != nil {
			uc.logger.Warn("CleanupAppointments: skipping appointment id=%s with unparseable date/time %q %q: %v",
				a.ID, a.Date, a.Time, err)
			report.Skipped++
			continue
		}

		if startsAt < cutoff {
			expired = append(expired, a.ID)
			continue
		}

		if err := uc.appointmentRepo.SetStartsAt(ctx, a.ID, startsAt); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				// уже проставлено или удалено параллельно
				continue
			}
			uc.logger.Error("CleanupAppointments: failed to backfill appointment id=%s: %v", a.ID, err)
			return fmt.Errorf("%w: failed to backfill appointment: %v", ErrInternal, err)
		}
		report.Backfilled++
	}

	if len(expired) > 0 {
		n, err := uc.deleteBatch(ctx, expired)
		if err != nil {
			return err
		}
		report.LegacyDeleted += n
	}
	return nil
}

func (uc *UseCase) deleteBatch(ctx context.Context, appointmentIDs []string) (int, error) {
	var deleted int64

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := uc.logRepo.DeleteByAppointmentIDs(txCtx, appointmentIDs); err != nil {
			return fmt.Errorf("%w: failed to delete notification log: %v", ErrInternal, err)
		}
		n, err := uc.appointmentRepo.DeleteByIDs(txCtx, appointmentIDs)
		if err != nil {
			return fmt.Errorf("%w: failed to delete appointments: %v", ErrInternal, err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		uc.logger.Error("CleanupAppointments: failed to delete batch of %d: %v", len(appointmentIDs), err)
		return 0, err
	}

	return int(deleted), nil
}

func ids(appointments []*domain.Appointment) []string {
	out := make([]string, 0, len(appointments))
	for _, a := range appointments {
		out = append(out, a.ID)
	}
	return out
}
