package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/barbershop-booking/internal/calendar"
	"github.com/m04kA/barbershop-booking/internal/domain"
	appointmentRepo "github.com/m04kA/barbershop-booking/internal/infra/storage/appointment"
	"github.com/m04kA/barbershop-booking/internal/service/appointments/models"
)

// LinkConfig размер пачки при привязке анонимных записей
type LinkConfig struct {
	DefaultBatch int
	MaxBatch     int
}

// Service сервис жизненного цикла записей
type Service struct {
	appointmentRepo AppointmentRepository
	logRepo         NotificationLogRepository
	roleRepo        RoleRepository
	scheduler       TaskScheduler
	txManager       TransactionManager
	cal             *calendar.Calendar
	link            LinkConfig
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	logRepo NotificationLogRepository,
	roleRepo RoleRepository,
	scheduler TaskScheduler,
	txManager TransactionManager,
	cal *calendar.Calendar,
	link LinkConfig,
	logger Logger,
) *Service {
	if link.DefaultBatch <= 0 {
		link.DefaultBatch = domain.DefaultLinkBatch
	}
	if link.MaxBatch <= 0 {
		link.MaxBatch = domain.MaxLinkBatch
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		logRepo:         logRepo,
		roleRepo:        roleRepo,
		scheduler:       scheduler,
		txManager:       txManager,
		cal:             cal,
		link:            link,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Видна владельцу и администратору, для остальных её нет.
func (s *Service) GetByID(ctx context.Context, id string, identity domain.Identity) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%s", id, identity.UserID)

	appointment, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !appointment.IsOwnedBy(identity) {
		isAdmin, err := s.isAdmin(ctx, identity)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			s.logger.Warn("GetByID: appointment id=%s is not visible to user=%s", id, identity.UserID)
			return nil, ErrAppointmentNotFound
		}
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListMine возвращает записи вызывающего пользователя
func (s *Service) ListMine(ctx context.Context, identity domain.Identity) (*models.AppointmentListResponse, error) {
	if !identity.IsAuthenticated() {
		return nil, ErrAccessDenied
	}

	appointments, err := s.appointmentRepo.ListByUserID(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("ListMine: repository error for user=%s: %v", identity.UserID, err)
		return nil, fmt.Errorf("%w: ListMine - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListMine: fetched %d appointments for user=%s", len(appointments), identity.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// ListByDate возвращает все записи на дату, включая отменённые.
// Доступно только администратору.
func (s *Service) ListByDate(ctx context.Context, date string, identity domain.Identity) (*models.AppointmentListResponse, error) {
	if err := s.requireAdmin(ctx, "ListByDate", identity); err != nil {
		return nil, err
	}

	date = strings.TrimSpace(date)
	if _, err := calendar.ParseDate(date); err != nil {
		s.logger.Warn("ListByDate: invalid date=%q", date)
		return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.ListByDate(ctx, date, true)
	if err != nil {
		s.logger.Error("ListByDate: repository error for date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByDate: fetched %d appointments for date=%s", len(appointments), date)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись владельцем.
// Онлайн отмена возможна не позже чем за 24 часа до начала.
func (s *Service) Cancel(ctx context.Context, id string, identity domain.Identity) error {
	s.logger.Info("Cancel: cancelling appointment id=%s by user=%s", id, identity.UserID)

	appointment, err := s.get(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	if !appointment.IsOwnedBy(identity) {
		s.logger.Warn("Cancel: user=%s is not the owner of appointment id=%s", identity.UserID, id)
		return ErrAccessDenied
	}

	if appointment.IsCancelled() {
		s.logger.Warn("Cancel: appointment id=%s is already cancelled", id)
		return ErrAlreadyCancelled
	}

	startsAt, err := s.startsAt(appointment)
	if err != nil {
		s.logger.Error("Cancel: cannot derive start of appointment id=%s (%s %s): %v",
			id, appointment.Date, appointment.Time, err)
		return fmt.Errorf("%w: Cancel - derive start: %v", ErrInternal, err)
	}

	now := s.cal.Clock().Now()
	if startsAt.Sub(now) < domain.CancellationWindow {
		s.logger.Warn("Cancel: appointment id=%s starts in %s, cancellation window closed",
			id, startsAt.Sub(now).Round(time.Minute))
		return ErrCancellationWindowClosed
	}

	if err := s.updateStatus(ctx, "Cancel", id, domain.StatusCancelled); err != nil {
		return err
	}

	s.notifyStatusChange(ctx, id)
	s.logger.Info("Cancel: appointment id=%s cancelled", id)
	return nil
}

// UpdateStatus устанавливает статус записи. Доступно только администратору,
// ограничение 24 часов не действует.
func (s *Service) UpdateStatus(ctx context.Context, id string, status string, identity domain.Identity) error {
	s.logger.Info("UpdateStatus: updating appointment id=%s to status=%s by user=%s", id, status, identity.UserID)

	if err := s.requireAdmin(ctx, "UpdateStatus", identity); err != nil {
		return err
	}

	newStatus, ok := domain.ParseStatus(strings.TrimSpace(status))
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%q for appointment id=%s", status, id)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if err := s.updateStatus(ctx, "UpdateStatus", id, newStatus); err != nil {
		return err
	}

	s.notifyStatusChange(ctx, id)
	s.logger.Info("UpdateStatus: appointment id=%s set to %s", id, newStatus)
	return nil
}

// Delete удаляет запись вместе с журналом уведомлений. Только администратор.
func (s *Service) Delete(ctx context.Context, id string, identity domain.Identity) error {
	s.logger.Info("Delete: deleting appointment id=%s by user=%s", id, identity.UserID)

	if err := s.requireAdmin(ctx, "Delete", identity); err != nil {
		return err
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.logRepo.DeleteByAppointmentIDs(txCtx, []string{id}); err != nil {
			return fmt.Errorf("%w: Delete - delete notification log: %v", ErrInternal, err)
		}
		if err := s.appointmentRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%s not found", id)
		} else {
			s.logger.Error("Delete: failed to delete appointment id=%s: %v", id, err)
		}
		return err
	}

	s.logger.Info("Delete: appointment id=%s deleted", id)
	return nil
}

// LinkAnonymous переназначает анонимные записи с email пользователя на его ID.
// limit <= 0 означает размер пачки по умолчанию, больше максимума обрезается.
// Повторный вызов с теми же данными ничего не меняет.
func (s *Service) LinkAnonymous(ctx context.Context, userID, email string, limit int) (*models.LinkResponse, error) {
	userID = strings.TrimSpace(userID)
	email = strings.TrimSpace(email)

	if userID == "" || userID == domain.AnonymousUserID || email == "" {
		s.logger.Warn("LinkAnonymous: missing user id or email (user=%q)", userID)
		return nil, fmt.Errorf("%w: user id and email are required", ErrInvalidInput)
	}

	if limit <= 0 {
		limit = s.link.DefaultBatch
	}
	if limit > s.link.MaxBatch {
		limit = s.link.MaxBatch
	}

	linked, err := s.appointmentRepo.LinkAnonymousByEmail(ctx, email, userID, limit)
	if err != nil {
		s.logger.Error("LinkAnonymous: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: LinkAnonymous - repository error: %v", ErrInternal, err)
	}

	if linked > 0 {
		s.logger.Info("LinkAnonymous: linked %d appointments to user=%s", linked, userID)
	}
	return &models.LinkResponse{UserID: userID, Linked: linked}, nil
}

// Вспомогательные методы

func (s *Service) get(ctx context.Context, op, id string) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

func (s *Service) updateStatus(ctx context.Context, op, id string, status domain.AppointmentStatus) error {
	if err := s.appointmentRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found during update", op, id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return nil
}

// startsAt начало записи; для старых записей без starts_at_ms выводится из даты и времени
func (s *Service) startsAt(a *domain.Appointment) (time.Time, error) {
	if a.StartsAtMs != nil {
		return time.UnixMilli(*a.StartsAtMs), nil
	}
	ms, err := s.cal.LocalToUTC(a.Date, a.Time)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func (s *Service) notifyStatusChange(ctx context.Context, id string) {
	payload := domain.AppointmentPayload{AppointmentID: id}
	if _, err := s.scheduler.RunAfter(ctx, domain.TaskSendStatusUpdate, payload, 0); err != nil {
		s.logger.Error("notifyStatusChange: failed to schedule status update for id=%s: %v", id, err)
	}
}

func (s *Service) isAdmin(ctx context.Context, identity domain.Identity) (bool, error) {
	if !identity.IsAuthenticated() {
		return false, nil
	}
	isAdmin, err := s.roleRepo.IsAdmin(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("isAdmin: failed to get role of user=%s: %v", identity.UserID, err)
		return false, fmt.Errorf("%w: isAdmin - role lookup: %v", ErrInternal, err)
	}
	return isAdmin, nil
}

func (s *Service) requireAdmin(ctx context.Context, op string, identity domain.Identity) error {
	isAdmin, err := s.isAdmin(ctx, identity)
	if err != nil {
		return err
	}
	if !isAdmin {
		s.logger.Warn("%s: user=%s is not an admin", op, identity.UserID)
		return ErrAccessDenied
	}
	return nil
}
