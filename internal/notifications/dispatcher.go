// Package notifications sends booking emails from background tasks.
// A send failure is recorded in the notification log and never bubbles up:
// the appointment that triggered it is already committed.
package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/barbershop-booking/internal/domain"
	appointmentRepo "github.com/m04kA/barbershop-booking/internal/infra/storage/appointment"
	"github.com/m04kA/barbershop-booking/internal/integrations/mailer"
	"github.com/m04kA/barbershop-booking/internal/tasks"
)

// ErrInternal возвращается при ошибках чтения данных (задача будет повторена)
var ErrInternal = errors.New("notifications: internal error")

var kinds = map[string]domain.NotificationKind{
	domain.TaskSendConfirmation: domain.NotificationConfirmation,
	domain.TaskSendReminder:     domain.NotificationReminder,
	domain.TaskSendStatusUpdate: domain.NotificationStatusUpdate,
}

// Config отправитель и подпись писем
type Config struct {
	From     string
	ShopName string
}

// Dispatcher обработчик задач send_confirmation, send_reminder, send_status_update
type Dispatcher struct {
	appointments AppointmentRepository
	log          LogRepository
	mailer       Mailer
	cfg          Config
	metrics      Metrics
	logger       Logger
}

// NewDispatcher создает диспетчер уведомлений
func NewDispatcher(
	appointments AppointmentRepository,
	log LogRepository,
	mailer Mailer,
	cfg Config,
	metrics Metrics,
	logger Logger,
) *Dispatcher {
	return &Dispatcher{
		appointments: appointments,
		log:          log,
		mailer:       mailer,
		cfg:          cfg,
		metrics:      metrics,
		logger:       logger,
	}
}

// Register регистрирует обработчики всех типов писем
func (d *Dispatcher) Register(r Registrar) {
	for name := range kinds {
		r.Register(name, d)
	}
}

// Handle обрабатывает одну задачу отправки
func (d *Dispatcher) Handle(ctx context.Context, task *domain.Task) error {
	kind, ok := kinds[task.Name]
	if !ok {
		return fmt.Errorf("%w: %s is not a notification task", tasks.ErrInvalidTask, task.Name)
	}

	var payload domain.AppointmentPayload
	if err := tasks.DecodePayload(task, &payload); err != nil {
		return err
	}

	a, err := d.appointments.GetByID(ctx, payload.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			d.logger.Warn("Notifications: %s for appointment id=%s dropped, appointment no longer exists", kind, payload.AppointmentID)
			return nil
		}
		return fmt.Errorf("%w: load appointment id=%s: %v", ErrInternal, payload.AppointmentID, err)
	}

	if kind == domain.NotificationReminder && a.IsCancelled() {
		d.logger.Info("Notifications: reminder for cancelled appointment id=%s skipped", a.ID)
		return nil
	}

	d.send(ctx, kind, a)
	return nil
}

func (d *Dispatcher) send(ctx context.Context, kind domain.NotificationKind, a *domain.Appointment) {
	entry := &domain.NotificationLogEntry{
		AppointmentID: a.ID,
		Kind:          kind,
		Recipient:     a.CustomerEmail,
	}

	providerID, err := d.deliver(ctx, kind, a)
	if err != nil {
		errText := err.Error()
		entry.Outcome = domain.OutcomeFailed
		entry.Error = &errText
		d.logger.Error("Notifications: %s to %s for appointment id=%s failed: %v", kind, a.CustomerEmail, a.ID, err)
	} else {
		entry.Outcome = domain.OutcomeSent
		entry.ProviderMessageID = &providerID
		d.logger.Info("Notifications: %s sent to %s for appointment id=%s", kind, a.CustomerEmail, a.ID)
	}

	if d.metrics != nil {
		d.metrics.NotificationAttempt(string(kind), string(entry.Outcome))
	}

	if err := d.log.Append(ctx, entry); err != nil {
		d.logger.Error("Notifications: failed to write log entry for appointment id=%s: %v", a.ID, err)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, kind domain.NotificationKind, a *domain.Appointment) (string, error) {
	msg, err := render(kind, d.cfg.ShopName, a)
	if err != nil {
		return "", err
	}

	return d.mailer.Send(ctx, mailer.Message{
		From:    d.cfg.From,
		To:      []string{a.CustomerEmail},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
}
