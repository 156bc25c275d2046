package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

// DefaultMaxAttempts попыток на задачу, если не задано иное
const DefaultMaxAttempts = 5

// Scheduler ставит задачи в очередь: «выполнить name через delay»
type Scheduler struct {
	queue        Queue
	maxAttempts  int
	timeProvider TimeProvider
	logger       Logger
}

// NewScheduler создает планировщик
func NewScheduler(queue Queue, maxAttempts int, logger Logger) *Scheduler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Scheduler{
		queue:        queue,
		maxAttempts:  maxAttempts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет часы (для тестов)
func (s *Scheduler) WithTimeProvider(tp TimeProvider) *Scheduler {
	s.timeProvider = tp
	return s
}

// RunAfter ставит задачу name с payload на выполнение через delay.
// Отрицательная задержка трактуется как «немедленно».
// Внутри транзакции задача фиксируется вместе с ней.
func (s *Scheduler) RunAfter(ctx context.Context, name string, payload interface{}, delay time.Duration) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidTask)
	}
	if delay < 0 {
		delay = 0
	}

	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("%w: marshal payload: %v", ErrInvalidTask, err)
		}
		raw = b
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		Name:        name,
		Payload:     raw,
		RunAt:       s.timeProvider.Now().Add(delay).UTC(),
		MaxAttempts: s.maxAttempts,
	}

	if err := s.queue.Insert(ctx, task); err != nil {
		return "", fmt.Errorf("%w: RunAfter - insert %s: %v", ErrInternal, name, err)
	}

	s.logger.Info("Scheduler: task %s id=%s scheduled at %s", name, task.ID, task.RunAt.Format(time.RFC3339))
	return task.ID, nil
}

// EnsureScheduled ставит задачу, только если такой ещё нет в очереди.
// Используется для периодических задач при старте сервиса.
func (s *Scheduler) EnsureScheduled(ctx context.Context, name string, delay time.Duration) (bool, error) {
	active, err := s.queue.HasActive(ctx, name)
	if err != nil {
		return false, fmt.Errorf("%w: EnsureScheduled - check %s: %v", ErrInternal, name, err)
	}
	if active {
		return false, nil
	}
	if _, err := s.RunAfter(ctx, name, nil, delay); err != nil {
		return false, err
	}
	return true, nil
}

// Recurring оборачивает обработчик так, что задача ставится снова через every
// после успешного запуска или после последней неудачной попытки.
// Промежуточные ошибки повторяет воркер, новая цепочка при этом не создаётся.
func (s *Scheduler) Recurring(name string, every time.Duration, h Handler) Handler {
	return HandlerFunc(func(ctx context.Context, task *domain.Task) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: handler panic: %v", ErrInternal, r)
			}
			if err != nil && task.Attempts < task.MaxAttempts {
				return
			}
			if _, schedErr := s.RunAfter(ctx, name, nil, every); schedErr != nil {
				s.logger.Error("Scheduler: failed to re-schedule %s: %v", name, schedErr)
			}
		}()
		return h.Handle(ctx, task)
	})
}

// DecodePayload разбирает payload задачи
func DecodePayload(task *domain.Task, v interface{}) error {
	if len(task.Payload) == 0 {
		return fmt.Errorf("%w: empty payload for %s", ErrInvalidTask, task.Name)
	}
	if err := json.Unmarshal(task.Payload, v); err != nil {
		return fmt.Errorf("%w: decode payload for %s: %v", ErrInvalidTask, task.Name, err)
	}
	return nil
}
