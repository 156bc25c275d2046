package tasks

import (
	"context"
	"time"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

// Queue хранилище задач (таблица scheduled_tasks)
type Queue interface {
	Insert(ctx context.Context, t *domain.Task) error
	HasActive(ctx context.Context, name string) (bool, error)
	ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*domain.Task, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errText string, retryAt *time.Time) error
}

// Handler обработчик задачи одного типа
type Handler interface {
	Handle(ctx context.Context, task *domain.Task) error
}

// HandlerFunc адаптер функции к Handler
type HandlerFunc func(ctx context.Context, task *domain.Task) error

// Handle вызывает f
func (f HandlerFunc) Handle(ctx context.Context, task *domain.Task) error {
	return f(ctx, task)
}

// Metrics метрики обработки задач
type Metrics interface {
	TaskProcessed(name, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
