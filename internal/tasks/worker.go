package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

// WorkerConfig параметры опроса очереди
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	Lease        time.Duration
	Backoff      time.Duration
}

func (c *WorkerConfig) applyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 20
	}
	if c.Lease <= 0 {
		c.Lease = 5 * time.Minute
	}
	if c.Backoff <= 0 {
		c.Backoff = time.Minute
	}
}

// Worker забирает готовые задачи из очереди и передаёт их обработчикам.
// Каждую строку одновременно держит только один воркер (аренда в ClaimDue).
type Worker struct {
	queue        Queue
	cfg          WorkerConfig
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger

	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewWorker создает воркер
func NewWorker(queue Queue, cfg WorkerConfig, metrics Metrics, logger Logger) *Worker {
	cfg.applyDefaults()
	return &Worker{
		queue:        queue,
		cfg:          cfg,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		handlers:     make(map[string]Handler),
	}
}

// WithTimeProvider подменяет часы (для тестов)
func (w *Worker) WithTimeProvider(tp TimeProvider) *Worker {
	w.timeProvider = tp
	return w
}

// Register регистрирует обработчик задач с именем name
func (w *Worker) Register(name string, h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[name] = h
}

// Run опрашивает очередь до отмены контекста
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Worker: started, poll interval %s, batch %d", w.cfg.PollInterval, w.cfg.BatchSize)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error("Worker: batch failed: %v", err)
		}

		select {
		case <-ctx.Done():
			w.logger.Info("Worker: stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// ProcessBatch обрабатывает одну пачку готовых задач, возвращает их количество
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	now := w.timeProvider.Now()

	due, err := w.queue.ClaimDue(ctx, now, w.cfg.BatchSize, w.cfg.Lease)
	if err != nil {
		return 0, fmt.Errorf("%w: claim due tasks: %v", ErrInternal, err)
	}

	for _, task := range due {
		w.process(ctx, task)
	}
	return len(due), nil
}

func (w *Worker) process(ctx context.Context, task *domain.Task) {
	w.mu.RLock()
	h, ok := w.handlers[task.Name]
	w.mu.RUnlock()

	var err error
	if !ok {
		err = fmt.Errorf("%w: %s", ErrNoHandler, task.Name)
	} else {
		err = w.safeHandle(ctx, h, task)
	}

	if err == nil {
		if markErr := w.queue.MarkDone(ctx, task.ID); markErr != nil {
			w.logger.Error("Worker: task %s id=%s done but not marked: %v", task.Name, task.ID, markErr)
		}
		w.observe(task.Name, "done")
		return
	}

	// Attempts уже увеличен при захвате задачи
	var retryAt *time.Time
	if !errors.Is(err, ErrNoHandler) && !errors.Is(err, ErrInvalidTask) && task.Attempts < task.MaxAttempts {
		next := w.timeProvider.Now().Add(w.cfg.Backoff * time.Duration(task.Attempts))
		retryAt = &next
	}

	if retryAt != nil {
		w.logger.Warn("Worker: task %s id=%s attempt %d/%d failed, retry at %s: %v",
			task.Name, task.ID, task.Attempts, task.MaxAttempts, retryAt.Format(time.RFC3339), err)
		w.observe(task.Name, "retry")
	} else {
		w.logger.Error("Worker: task %s id=%s failed permanently after %d attempts: %v",
			task.Name, task.ID, task.Attempts, err)
		w.observe(task.Name, "failed")
	}

	if markErr := w.queue.MarkFailed(ctx, task.ID, err.Error(), retryAt); markErr != nil {
		w.logger.Error("Worker: failed to mark task %s id=%s: %v", task.Name, task.ID, markErr)
	}
}

func (w *Worker) safeHandle(ctx context.Context, h Handler, task *domain.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: handler panic: %v", ErrInternal, r)
		}
	}()
	return h.Handle(ctx, task)
}

func (w *Worker) observe(name, outcome string) {
	if w.metrics != nil {
		w.metrics.TaskProcessed(name, outcome)
	}
}
