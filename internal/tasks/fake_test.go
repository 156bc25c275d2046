package tasks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

type memQueue struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
}

func newMemQueue() *memQueue {
	return &memQueue{tasks: make(map[string]*domain.Task)}
}

func (q *memQueue) Insert(_ context.Context, t *domain.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	cp := *t
	cp.Status = domain.TaskPending
	q.tasks[t.ID] = &cp
	return nil
}

func (q *memQueue) HasActive(_ context.Context, name string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, t := range q.tasks {
		if t.Name == name && (t.Status == domain.TaskPending || t.Status == domain.TaskRunning) {
			return true, nil
		}
	}
	return false, nil
}

func (q *memQueue) ClaimDue(_ context.Context, now time.Time, limit int, _ time.Duration) ([]*domain.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []*domain.Task
	for _, t := range q.tasks {
		if t.Status == domain.TaskPending && !t.RunAt.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].RunAt.Before(due[j].RunAt) })
	if len(due) > limit {
		due = due[:limit]
	}

	out := make([]*domain.Task, 0, len(due))
	for _, t := range due {
		t.Status = domain.TaskRunning
		t.Attempts++
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (q *memQueue) MarkDone(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks[id].Status = domain.TaskDone
	return nil
}

func (q *memQueue) MarkFailed(_ context.Context, id string, errText string, retryAt *time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	t := q.tasks[id]
	t.LastError = &errText
	if retryAt != nil {
		t.Status = domain.TaskPending
		t.RunAt = *retryAt
	} else {
		t.Status = domain.TaskFailed
	}
	return nil
}

func (q *memQueue) byName(name string) []*domain.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*domain.Task
	for _, t := range q.tasks {
		if t.Name == name {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out
}

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *countingMetrics) TaskProcessed(name, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[name+"/"+outcome]++
}
