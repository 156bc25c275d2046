package domain

import (
	"encoding/json"
	"time"
)

// TaskStatus state of a scheduled task
type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskRunning TaskStatus = "running"
	TaskDone    TaskStatus = "done"
	TaskFailed  TaskStatus = "failed"
)

// Task names understood by the worker
const (
	TaskSendConfirmation = "send_confirmation"
	TaskSendReminder     = "send_reminder"
	TaskSendStatusUpdate = "send_status_update"
	TaskRetentionSweep   = "retention_sweep"
)

// Task unit of deferred work stored in the outbox table
type Task struct {
	ID          string
	Name        string
	Payload     json.RawMessage
	RunAt       time.Time
	Status      TaskStatus
	Attempts    int
	MaxAttempts int
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppointmentPayload payload of notification tasks
type AppointmentPayload struct {
	AppointmentID string `json:"appointmentId"`
}
