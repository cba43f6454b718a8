package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"gigbridge/models"

	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// NewReminderTask builds an asynq task that fires at the given time.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReminderSend, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// Scheduler enqueues deferred reminder tasks. A nil Scheduler is valid and
// drops reminders, for deployments without the worker.
type Scheduler struct {
	client *asynq.Client
}

// NewScheduler wraps an asynq client.
func NewScheduler(client *asynq.Client) *Scheduler {
	return &Scheduler{client: client}
}

// ScheduleReminder enqueues a reminder to fire at the given time. Times in
// the past are delivered immediately by asynq.
func (s *Scheduler) ScheduleReminder(payload models.ReminderPayload, fireAt time.Time) error {
	if s == nil || s.client == nil {
		return nil
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}
