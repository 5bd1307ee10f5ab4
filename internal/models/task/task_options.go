package task

import (
	"strings"
	"time"
)

type TaskOption func(*Task)

func WithName(name string) TaskOption {
	return func(task *Task) {
		task.Name = strings.TrimSpace(name)
	}
}

// пустое описание удаляет его
func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = strings.TrimSpace(description)
	}
}

func WithStatus(status Status) TaskOption {
	if status == "" {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

func WithReason(reason string) TaskOption {
	return func(task *Task) {
		task.Reason = reason
	}
}

func WithDueDate(dueDate time.Time) TaskOption {
	if dueDate.IsZero() {
		return nil
	}
	return func(task *Task) {
		task.DueDate = dueDate
	}
}

func WithWeekDay(day WeekDay) TaskOption {
	if day == "" {
		return nil
	}
	return func(task *Task) {
		task.WeekDay = day
	}
}

// Apply применяет опции, пропуская nil.
func (t *Task) Apply(options ...TaskOption) {
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
}
