package store

import (
	"errors"
	"fmt"

	"habitTracker/internal/changefeed"
	"habitTracker/internal/models/task"
	"habitTracker/internal/service"

	"github.com/google/uuid"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification - всплывающее сообщение для пользователя
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// Notifier доставляет уведомления и события обновления открытым соединениям владельца.
type Notifier interface {
	Notify(owner uuid.UUID, n Notification)
	Refreshed(owner uuid.UUID, collection changefeed.Collection)
}

type nopNotifier struct{}

func (nopNotifier) Notify(uuid.UUID, Notification) {}
func (nopNotifier) Refreshed(uuid.UUID, changefeed.Collection) {}

func success(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDefault}
}

func failure(title string, err error, fallback string) Notification {
	description := fallback
	var busErr *service.BusinessError
	if errors.As(err, &busErr) {
		description = busErr.Message
	}
	return Notification{Title: title, Description: description, Variant: VariantDestructive}
}

func taskAdded(t *task.Task) Notification {
	return success("Task added!", fmt.Sprintf("%s has been added to your %s tasks.", t.Name, t.GoalType))
}

// statusChanged: для not-started сообщения нет
func statusChanged(status task.Status) (Notification, bool) {
	switch status {
	case task.StatusComplete:
		return success("Great job! 🎉", "You've completed a task! Keep up the good work!"), true
	case task.StatusInProgress:
		return success("Keep going! 💪", "You're making progress. You've got this!"), true
	}
	return Notification{}, false
}
