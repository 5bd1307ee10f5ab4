package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description,omitempty" db:"description"`
	Status        Status    `json:"status" db:"status"`
	GoalType      GoalType  `json:"goal_type" db:"goal_type"`
	DueDate       time.Time `json:"due_date" db:"due_date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	Reason        string    `json:"reason,omitempty" db:"reason"`
	IsValidReason *bool     `json:"is_valid_reason,omitempty" db:"is_valid_reason"`
	WeekDay       WeekDay   `json:"week_day,omitempty" db:"week_day"`
}

type Status string
type GoalType string

const StatusNotStarted Status = "not-started"
const StatusInProgress Status = "in-progress"
const StatusComplete Status = "complete"

const GoalDaily GoalType = "daily"
const GoalWeekly GoalType = "weekly"

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusComplete:
		return true
	}
	return false
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("неизвестный статус %q", raw)
	}
	return s, nil
}

func (g GoalType) Valid() bool {
	return g == GoalDaily || g == GoalWeekly
}

func ParseGoalType(raw string) (GoalType, error) {
	g := GoalType(raw)
	if !g.Valid() {
		return "", fmt.Errorf("неизвестный тип цели %q", raw)
	}
	return g, nil
}

// Validate проверяет перечисления и инвариант: день недели задан тогда и только тогда,
// когда цель недельная.
func (t *Task) Validate() error {
	if !t.Status.Valid() {
		return fmt.Errorf("status: неизвестное значение %q", t.Status)
	}
	if !t.GoalType.Valid() {
		return fmt.Errorf("goal_type: неизвестное значение %q", t.GoalType)
	}
	switch t.GoalType {
	case GoalWeekly:
		if !t.WeekDay.Valid() {
			return fmt.Errorf("week_day: недельная цель требует день недели, получено %q", t.WeekDay)
		}
	case GoalDaily:
		if t.WeekDay != "" {
			return fmt.Errorf("week_day: у ежедневной цели не может быть дня недели")
		}
	}
	return nil
}

// Clone возвращает независимую копию задачи.
func (t *Task) Clone() *Task {
	c := *t
	if t.IsValidReason != nil {
		v := *t.IsValidReason
		c.IsValidReason = &v
	}
	return &c
}
