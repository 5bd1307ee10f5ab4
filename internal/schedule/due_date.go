// Package schedule вычисляет сроки выполнения задач.
package schedule

import (
	"time"

	"habitTracker/internal/models/task"
)

const (
	dueHour    = 23
	dueMinute  = 59
	daysInWeek = 7
)

type Resolver struct {
	Now      func() time.Time
	Location *time.Location
}

func NewResolver(loc *time.Location) Resolver {
	if loc == nil {
		loc = time.Local
	}
	return Resolver{Now: time.Now, Location: loc}
}

func (r Resolver) now() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	if r.Location != nil {
		return now().In(r.Location)
	}
	return now()
}

func (r Resolver) DueDate(goal task.GoalType, day task.WeekDay) time.Time {
	return DueDateAt(r.now(), goal, day)
}

// DueDateAt возвращает срок для цели относительно now в часовом поясе now.
// Ежедневная цель: сегодня в 23:59. Недельная: ближайший выбранный день недели
// строго после сегодняшнего, то есть совпадение с сегодняшним днём даёт +7 дней.
func DueDateAt(now time.Time, goal task.GoalType, day task.WeekDay) time.Time {
	delta := 0
	if goal == task.GoalWeekly {
		delta = int(day.Weekday()) - int(now.Weekday())
		if delta <= 0 {
			delta += daysInWeek
		}
	}
	y, m, d := now.Date()
	return time.Date(y, m, d+delta, dueHour, dueMinute, 0, 0, now.Location())
}

func WeekDayOf(t time.Time) task.WeekDay {
	return task.FromWeekday(t.Weekday())
}
