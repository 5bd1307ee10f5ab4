package task

import (
	"fmt"
	"strings"
	"time"
)

type WeekDay string

const (
	Monday    WeekDay = "monday"
	Tuesday   WeekDay = "tuesday"
	Wednesday WeekDay = "wednesday"
	Thursday  WeekDay = "thursday"
	Friday    WeekDay = "friday"
	Saturday  WeekDay = "saturday"
	Sunday    WeekDay = "sunday"
)

// нумерация как у time.Weekday: воскресенье = 0
var weekDayNumbers = map[WeekDay]time.Weekday{
	Sunday:    time.Sunday,
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
}

var AllWeekDays = []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (w WeekDay) Valid() bool {
	_, ok := weekDayNumbers[w]
	return ok
}

// Weekday переводит имя дня в time.Weekday. Неизвестное значение трактуется как воскресенье.
func (w WeekDay) Weekday() time.Weekday {
	if d, ok := weekDayNumbers[w]; ok {
		return d
	}
	return time.Sunday
}

func ParseWeekDay(raw string) (WeekDay, error) {
	w := WeekDay(strings.ToLower(strings.TrimSpace(raw)))
	if !w.Valid() {
		return "", fmt.Errorf("неизвестный день недели %q", raw)
	}
	return w, nil
}

func FromWeekday(d time.Weekday) WeekDay {
	for name, num := range weekDayNumbers {
		if num == d {
			return name
		}
	}
	return Sunday
}
