package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{name: "ежедневная без дня", task: Task{Status: StatusNotStarted, GoalType: GoalDaily}},
		{name: "недельная с днём", task: Task{Status: StatusComplete, GoalType: GoalWeekly, WeekDay: Friday}},
		{name: "недельная без дня", task: Task{Status: StatusComplete, GoalType: GoalWeekly}, wantErr: true},
		{name: "ежедневная с днём", task: Task{Status: StatusComplete, GoalType: GoalDaily, WeekDay: Monday}, wantErr: true},
		{name: "неизвестный статус", task: Task{Status: "done", GoalType: GoalDaily}, wantErr: true},
		{name: "неизвестный тип цели", task: Task{Status: StatusInProgress, GoalType: "monthly"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTask_ApplySkipsNilOptions(t *testing.T) {
	due := time.Date(2024, 5, 17, 23, 59, 0, 0, time.UTC)
	task := &Task{Name: "Read", Status: StatusInProgress, WeekDay: Monday}

	task.Apply(
		WithName("  Read more  "),
		WithDescription("  "),
		WithStatus(""),
		WithDueDate(time.Time{}),
		WithDueDate(due),
		WithWeekDay(""),
	)

	assert.Equal(t, "Read more", task.Name)
	assert.Empty(t, task.Description)
	assert.Equal(t, StatusInProgress, task.Status)
	assert.Equal(t, due, task.DueDate)
	assert.Equal(t, Monday, task.WeekDay)
}

func TestTask_Clone(t *testing.T) {
	valid := true
	original := &Task{Name: "Read", IsValidReason: &valid}

	clone := original.Clone()
	*clone.IsValidReason = false
	clone.Name = "Run"

	assert.True(t, *original.IsValidReason)
	assert.Equal(t, "Read", original.Name)
}

func TestParseWeekDay(t *testing.T) {
	day, err := ParseWeekDay(" Friday ")
	require.NoError(t, err)
	assert.Equal(t, Friday, day)

	_, err = ParseWeekDay("funday")
	assert.Error(t, err)
}

func TestWeekDay_Weekday(t *testing.T) {
	for _, day := range AllWeekDays {
		assert.Equal(t, day, FromWeekday(day.Weekday()))
	}
	assert.Equal(t, time.Sunday, WeekDay("").Weekday())
	assert.Equal(t, time.Sunday, WeekDay("funday").Weekday())
}

func TestParseStatusAndGoal(t *testing.T) {
	status, err := ParseStatus("in-progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)

	_, err = ParseStatus("In-Progress")
	assert.Error(t, err)

	goal, err := ParseGoalType("weekly")
	require.NoError(t, err)
	assert.Equal(t, GoalWeekly, goal)

	_, err = ParseGoalType("")
	assert.Error(t, err)
}
