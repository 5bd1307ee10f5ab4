package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"habitTracker/internal/logger"
	"habitTracker/internal/models/task"
	"habitTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tasksRedirect = "/tasks"

// CreateTaskInput - данные формы новой задачи
type CreateTaskInput struct {
	Name        string
	Description string
	Status      task.Status
	GoalType    task.GoalType
	WeekDay     task.WeekDay
}

type TaskService struct {
	repo     TaskRepository
	resolver DueDateResolver
}

func NewTaskService(repo TaskRepository, resolver DueDateResolver) *TaskService {
	return &TaskService{
		repo:     repo,
		resolver: resolver,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context, owner uuid.UUID) ([]*task.Task, error) {
	if owner == uuid.Nil {
		return nil, NewAuthRequired()
	}
	tasks, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, owner uuid.UUID, in CreateTaskInput) (*task.Task, error) {
	if owner == uuid.Nil {
		return nil, NewAuthRequired()
	}

	newTask := &task.Task{
		ID:       uuid.New(),
		UserID:   owner,
		Status:   task.StatusNotStarted,
		GoalType: in.GoalType,
	}
	newTask.Apply(
		task.WithName(in.Name),
		task.WithDescription(in.Description),
		task.WithStatus(in.Status),
	)

	if newTask.Name == "" {
		return nil, NewValidationError("name", "название задачи обязательно")
	}
	if !newTask.Status.Valid() {
		return nil, NewValidationError("status", fmt.Sprintf("неизвестный статус %q", newTask.Status))
	}
	if !newTask.GoalType.Valid() {
		return nil, NewValidationError("goal_type", fmt.Sprintf("неизвестный тип цели %q", newTask.GoalType))
	}

	if newTask.GoalType == task.GoalWeekly {
		if !in.WeekDay.Valid() {
			return nil, NewValidationError("week_day", "для недельной цели нужен день недели")
		}
		newTask.WeekDay = in.WeekDay
	}
	newTask.DueDate = s.resolver.DueDate(newTask.GoalType, newTask.WeekDay)

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", newTask.ID.String()),
		zap.String("goal_type", string(newTask.GoalType)))
	return newTask, nil
}

// UpdateTaskStatus меняет статус. Возврат в not-started из другого статуса требует причину;
// reason == nil оставляет сохранённую причину как есть.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, owner, id uuid.UUID, status task.Status, reason *string) (*task.Task, error) {
	if owner == uuid.Nil {
		return nil, NewAuthRequired()
	}
	if !status.Valid() {
		return nil, NewValidationError("status", fmt.Sprintf("неизвестный статус %q", status))
	}

	current, err := s.getTask(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	updated.Apply(task.WithStatus(status))
	if reason != nil {
		updated.Apply(task.WithReason(*reason))
	}
	if err := checkReason(current, updated, reason); err != nil {
		return nil, err
	}

	return s.save(ctx, owner, updated)
}

// UpdateTask применяет правки формы редактирования. Для недельной задачи срок
// пересчитывается от текущего момента по выбранному дню недели.
func (s *TaskService) UpdateTask(ctx context.Context, owner, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	if owner == uuid.Nil {
		return nil, NewAuthRequired()
	}

	current, err := s.getTask(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	updated.Apply(options...)

	if updated.Name == "" {
		return nil, NewValidationError("name", "название задачи обязательно")
	}
	if !updated.Status.Valid() {
		return nil, NewValidationError("status", fmt.Sprintf("неизвестный статус %q", updated.Status))
	}
	var newReason *string
	if updated.Reason != current.Reason {
		newReason = &updated.Reason
	}
	if err := checkReason(current, updated, newReason); err != nil {
		return nil, err
	}

	switch updated.GoalType {
	case task.GoalWeekly:
		if !updated.WeekDay.Valid() {
			return nil, NewValidationError("week_day", "для недельной цели нужен день недели")
		}
		updated.DueDate = s.resolver.DueDate(task.GoalWeekly, updated.WeekDay)
	case task.GoalDaily:
		updated.WeekDay = ""
	}

	return s.save(ctx, owner, updated)
}

func (s *TaskService) DeleteTask(ctx context.Context, owner, id uuid.UUID) error {
	if owner == uuid.Nil {
		return NewAuthRequired()
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return NewNotFound("task", id.String(), tasksRedirect)
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	return nil
}

func (s *TaskService) getTask(ctx context.Context, owner, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("task", id.String(), tasksRedirect)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) save(ctx context.Context, owner uuid.UUID, t *task.Task) (*task.Task, error) {
	if err := t.Validate(); err != nil {
		return nil, NewValidationError("task", err.Error())
	}
	if err := s.repo.Update(ctx, owner, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("task", t.ID.String(), tasksRedirect)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	logger.Info("Service: Задача обновлена",
		zap.String("task_id", t.ID.String()),
		zap.String("status", string(t.Status)))
	return t, nil
}

// checkReason: переход в not-started из другого статуса без причины запрещён.
func checkReason(current, updated *task.Task, reason *string) error {
	if updated.Status != task.StatusNotStarted || current.Status == task.StatusNotStarted {
		return nil
	}
	if reason == nil || strings.TrimSpace(*reason) == "" {
		return NewValidationError("reason", "укажите причину, почему задача не начата")
	}
	return nil
}
