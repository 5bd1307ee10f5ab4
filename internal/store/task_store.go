package store

import (
	"context"
	"sync"
	"sync/atomic"

	"habitTracker/internal/changefeed"
	"habitTracker/internal/logger"
	"habitTracker/internal/models/task"
	"habitTracker/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService interface {
	ListTasks(ctx context.Context, owner uuid.UUID) ([]*task.Task, error)
	CreateTask(ctx context.Context, owner uuid.UUID, in service.CreateTaskInput) (*task.Task, error)
	UpdateTaskStatus(ctx context.Context, owner, id uuid.UUID, status task.Status, reason *string) (*task.Task, error)
	UpdateTask(ctx context.Context, owner, id uuid.UUID, options ...task.TaskOption) (*task.Task, error)
	DeleteTask(ctx context.Context, owner, id uuid.UUID) error
}

// TaskStore - кэш задач одного пользователя. Список заменяется целиком при каждой
// перезагрузке; мутации не сериализуются, побеждает последний ответ.
type TaskStore struct {
	owner    uuid.UUID
	svc      TaskService
	notifier Notifier

	mtx    sync.RWMutex
	tasks  []*task.Task
	loaded bool

	inflight atomic.Int32
	sub      *changefeed.Subscription
}

func newTaskStore(owner uuid.UUID, svc TaskService, notifier Notifier) *TaskStore {
	return &TaskStore{
		owner:    owner,
		svc:      svc,
		notifier: notifier,
		tasks:    []*task.Task{},
	}
}

func (s *TaskStore) Owner() uuid.UUID {
	return s.owner
}

func (s *TaskStore) IsLoading() bool {
	return s.inflight.Load() > 0
}

// Tasks возвращает кэш, загружая его при первом обращении.
func (s *TaskStore) Tasks(ctx context.Context) ([]*task.Task, error) {
	if s.owner == uuid.Nil {
		return []*task.Task{}, nil
	}

	s.mtx.RLock()
	loaded := s.loaded
	s.mtx.RUnlock()

	if !loaded {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return s.snapshot(), nil
}

func (s *TaskStore) ByGoalType(ctx context.Context, goal task.GoalType) ([]*task.Task, error) {
	tasks, err := s.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.GoalType == goal {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (s *TaskStore) snapshot() []*task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	out := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out
}

// Refresh перечитывает весь список. При ошибке кэш остаётся прежним.
func (s *TaskStore) Refresh(ctx context.Context) error {
	if s.owner == uuid.Nil {
		return nil
	}

	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	tasks, err := s.svc.ListTasks(ctx, s.owner)
	if err != nil {
		logger.Error("Store: Ошибка загрузки задач", err, zap.String("user_id", s.owner.String()))
		s.notifier.Notify(s.owner, failure("Error fetching tasks", err, err.Error()))
		return err
	}

	s.mtx.Lock()
	s.tasks = tasks
	s.loaded = true
	s.mtx.Unlock()
	return nil
}

func (s *TaskStore) Add(ctx context.Context, in service.CreateTaskInput) (*task.Task, error) {
	created, err := s.svc.CreateTask(ctx, s.owner, in)
	if err != nil {
		s.fail("Error adding task", err)
		return nil, err
	}
	s.afterMutation(ctx, taskAdded(created), true)
	return created, nil
}

func (s *TaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status task.Status, reason *string) (*task.Task, error) {
	updated, err := s.svc.UpdateTaskStatus(ctx, s.owner, id, status, reason)
	if err != nil {
		s.fail("Error updating task", err)
		return nil, err
	}
	n, ok := statusChanged(status)
	s.afterMutation(ctx, n, ok)
	return updated, nil
}

func (s *TaskStore) Update(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	updated, err := s.svc.UpdateTask(ctx, s.owner, id, options...)
	if err != nil {
		s.fail("Error updating task", err)
		return nil, err
	}
	s.afterMutation(ctx, success("Task updated", "Your task has been successfully updated."), true)
	return updated, nil
}

func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.svc.DeleteTask(ctx, s.owner, id); err != nil {
		s.fail("Error deleting task", err)
		return err
	}
	s.afterMutation(ctx, success("Task deleted", "Your task has been successfully deleted."), true)
	return nil
}

func (s *TaskStore) afterMutation(ctx context.Context, n Notification, notify bool) {
	// ошибка перезагрузки уже залогирована, мутация при этом успешна
	_ = s.Refresh(ctx)
	if notify {
		s.notifier.Notify(s.owner, n)
	}
}

func (s *TaskStore) fail(title string, err error) {
	logger.Warn("Store: Ошибка изменения задачи",
		zap.String("user_id", s.owner.String()),
		zap.String("action", title),
		zap.Error(err))
	if s.owner == uuid.Nil {
		return
	}
	s.notifier.Notify(s.owner, failure(title, err, err.Error()))
}

// onChange - полная перезагрузка на любое внешнее изменение
func (s *TaskStore) onChange(change changefeed.Change) {
	if err := s.Refresh(context.Background()); err != nil {
		return
	}
	s.notifier.Refreshed(s.owner, changefeed.CollectionTasks)
}
