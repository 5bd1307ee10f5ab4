package inmemory

import (
	"context"
	"sync"
	"time"

	"habitTracker/internal/changefeed"
	"habitTracker/internal/logger"
	"habitTracker/internal/models/task"
	repo "habitTracker/internal/repository"

	"github.com/google/uuid"
)

type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
	feed    changefeed.Publisher
}

// NewTaskStorage создаёт хранилище; feed может быть nil.
func NewTaskStorage(feed changefeed.Publisher) *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
		feed:    feed,
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) publish(op changefeed.Op, t *task.Task) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(changefeed.Change{
		Collection: changefeed.CollectionTasks,
		OwnerID:    t.UserID,
		Op:         op,
		ID:         t.ID,
	})
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()

	if _, exists := s.storage[taskToCreate.ID]; exists {
		s.mtx.Unlock()
		return repo.ErrDuplicate
	}

	taskToCreate.CreatedAt = time.Now()
	s.storage[taskToCreate.ID] = taskToCreate.Clone()
	s.ids = append(s.ids, taskToCreate.ID)
	s.mtx.Unlock()

	s.publish(changefeed.OpInsert, taskToCreate)
	return nil
}

// Update перезаписывает изменяемые поля задачи владельца.
func (s *TaskStorage) Update(ctx context.Context, owner uuid.UUID, taskToUpdate *task.Task) error {
	s.mtx.Lock()

	existing, ok := s.storage[taskToUpdate.ID]
	if !ok || existing.UserID != owner {
		s.mtx.Unlock()
		return repo.ErrNotFound
	}

	updated := taskToUpdate.Clone()
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	s.storage[updated.ID] = updated

	taskToUpdate.UserID = existing.UserID
	taskToUpdate.CreatedAt = existing.CreatedAt
	s.mtx.Unlock()

	s.publish(changefeed.OpUpdate, updated)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, owner, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok || taskToGet.UserID != owner {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

func (s *TaskStorage) Delete(ctx context.Context, owner, id uuid.UUID) error {
	s.mtx.Lock()

	existing, ok := s.storage[id]
	if !ok || existing.UserID != owner {
		s.mtx.Unlock()
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	s.mtx.Unlock()

	s.publish(changefeed.OpDelete, existing)
	return nil
}

// задачи владельца в порядке создания
func (s *TaskStorage) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.UserID != owner {
			continue
		}
		res = append(res, t.Clone())
	}
	return res, nil
}
