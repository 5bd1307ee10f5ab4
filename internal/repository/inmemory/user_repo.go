package inmemory

import (
	"context"
	"sync"
	"time"

	"habitTracker/internal/models/user"
	repo "habitTracker/internal/repository"

	"github.com/google/uuid"
)

type UserStorage struct {
	byID    map[uuid.UUID]*user.User
	byEmail map[string]uuid.UUID
	mtx     *sync.RWMutex
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		byID:    make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]uuid.UUID),
		mtx:     &sync.RWMutex{},
	}
}

func (s *UserStorage) Create(ctx context.Context, u *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	email := user.NormalizeEmail(u.Email)
	if _, exists := s.byEmail[email]; exists {
		return repo.ErrDuplicate
	}

	u.Email = email
	u.CreatedAt = time.Now()
	stored := *u
	s.byID[u.ID] = &stored
	s.byEmail[email] = u.ID
	return nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.byEmail[user.NormalizeEmail(email)]
	if !ok {
		return nil, repo.ErrNotFound
	}
	found := *s.byID[id]
	return &found, nil
}

func (s *UserStorage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	found := *u
	return &found, nil
}
