package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"habitTracker/internal/changefeed"
	"habitTracker/internal/models/blog"
	repo "habitTracker/internal/repository"

	"github.com/google/uuid"
)

type BlogStorage struct {
	storage map[uuid.UUID]*blog.Blog
	ids     []uuid.UUID
	mtx     *sync.RWMutex
	feed    changefeed.Publisher
	now     func() time.Time
}

func NewBlogStorage(feed changefeed.Publisher) *BlogStorage {
	return &BlogStorage{
		storage: make(map[uuid.UUID]*blog.Blog),
		mtx:     &sync.RWMutex{},
		feed:    feed,
		now:     time.Now,
	}
}

func (s *BlogStorage) publish(op changefeed.Op, b *blog.Blog) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(changefeed.Change{
		Collection: changefeed.CollectionBlogs,
		OwnerID:    b.UserID,
		Op:         op,
		ID:         b.ID,
	})
}

func (s *BlogStorage) Create(ctx context.Context, blogToCreate *blog.Blog) error {
	s.mtx.Lock()

	if _, exists := s.storage[blogToCreate.ID]; exists {
		s.mtx.Unlock()
		return repo.ErrDuplicate
	}

	now := s.now()
	blogToCreate.CreatedAt = now
	blogToCreate.UpdatedAt = now
	s.storage[blogToCreate.ID] = blogToCreate.Clone()
	s.ids = append(s.ids, blogToCreate.ID)
	s.mtx.Unlock()

	s.publish(changefeed.OpInsert, blogToCreate)
	return nil
}

func (s *BlogStorage) Update(ctx context.Context, owner uuid.UUID, blogToUpdate *blog.Blog) error {
	s.mtx.Lock()

	existing, ok := s.storage[blogToUpdate.ID]
	if !ok || existing.UserID != owner {
		s.mtx.Unlock()
		return repo.ErrNotFound
	}

	existing.Title = blogToUpdate.Title
	existing.Content = blogToUpdate.Content
	existing.UpdatedAt = blogToUpdate.UpdatedAt
	if existing.UpdatedAt.IsZero() {
		existing.UpdatedAt = s.now()
	}

	*blogToUpdate = *existing.Clone()
	s.mtx.Unlock()

	s.publish(changefeed.OpUpdate, blogToUpdate)
	return nil
}

func (s *BlogStorage) GetByID(ctx context.Context, owner, id uuid.UUID) (*blog.Blog, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	b, ok := s.storage[id]
	if !ok || b.UserID != owner {
		return nil, repo.ErrNotFound
	}
	return b.Clone(), nil
}

func (s *BlogStorage) Delete(ctx context.Context, owner, id uuid.UUID) error {
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

// записи владельца, новые первыми
func (s *BlogStorage) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*blog.Blog, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*blog.Blog{}
	for i := len(s.ids) - 1; i >= 0; i-- {
		b := s.storage[s.ids[i]]
		if b.UserID == owner {
			res = append(res, b.Clone())
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}
