package store

import (
	"context"
	"sync"
	"sync/atomic"

	"habitTracker/internal/changefeed"
	"habitTracker/internal/logger"
	"habitTracker/internal/models/blog"
	"habitTracker/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BlogService interface {
	ListBlogs(ctx context.Context, owner uuid.UUID) ([]*blog.Blog, error)
	CreateBlog(ctx context.Context, owner uuid.UUID, title, content string) (*blog.Blog, error)
	UpdateBlog(ctx context.Context, owner, id uuid.UUID, title, content string) (*blog.Blog, error)
	DeleteBlog(ctx context.Context, owner, id uuid.UUID) error
}

const blogsListPath = "/blogs"

// BlogStore - кэш записей дневника одного пользователя, новые первыми.
type BlogStore struct {
	owner    uuid.UUID
	svc      BlogService
	notifier Notifier

	mtx    sync.RWMutex
	blogs  []*blog.Blog
	loaded bool

	inflight atomic.Int32
	sub      *changefeed.Subscription
}

func newBlogStore(owner uuid.UUID, svc BlogService, notifier Notifier) *BlogStore {
	return &BlogStore{
		owner:    owner,
		svc:      svc,
		notifier: notifier,
		blogs:    []*blog.Blog{},
	}
}

func (s *BlogStore) IsLoading() bool {
	return s.inflight.Load() > 0
}

func (s *BlogStore) Blogs(ctx context.Context) ([]*blog.Blog, error) {
	if s.owner == uuid.Nil {
		return []*blog.Blog{}, nil
	}

	s.mtx.RLock()
	loaded := s.loaded
	s.mtx.RUnlock()

	if !loaded {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()
	out := make([]*blog.Blog, 0, len(s.blogs))
	for _, b := range s.blogs {
		out = append(out, b.Clone())
	}
	return out, nil
}

// Get ищет запись в кэше; отсутствующая запись отправляет клиента к списку.
func (s *BlogStore) Get(ctx context.Context, id uuid.UUID) (*blog.Blog, error) {
	blogs, err := s.Blogs(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range blogs {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, service.NewNotFound("blog", id.String(), blogsListPath)
}

func (s *BlogStore) Refresh(ctx context.Context) error {
	if s.owner == uuid.Nil {
		return nil
	}

	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	blogs, err := s.svc.ListBlogs(ctx, s.owner)
	if err != nil {
		logger.Error("Store: Ошибка загрузки записей", err, zap.String("user_id", s.owner.String()))
		s.notifier.Notify(s.owner, failure("Error", err, "Failed to load your blogs. Please try again."))
		return err
	}

	s.mtx.Lock()
	s.blogs = blogs
	s.loaded = true
	s.mtx.Unlock()
	return nil
}

func (s *BlogStore) Add(ctx context.Context, title, content string) (*blog.Blog, error) {
	created, err := s.svc.CreateBlog(ctx, s.owner, title, content)
	if err != nil {
		if service.IsCode(err, service.CodeAuthRequired) {
			s.fail("Authentication required", err, "Please login to create a blog post")
		} else {
			s.fail("Error", err, "Failed to create blog post. Please try again.")
		}
		return nil, err
	}
	s.afterMutation(ctx, success("Success!", "Your blog post has been created."))
	return created, nil
}

func (s *BlogStore) Update(ctx context.Context, id uuid.UUID, title, content string) (*blog.Blog, error) {
	updated, err := s.svc.UpdateBlog(ctx, s.owner, id, title, content)
	if err != nil {
		s.fail("Error", err, "Failed to update blog post. Please try again.")
		return nil, err
	}
	s.afterMutation(ctx, success("Success!", "Your blog post has been updated."))
	return updated, nil
}

func (s *BlogStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.svc.DeleteBlog(ctx, s.owner, id); err != nil {
		s.fail("Error", err, "Failed to delete blog post. Please try again.")
		return err
	}
	s.afterMutation(ctx, success("Success!", "Your blog post has been deleted."))
	return nil
}

func (s *BlogStore) afterMutation(ctx context.Context, n Notification) {
	_ = s.Refresh(ctx)
	s.notifier.Notify(s.owner, n)
}

func (s *BlogStore) fail(title string, err error, fallback string) {
	logger.Warn("Store: Ошибка изменения записи",
		zap.String("user_id", s.owner.String()),
		zap.String("action", title),
		zap.Error(err))
	if s.owner == uuid.Nil {
		return
	}
	s.notifier.Notify(s.owner, failure(title, err, fallback))
}

func (s *BlogStore) onChange(change changefeed.Change) {
	if err := s.Refresh(context.Background()); err != nil {
		return
	}
	s.notifier.Refreshed(s.owner, changefeed.CollectionBlogs)
}
