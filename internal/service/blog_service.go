package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"habitTracker/internal/logger"
	"habitTracker/internal/models/blog"
	"habitTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const blogsRedirect = "/blogs"

type BlogService struct {
	repo BlogRepository
	now  func() time.Time
}

func NewBlogService(repo BlogRepository) *BlogService {
	return &BlogService{
		repo: repo,
		now:  time.Now,
	}
}

func validateBlog(title, content string) error {
	if reason := blog.ValidateTitle(title); reason != "" {
		return NewValidationError("title", reason)
	}
	if reason := blog.ValidateContent(content); reason != "" {
		return NewValidationError("content", reason)
	}
	return nil
}

// ListBlogs возвращает записи владельца, новые первыми
func (s *BlogService) ListBlogs(ctx context.Context, owner uuid.UUID) ([]*blog.Blog, error) {
	if owner == uuid.Nil {
		return nil, NewAuthRequired()
	}
	blogs, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("получение записей: %w", err)
	}
	return blogs, nil
}

func (s *BlogService) GetBlog(ctx context.Context, owner, id uuid.UUID) (*blog.Blog, error) {
	if owner == uuid.Nil {
		return nil, NewAuthRequired()
	}
	b, err := s.repo.GetByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Запись не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("blog", id.String(), blogsRedirect)
		}
		return nil, fmt.Errorf("получение записи: %w", err)
	}
	return b, nil
}

func (s *BlogService) CreateBlog(ctx context.Context, owner uuid.UUID, title, content string) (*blog.Blog, error) {
	if owner == uuid.Nil {
		return nil, NewAuthRequired()
	}
	if err := validateBlog(title, content); err != nil {
		return nil, err
	}

	newBlog := &blog.Blog{
		ID:      uuid.New(),
		UserID:  owner,
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
	}
	if err := s.repo.Create(ctx, newBlog); err != nil {
		return nil, fmt.Errorf("создание записи: %w", err)
	}

	logger.Info("Service: Запись создана", zap.String("blog_id", newBlog.ID.String()))
	return newBlog, nil
}

func (s *BlogService) UpdateBlog(ctx context.Context, owner, id uuid.UUID, title, content string) (*blog.Blog, error) {
	if owner == uuid.Nil {
		return nil, NewAuthRequired()
	}
	if err := validateBlog(title, content); err != nil {
		return nil, err
	}

	updated := &blog.Blog{
		ID:        id,
		UserID:    owner,
		Title:     strings.TrimSpace(title),
		Content:   strings.TrimSpace(content),
		UpdatedAt: s.now(),
	}
	if err := s.repo.Update(ctx, owner, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Запись не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("blog", id.String(), blogsRedirect)
		}
		return nil, fmt.Errorf("обновление записи: %w", err)
	}

	logger.Info("Service: Запись обновлена", zap.String("blog_id", id.String()))
	return updated, nil
}

func (s *BlogService) DeleteBlog(ctx context.Context, owner, id uuid.UUID) error {
	if owner == uuid.Nil {
		return NewAuthRequired()
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Запись не найдена", zap.String("target_id", id.String()))
			return NewNotFound("blog", id.String(), blogsRedirect)
		}
		return fmt.Errorf("удаление записи: %w", err)
	}
	logger.Info("Service: Запись удалена", zap.String("blog_id", id.String()))
	return nil
}
