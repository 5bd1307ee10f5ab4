package service

import (
	"context"
	"time"

	"habitTracker/internal/models/blog"
	"habitTracker/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, owner uuid.UUID, t *task.Task) error
	GetByID(ctx context.Context, owner, id uuid.UUID) (*task.Task, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]*task.Task, error)
}

type BlogRepository interface {
	Create(ctx context.Context, b *blog.Blog) error
	Update(ctx context.Context, owner uuid.UUID, b *blog.Blog) error
	GetByID(ctx context.Context, owner, id uuid.UUID) (*blog.Blog, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]*blog.Blog, error)
}

// DueDateResolver вычисляет срок по типу цели и дню недели.
type DueDateResolver interface {
	DueDate(goal task.GoalType, day task.WeekDay) time.Time
}
