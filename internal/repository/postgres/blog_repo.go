package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habitTracker/internal/logger"
	"habitTracker/internal/models/blog"
	repo "habitTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const blogColumns = `id, user_id, title, content, created_at, updated_at`

type BlogRepo struct {
	pool *pgxpool.Pool
}

func (s *BlogRepo) Create(ctx context.Context, blogToCreate *blog.Blog) error {
	start := time.Now()

	query := `INSERT INTO blogs (id, user_id, title, content, created_at, updated_at)
				VALUES ($1, $2, $3, $4, NOW(), NOW())
				RETURNING created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		blogToCreate.ID,
		blogToCreate.UserID,
		blogToCreate.Title,
		blogToCreate.Content,
	).Scan(&blogToCreate.CreatedAt, &blogToCreate.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrDuplicate
		}
		logger.Error("Repository: Не удалось добавить запись", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление записи: %w", err)
	}

	warnIfSlow(start, 50*time.Millisecond, "create_blog")
	return nil
}

func (s *BlogRepo) Update(ctx context.Context, owner uuid.UUID, blogToUpdate *blog.Blog) error {
	start := time.Now()

	query := `UPDATE blogs
			SET title = $1,
				content = $2,
				updated_at = COALESCE($3, NOW())
			WHERE id = $4 AND user_id = $5
			RETURNING ` + blogColumns

	var updatedAt *time.Time
	if !blogToUpdate.UpdatedAt.IsZero() {
		updatedAt = &blogToUpdate.UpdatedAt
	}

	var row blogRow
	err := s.pool.QueryRow(ctx, query,
		blogToUpdate.Title,
		blogToUpdate.Content,
		updatedAt,
		blogToUpdate.ID,
		owner,
	).Scan(row.scanTargets()...)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить запись", err)
		return fmt.Errorf("обновление записи: %w", err)
	}

	updated, err := decodeBlog(row)
	if err != nil {
		return err
	}
	*blogToUpdate = *updated

	warnIfSlow(start, 100*time.Millisecond, "update_blog")
	return nil
}

func (s *BlogRepo) GetByID(ctx context.Context, owner, id uuid.UUID) (*blog.Blog, error) {
	start := time.Now()

	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1 AND user_id = $2`

	var row blogRow
	err := s.pool.QueryRow(ctx, query, id, owner).Scan(row.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить запись", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение записи: %w", err)
	}

	warnIfSlow(start, 100*time.Millisecond, "get_blog")
	return decodeBlog(row)
}

func (s *BlogRepo) Delete(ctx context.Context, owner, id uuid.UUID) error {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil {
		logger.Error("Repository: Удаление записи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление записи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start, 100*time.Millisecond, "delete_blog")
	return nil
}

// записи владельца, новые первыми
func (s *BlogRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*blog.Blog, error) {
	start := time.Now()

	query := `SELECT ` + blogColumns + `
				FROM blogs
				WHERE user_id = $1
				ORDER BY created_at DESC, id`

	rows, err := s.pool.Query(ctx, query, owner)
	if err != nil {
		logger.Error("Repository: Не удалось получить записи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение записей: %w", err)
	}
	defer rows.Close()

	blogs := []*blog.Blog{}
	for rows.Next() {
		var row blogRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			logger.Error("Repository: Ошибка сканирования записи", err)
			return nil, fmt.Errorf("сканирование записи: %w", err)
		}
		b, err := decodeBlog(row)
		if err != nil {
			logger.Warn("Repository: Некорректная запись дневника", zap.Error(err))
			return nil, err
		}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start, 50*time.Millisecond+time.Millisecond*time.Duration(len(blogs)), "list_blogs")
	return blogs, nil
}
