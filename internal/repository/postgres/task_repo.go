package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habitTracker/internal/logger"
	"habitTracker/internal/models/task"
	repo "habitTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const taskColumns = `id,
				user_id,
				name,
				description,
				status,
				goal_type,
				due_date,
				created_at,
				reason,
				is_valid_reason,
				week_day`

type TaskRepo struct {
	pool *pgxpool.Pool
}

func (s *TaskRepo) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *TaskRepo) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(id, user_id, name, description, status, goal_type, due_date, created_at, reason, week_day)
				VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8, $9)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.ID,
		taskToCreate.UserID,
		taskToCreate.Name,
		nullable(taskToCreate.Description),
		taskToCreate.Status,
		taskToCreate.GoalType,
		taskToCreate.DueDate,
		nullable(taskToCreate.Reason),
		nullable(string(taskToCreate.WeekDay)),
	).Scan(&taskToCreate.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrDuplicate
		}
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	warnIfSlow(start, 50*time.Millisecond, "create_task")
	return nil
}

func (s *TaskRepo) Update(ctx context.Context, owner uuid.UUID, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET name = $1,
				description = $2,
				status = $3,
				due_date = $4,
				reason = $5,
				week_day = $6
			WHERE id = $7 AND user_id = $8
			RETURNING user_id, created_at`

	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Name,
		nullable(taskToUpdate.Description),
		taskToUpdate.Status,
		taskToUpdate.DueDate,
		nullable(taskToUpdate.Reason),
		nullable(string(taskToUpdate.WeekDay)),
		taskToUpdate.ID,
		owner,
	).Scan(&taskToUpdate.UserID, &taskToUpdate.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	warnIfSlow(start, 100*time.Millisecond, "update_task")
	return nil
}

func (s *TaskRepo) GetByID(ctx context.Context, owner, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE id = $1 AND user_id = $2`

	var row taskRow
	err := s.pool.QueryRow(ctx, query, id, owner).Scan(row.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnIfSlow(start, 100*time.Millisecond, "get_task")
	return decodeTask(row)
}

func (s *TaskRepo) Delete(ctx context.Context, owner, id uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, query, id, owner)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start, 100*time.Millisecond, "delete_task")
	return nil
}

// задачи владельца в порядке создания
func (s *TaskRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE user_id = $1
				ORDER BY created_at, id`

	rows, err := s.pool.Query(ctx, query, owner)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		var row taskRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}

		t, err := decodeTask(row)
		if err != nil {
			logger.Warn("Repository: Некорректная запись задачи", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start, 50*time.Millisecond+time.Millisecond*time.Duration(len(tasks)), "list_tasks")
	return tasks, nil
}
