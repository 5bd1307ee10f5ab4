package postgres

import (
	"context"
	"errors"
	"fmt"

	"habitTracker/internal/logger"
	"habitTracker/internal/models/user"
	repo "habitTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, name, password_hash, sarcasm_level, email_notifications, created_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func (s *UserRepo) Create(ctx context.Context, u *user.User) error {
	u.Email = user.NormalizeEmail(u.Email)

	query := `INSERT INTO users (id, email, name, password_hash, sarcasm_level, email_notifications, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, NOW())
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		u.ID,
		u.Email,
		u.Name,
		u.PasswordHash,
		u.Settings.SarcasmLevel,
		u.Settings.EmailNotifications,
	).Scan(&u.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrDuplicate
		}
		logger.Error("Repository: Не удалось создать пользователя", err)
		return fmt.Errorf("создание пользователя: %w", err)
	}
	return nil
}

func (s *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, user.NormalizeEmail(email))
}

func (s *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *UserRepo) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var row userRow
	err := s.pool.QueryRow(ctx, query, arg).Scan(row.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return decodeUser(row)
}
