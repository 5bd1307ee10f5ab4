package postgres

import (
	"errors"
	"time"

	"habitTracker/internal/models/blog"
	"habitTracker/internal/models/task"
	"habitTracker/internal/models/user"
	repo "habitTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// строки сканируются как есть и проверяются перед выдачей наружу

type taskRow struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	Description   *string
	Status        string
	GoalType      string
	DueDate       time.Time
	CreatedAt     time.Time
	Reason        *string
	IsValidReason *bool
	WeekDay       *string
}

func (r *taskRow) scanTargets() []any {
	return []any{
		&r.ID,
		&r.UserID,
		&r.Name,
		&r.Description,
		&r.Status,
		&r.GoalType,
		&r.DueDate,
		&r.CreatedAt,
		&r.Reason,
		&r.IsValidReason,
		&r.WeekDay,
	}
}

func decodeTask(r taskRow) (*task.Task, error) {
	malformed := func(field, reason string) error {
		return &repo.DecodeError{Collection: "tasks", ID: r.ID.String(), Field: field, Reason: reason}
	}

	if r.ID == uuid.Nil {
		return nil, malformed("id", "пустой идентификатор")
	}
	if r.UserID == uuid.Nil {
		return nil, malformed("user_id", "пустой владелец")
	}

	status, err := task.ParseStatus(r.Status)
	if err != nil {
		return nil, malformed("status", err.Error())
	}
	goal, err := task.ParseGoalType(r.GoalType)
	if err != nil {
		return nil, malformed("goal_type", err.Error())
	}

	var day task.WeekDay
	if r.WeekDay != nil && *r.WeekDay != "" {
		day, err = task.ParseWeekDay(*r.WeekDay)
		if err != nil {
			return nil, malformed("week_day", err.Error())
		}
	}

	t := &task.Task{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		Description:   deref(r.Description),
		Status:        status,
		GoalType:      goal,
		DueDate:       r.DueDate,
		CreatedAt:     r.CreatedAt,
		Reason:        deref(r.Reason),
		IsValidReason: r.IsValidReason,
		WeekDay:       day,
	}
	if err := t.Validate(); err != nil {
		return nil, malformed("week_day", err.Error())
	}
	return t, nil
}

type blogRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *blogRow) scanTargets() []any {
	return []any{&r.ID, &r.UserID, &r.Title, &r.Content, &r.CreatedAt, &r.UpdatedAt}
}

func decodeBlog(r blogRow) (*blog.Blog, error) {
	if r.ID == uuid.Nil {
		return nil, &repo.DecodeError{Collection: "blogs", Field: "id", Reason: "пустой идентификатор"}
	}
	if r.UserID == uuid.Nil {
		return nil, &repo.DecodeError{Collection: "blogs", ID: r.ID.String(), Field: "user_id", Reason: "пустой владелец"}
	}
	if reason := blog.ValidateTitle(r.Title); reason != "" {
		return nil, &repo.DecodeError{Collection: "blogs", ID: r.ID.String(), Field: "title", Reason: reason}
	}
	if reason := blog.ValidateContent(r.Content); reason != "" {
		return nil, &repo.DecodeError{Collection: "blogs", ID: r.ID.String(), Field: "content", Reason: reason}
	}
	return &blog.Blog{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

type userRow struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	PasswordHash       string
	SarcasmLevel       string
	EmailNotifications bool
	CreatedAt          time.Time
}

func (r *userRow) scanTargets() []any {
	return []any{&r.ID, &r.Email, &r.Name, &r.PasswordHash, &r.SarcasmLevel, &r.EmailNotifications, &r.CreatedAt}
}

func decodeUser(r userRow) (*user.User, error) {
	level := user.SarcasmLevel(r.SarcasmLevel)
	if !level.Valid() {
		return nil, &repo.DecodeError{Collection: "users", ID: r.ID.String(), Field: "sarcasm_level", Reason: "неизвестное значение " + r.SarcasmLevel}
	}
	return &user.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Settings: user.Settings{
			SarcasmLevel:       level,
			EmailNotifications: r.EmailNotifications,
		},
		CreatedAt: r.CreatedAt,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
