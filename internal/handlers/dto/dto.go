package dto

import (
	"time"

	"habitTracker/internal/models/blog"
	"habitTracker/internal/models/task"
	"habitTracker/internal/models/user"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	GoalType    string `json:"goal_type"`
	WeekDay     string `json:"week_day,omitempty"`
}

type UpdateTaskRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	WeekDay     *string    `json:"week_day,omitempty"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

type TaskResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Status        string    `json:"status"`
	GoalType      string    `json:"goal_type"`
	DueDate       time.Time `json:"due_date"`
	CreatedAt     time.Time `json:"created_at"`
	Reason        string    `json:"reason,omitempty"`
	IsValidReason *bool     `json:"is_valid_reason,omitempty"`
	WeekDay       string    `json:"week_day,omitempty"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		Status:        string(t.Status),
		GoalType:      string(t.GoalType),
		DueDate:       t.DueDate,
		CreatedAt:     t.CreatedAt,
		Reason:        t.Reason,
		IsValidReason: t.IsValidReason,
		WeekDay:       string(t.WeekDay),
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type BlogRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type BlogResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromBlog(b *blog.Blog) BlogResponse {
	return BlogResponse{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func FromBlogList(blogs []*blog.Blog) []BlogResponse {
	result := make([]BlogResponse, len(blogs))
	for i, b := range blogs {
		result[i] = FromBlog(b)
	}
	return result
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        uuid.UUID     `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Settings  user.Settings `json:"settings"`
	CreatedAt time.Time     `json:"created_at"`
}

func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Settings:  u.Settings,
		CreatedAt: u.CreatedAt,
	}
}
