package blog

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	TitleMinLength   = 3
	TitleMaxLength   = 100
	ContentMinLength = 10
)

// Blog - запись личного дневника пользователя
type Blog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValidateTitle возвращает причину отказа или пустую строку.
func ValidateTitle(title string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	switch {
	case n < TitleMinLength:
		return fmt.Sprintf("заголовок должен содержать не меньше %d символов", TitleMinLength)
	case n > TitleMaxLength:
		return fmt.Sprintf("заголовок должен содержать не больше %d символов", TitleMaxLength)
	}
	return ""
}

func ValidateContent(content string) string {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < ContentMinLength {
		return fmt.Sprintf("текст должен содержать не меньше %d символов", ContentMinLength)
	}
	return ""
}

func (b *Blog) Clone() *Blog {
	c := *b
	return &c
}
