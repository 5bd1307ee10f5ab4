package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type SarcasmLevel string

const (
	SarcasmMild   SarcasmLevel = "mild"
	SarcasmMedium SarcasmLevel = "medium"
	SarcasmSpicy  SarcasmLevel = "spicy"
)

type Settings struct {
	SarcasmLevel       SarcasmLevel `json:"sarcasm_level" db:"sarcasm_level"`
	EmailNotifications bool         `json:"email_notifications" db:"email_notifications"`
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Settings     Settings  `json:"settings"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func DefaultSettings() Settings {
	return Settings{
		SarcasmLevel:       SarcasmMild,
		EmailNotifications: true,
	}
}

func (l SarcasmLevel) Valid() bool {
	return l == SarcasmMild || l == SarcasmMedium || l == SarcasmSpicy
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NameFromEmail берёт локальную часть адреса как отображаемое имя.
func NameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}
	return local
}
