package auth

import (
	"context"

	"habitTracker/internal/models/user"

	"github.com/google/uuid"
)

type userCtxKey struct{}

func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext возвращает текущего пользователя; false для анонимного запроса.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*user.User)
	return u, ok && u != nil
}

// UserID возвращает uuid.Nil для анонимного запроса.
func UserID(ctx context.Context) uuid.UUID {
	if u, ok := UserFromContext(ctx); ok {
		return u.ID
	}
	return uuid.Nil
}
