package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"habitTracker/internal/auth"
	"habitTracker/internal/logger"
	"habitTracker/internal/models/user"
	"habitTracker/internal/service"

	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

// BearerToken берёт токен из Authorization, для браузерных websocket-клиентов - из ?token=.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return r.URL.Query().Get("token")
}

// Authenticate кладёт пользователя в контекст. Запрос без токена проходит анонимно,
// недействительный токен получает 401.
func Authenticate(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, err := a.Authenticate(r.Context(), token)
			if err != nil {
				status := http.StatusUnauthorized
				code := service.CodeUnauthorized
				var busErr *service.BusinessError
				if !errors.As(err, &busErr) {
					status = http.StatusInternalServerError
					code = "INTERNAL_ERROR"
					logger.Error("HTTP: Ошибка проверки токена", err,
						zap.String("request_id", GetRequestID(r.Context())))
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":      code,
					"message":    "Сессия недействительна, войдите снова",
					"request_id": GetRequestID(r.Context()),
				})
				return
			}

			setAccessUser(r.Context(), u.ID)
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}
