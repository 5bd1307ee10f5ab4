package handlers

import (
	"context"
	"net/http"
	"time"

	"habitTracker/internal/auth"
	"habitTracker/internal/logger"
	"habitTracker/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context, token string) (uuid.UUID, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type RealtimeServer interface {
	Serve(w http.ResponseWriter, r *http.Request, owner uuid.UUID) error
}

// Handler обслуживает HTTP-запросы поверх кэшей пользователей.
type Handler struct {
	Stores   *store.Registry
	Auth     AuthService
	Health   HealthChecker
	Realtime RealtimeServer
	Storage  string
}

func NewHandler(stores *store.Registry, authService AuthService, health HealthChecker, rt RealtimeServer, storage string) *Handler {
	return &Handler{
		Stores:   stores,
		Auth:     authService,
		Health:   health,
		Realtime: rt,
		Storage:  storage,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	err := h.Health.HealthCheck(r.Context())
	if err != nil {
		logger.Error("HTTP: Хранилище недоступно", err, zap.String("storage", h.Storage))
	}
	healthCheck(w, h.Storage, err)

	logger.Debug("HTTP_OUT: Проверка здоровья",
		zap.Duration("ms", time.Since(start)),
		zap.Bool("healthy", err == nil))
}
