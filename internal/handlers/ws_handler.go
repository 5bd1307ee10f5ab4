package handlers

import (
	"net/http"

	"habitTracker/internal/auth"
	"habitTracker/internal/logger"
	"habitTracker/internal/service"

	"go.uber.org/zap"
)

// Subscribe открывает websocket с уведомлениями и событиями обновления для текущего пользователя.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		handleError(w, r, service.NewAuthRequired(), "subscribe")
		return
	}

	if err := h.Realtime.Serve(w, r, u.ID); err != nil {
		logger.Warn("HTTP: Не удалось открыть websocket",
			zap.Error(err),
			zap.String("user_id", u.ID.String()))
	}
}
