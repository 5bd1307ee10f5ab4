package handlers

import (
	"net/http"
	"time"

	"habitTracker/internal/auth"
	"habitTracker/internal/handlers/dto"
	"habitTracker/internal/logger"
	"habitTracker/internal/middleware"
	"habitTracker/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func sessionPayload(session *auth.Session) []Payload {
	return []Payload{
		toPayload("token", session.Token),
		toPayload("expires_at", session.ExpiresAt),
		toPayload("user", dto.FromUser(session.User)),
	}
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CredentialsRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	session, err := h.Auth.SignUp(r.Context(), request.Email, request.Password)
	if err != nil {
		handleError(w, r, err, "sign_up")
		return
	}

	logger.Info("HTTP_OUT: Пользователь зарегистрирован",
		zap.String("user_id", session.User.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, sessionPayload(session)...)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CredentialsRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	session, err := h.Auth.SignIn(r.Context(), request.Email, request.Password)
	if err != nil {
		handleError(w, r, err, "sign_in")
		return
	}

	logger.Info("HTTP_OUT: Пользователь вошёл",
		zap.String("user_id", session.User.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, sessionPayload(session)...)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	// маршрут вне Authenticate: отозванный или мусорный токен тоже получает 204
	owner, err := h.Auth.SignOut(r.Context(), middleware.BearerToken(r))
	if err != nil {
		handleError(w, r, err, "sign_out")
		return
	}

	if owner != uuid.Nil {
		h.Stores.Drop(owner)
	}

	logger.Info("HTTP_OUT: Пользователь вышел",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		handleError(w, r, service.NewAuthRequired(), "me")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("user", dto.FromUser(u)))
}
