package handlers

import (
	"net/http"
	"time"

	"habitTracker/internal/auth"
	"habitTracker/internal/handlers/dto"
	"habitTracker/internal/logger"

	"go.uber.org/zap"
)

func (h *Handler) GetBlogs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	blogs := h.Stores.Blogs(auth.UserID(r.Context()))
	list, err := blogs.Blogs(r.Context())
	if err != nil {
		handleError(w, r, err, "get_blogs")
		return
	}

	logger.Info("HTTP_OUT: Записи блога получены",
		zap.Int("count", len(list)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("blogs", dto.FromBlogList(list)),
		toPayload("loading", blogs.IsLoading()))
}

func (h *Handler) GetBlog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	entry, err := h.Stores.Blogs(auth.UserID(r.Context())).Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "get_blog")
		return
	}

	logger.Info("HTTP_OUT: Запись блога получена",
		zap.String("blog_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("blog", dto.FromBlog(entry)))
}

func (h *Handler) PostBlog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.BlogRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.Stores.Blogs(auth.UserID(r.Context())).Add(r.Context(), request.Title, request.Content)
	if err != nil {
		handleError(w, r, err, "create_blog")
		return
	}

	logger.Info("HTTP_OUT: Запись блога создана",
		zap.String("blog_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("blog", dto.FromBlog(created)))
}

func (h *Handler) PutBlog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.BlogRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.Stores.Blogs(auth.UserID(r.Context())).Update(r.Context(), id, request.Title, request.Content)
	if err != nil {
		handleError(w, r, err, "update_blog")
		return
	}

	logger.Info("HTTP_OUT: Запись блога обновлена",
		zap.String("blog_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("blog", dto.FromBlog(updated)))
}

func (h *Handler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.Stores.Blogs(auth.UserID(r.Context())).Delete(r.Context(), id); err != nil {
		handleError(w, r, err, "delete_blog")
		return
	}

	logger.Info("HTTP_OUT: Запись блога удалена",
		zap.String("blog_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}
