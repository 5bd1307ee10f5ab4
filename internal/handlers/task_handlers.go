package handlers

import (
	"net/http"
	"strings"
	"time"

	"habitTracker/internal/auth"
	"habitTracker/internal/handlers/dto"
	"habitTracker/internal/logger"
	"habitTracker/internal/models/task"
	"habitTracker/internal/service"

	"go.uber.org/zap"
)

func normalizeWeekDay(raw string) task.WeekDay {
	return task.WeekDay(strings.ToLower(strings.TrimSpace(raw)))
}

func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks := h.Stores.Tasks(auth.UserID(r.Context()))

	var (
		list []*task.Task
		err  error
	)
	if raw := r.URL.Query().Get("goal_type"); raw != "" {
		goal, parseErr := task.ParseGoalType(raw)
		if parseErr != nil {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "goal_type"),
				zap.String("value", raw),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		list, err = tasks.ByGoalType(r.Context(), goal)
	} else {
		list, err = tasks.Tasks(r.Context())
	}
	if err != nil {
		handleError(w, r, err, "get_tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(list)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(list)),
		toPayload("loading", tasks.IsLoading()))
}

func (h *Handler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	logger.Info("HTTP: Вызов сервиса для создания задачи")

	created, err := h.Stores.Tasks(auth.UserID(r.Context())).Add(r.Context(), service.CreateTaskInput{
		Name:        request.Name,
		Description: request.Description,
		Status:      task.Status(request.Status),
		GoalType:    task.GoalType(request.GoalType),
		WeekDay:     normalizeWeekDay(request.WeekDay),
	})
	if err != nil {
		handleError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created)))
}

func (h *Handler) PutTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	var options []task.TaskOption
	if request.Name != nil {
		options = append(options, task.WithName(*request.Name))
	}
	if request.Description != nil {
		options = append(options, task.WithDescription(*request.Description))
	}
	if request.DueDate != nil {
		options = append(options, task.WithDueDate(*request.DueDate))
	}
	if request.WeekDay != nil {
		day := normalizeWeekDay(*request.WeekDay)
		if !day.Valid() {
			handleError(w, r, service.NewValidationError("week_day", "неизвестный день недели "+*request.WeekDay), "update_task")
			return
		}
		options = append(options, task.WithWeekDay(day))
	}

	logger.Info("HTTP: Вызов сервиса для обновления задачи", zap.String("task_id", id.String()))

	updated, err := h.Stores.Tasks(auth.UserID(r.Context())).Update(r.Context(), id, options...)
	if err != nil {
		handleError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated)))
}

func (h *Handler) PatchTaskStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateStatusRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	status, err := task.ParseStatus(request.Status)
	if err != nil {
		handleError(w, r, service.NewValidationError("status", err.Error()), "update_status")
		return
	}

	updated, err := h.Stores.Tasks(auth.UserID(r.Context())).UpdateStatus(r.Context(), id, status, request.Reason)
	if err != nil {
		handleError(w, r, err, "update_status")
		return
	}

	logger.Info("HTTP_OUT: Статус задачи изменён",
		zap.String("task_id", id.String()),
		zap.String("status", string(status)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated)))
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.Stores.Tasks(auth.UserID(r.Context())).Delete(r.Context(), id); err != nil {
		handleError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}
