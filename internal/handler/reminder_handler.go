package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskdo/reminder-dispatch/internal/domain"
)

type upsertReminderRequest struct {
	TaskID string `json:"task_id" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Due    string `json:"due" binding:"required"`
}

type reminderResponse struct {
	TaskID   string `json:"task_id"`
	Title    string `json:"title"`
	Due      string `json:"due"`
	Notified bool   `json:"notified"`
}

type listRemindersResponse struct {
	Reminders []reminderResponse `json:"reminders"`
	Count     int                `json:"count"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ReminderHandler struct {
	repo domain.ReminderRepository
}

func NewReminderHandler(repo domain.ReminderRepository) *ReminderHandler {
	return &ReminderHandler{
		repo: repo,
	}
}

// HandleUpsert stores or replaces the reminder for a task. A replaced
// reminder always comes back unnotified so a rescheduled task fires again.
func (h *ReminderHandler) HandleUpsert(c *gin.Context) {
	ctx := c.Request.Context()

	var req upsertReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request validation failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if _, err := time.Parse(time.RFC3339, req.Due); err != nil {
		slog.WarnContext(ctx, "invalid due time in request",
			slog.String("task_id", req.TaskID),
			slog.String("due", req.Due),
		)
		respondError(c, http.StatusBadRequest, "validation_error", "invalid due time format, expected RFC3339")
		return
	}

	reminder, err := domain.NewReminder(req.TaskID, req.Title, req.Due)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.repo.Put(ctx, reminder); err != nil {
		slog.ErrorContext(ctx, "failed to store reminder",
			slog.String("task_id", req.TaskID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to store reminder")
		return
	}

	slog.InfoContext(ctx, "reminder stored",
		slog.String("task_id", reminder.TaskID),
		slog.String("due", reminder.Due),
	)

	c.JSON(http.StatusOK, reminderResponse{
		TaskID:   reminder.TaskID,
		Title:    reminder.Title,
		Due:      reminder.Due,
		Notified: reminder.Notified,
	})
}

// HandleDelete removes the reminder for a task. Deleting a task that has no
// reminder is not an error so callers can cascade deletes unconditionally.
func (h *ReminderHandler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()

	taskID := c.Param("taskId")
	if taskID == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "task id is required")
		return
	}

	if err := h.repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, domain.ErrReminderNotFound) {
			c.JSON(http.StatusOK, successResponse{
				Success: true,
				Message: "no reminder for task",
			})
			return
		}
		slog.ErrorContext(ctx, "failed to delete reminder",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to delete reminder")
		return
	}

	slog.InfoContext(ctx, "reminder deleted",
		slog.String("task_id", taskID),
	)

	c.JSON(http.StatusOK, successResponse{
		Success: true,
		Message: "reminder deleted",
	})
}

func (h *ReminderHandler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()

	reminders, err := h.repo.GetAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list reminders",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to list reminders")
		return
	}

	items := make([]reminderResponse, 0, len(reminders))
	for _, r := range reminders {
		items = append(items, reminderResponse{
			TaskID:   r.TaskID,
			Title:    r.Title,
			Due:      r.Due,
			Notified: r.Notified,
		})
	}

	c.JSON(http.StatusOK, listRemindersResponse{
		Reminders: items,
		Count:     len(items),
	})
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, errorResponse{
		Error:   errType,
		Message: message,
	})
}
