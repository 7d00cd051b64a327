package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"user-task-api/internal/dto"
	apierrors "user-task-api/internal/errors"
	"user-task-api/internal/middleware"
	"user-task-api/internal/repository"
	"user-task-api/internal/services"
	"user-task-api/internal/validation"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
	log         *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, log *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// ListTasks returns tasks ordered by id. Results can be narrowed with the
// done and user_id query filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	opts, ok := parseListOptions(c)
	if !ok {
		return
	}

	filter := repository.TaskFilter{ListOptions: opts}

	if raw := c.Query("done"); raw != "" {
		done, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid done filter")
			return
		}
		filter.Done = &done
	}

	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user_id filter")
			return
		}
		filter.UserID = &userID
	}

	tasks, err := h.taskService.List(filter)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponses(tasks))
}

// GetTask returns a single task by id.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(id)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(*task))
}

// CreateTask creates a new task.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.TaskCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(services.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		DoneFlag:    req.DoneFlag,
		UserID:      req.UserID,
	})
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(*task))
}

// UpdateTask applies a partial update to an existing task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(id, req)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(*task))
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(id); err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, validation.ErrInvalidFormat):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidFormat, err.Error()))
	case errors.Is(err, services.ErrNoFields):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.NewAPIError(apierrors.ErrCodeNoFieldsProvided, "At least one field must be provided"))
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, apierrors.ErrCodeTaskNotFound, "Task not found")
	case errors.Is(err, services.ErrUserReference):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeInvalidUserID, "Referenced user does not exist")
	default:
		requestID, _ := middleware.GetRequestID(c)
		h.log.Error("task operation failed",
			"error", err,
			"path", c.FullPath(),
			"request_id", requestID,
		)
		apierrors.InternalError(c, "Internal server error")
	}
}
