package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-task-api/internal/dto"
	apierrors "user-task-api/internal/errors"
	"user-task-api/internal/middleware"
	"user-task-api/internal/services"
	"user-task-api/internal/validation"
)

// UserHandler coordinates user-related HTTP handlers.
type UserHandler struct {
	userService *services.UserService
	taskService *services.TaskService
	log         *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, taskService *services.TaskService, log *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		taskService: taskService,
		log:         log,
	}
}

// ListUsers returns all users ordered by id.
func (h *UserHandler) ListUsers(c *gin.Context) {
	opts, ok := parseListOptions(c)
	if !ok {
		return
	}

	users, err := h.userService.List(opts)
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponses(users))
}

// GetUser returns a single user by id.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(*user))
}

// CreateUser registers a new user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Create(services.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(*user))
}

// UpdateUser applies a partial update to an existing user.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Update(id, req)
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(*user))
}

// DeleteUser removes a user.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(id); err != nil {
		h.respondUserError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListUserTasks returns the tasks assigned to a user.
func (h *UserHandler) ListUserTasks(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByUser(id)
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponses(tasks))
}

func (h *UserHandler) respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, validation.ErrInvalidFormat):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidFormat, err.Error()))
	case errors.Is(err, services.ErrNoFields):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.NewAPIError(apierrors.ErrCodeNoFieldsProvided, "At least one field must be provided"))
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, apierrors.ErrCodeUserNotFound, "User not found")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, apierrors.ErrCodeUsernameExists, "Username already exists")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, apierrors.ErrCodeEmailExists, "Email already exists")
	case errors.Is(err, services.ErrUserHasTasks):
		apierrors.Conflict(c, apierrors.ErrCodeUserHasTasks, "User has assigned tasks")
	case errors.Is(err, services.ErrDuplicate):
		apierrors.Conflict(c, apierrors.ErrCodeConflict, "Duplicate value for unique field")
	default:
		requestID, _ := middleware.GetRequestID(c)
		h.log.Error("user operation failed",
			"error", err,
			"path", c.FullPath(),
			"request_id", requestID,
		)
		apierrors.InternalError(c, "Internal server error")
	}
}
