package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidData      = "INVALID_DATA"
	ErrCodeInvalidFormat    = "INVALID_FORMAT"
	ErrCodeNoFieldsProvided = "NO_FIELDS_PROVIDED"

	// Resource errors
	ErrCodeUserNotFound = "USER_NOT_FOUND"
	ErrCodeTaskNotFound = "TASK_NOT_FOUND"

	// Conflict errors
	ErrCodeUsernameExists = "USERNAME_EXISTS"
	ErrCodeEmailExists    = "EMAIL_EXISTS"
	ErrCodeUserHasTasks   = "USER_HAS_TASKS"
	ErrCodeConflict       = "CONFLICT"

	// Referential integrity errors
	ErrCodeInvalidUserID = "INVALID_USER_ID"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidData, message))
}

// NotFound sends a 404 response with an entity-specific code
func NotFound(c *gin.Context, code, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(code, message))
}

// Conflict sends a 409 response with an entity-specific code
func Conflict(c *gin.Context, code, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(code, message))
}

// UnprocessableEntity sends a 422 response
func UnprocessableEntity(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusUnprocessableEntity, NewAPIError(code, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}
