package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "user-task-api/internal/errors"
	"user-task-api/internal/repository"
)

// parseID reads the :id path parameter. A malformed id answers 400 and
// returns false.
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// parseListOptions reads the optional limit/offset query parameters.
// A malformed value answers 400 and returns false.
func parseListOptions(c *gin.Context) (repository.ListOptions, bool) {
	var opts repository.ListOptions

	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			apierrors.BadRequest(c, "Invalid limit")
			return opts, false
		}
		opts.Limit = value
	}

	if raw := c.Query("offset"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			apierrors.BadRequest(c, "Invalid offset")
			return opts, false
		}
		opts.Offset = value
	}

	return opts, true
}
