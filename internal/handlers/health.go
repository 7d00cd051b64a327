package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	db        *gorm.DB
	service   string
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB, service string, startedAt time.Time) *HealthHandler {
	return &HealthHandler{
		db:        db,
		service:   service,
		startedAt: startedAt,
	}
}

// Check answers 200 while the database responds to a ping, 503 otherwise.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	dbStatus := "up"
	statusCode := http.StatusOK

	if err := h.pingDatabase(ctx); err != nil {
		status = "degraded"
		dbStatus = "down"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":     status,
		"service":    h.service,
		"database":   dbStatus,
		"uptime_sec": int(time.Since(h.startedAt).Seconds()),
	})
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
