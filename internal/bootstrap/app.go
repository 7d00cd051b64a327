package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"user-task-api/internal/config"
	"user-task-api/internal/database"
)

// App carries the process-wide resources: configuration, the structured
// logger and the database handle. It is opened once at startup and closed
// at shutdown; nothing in the repository references it as a global.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	DB     *gorm.DB

	StartedAt time.Time
}

// New loads configuration, builds the logger and opens a migrated database
// connection.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log := newLogger(cfg.Log)

	gormLog := gormlogger.Default.LogMode(gormlogger.Warn)
	if cfg.App.Env == "dev" {
		gormLog = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := database.Open(ctx, cfg, gormLog)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready", "driver", cfg.Database.Driver, "name", cfg.Database.Name)

	return &App{
		Config:    cfg,
		Log:       log,
		DB:        db,
		StartedAt: time.Now(),
	}, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
