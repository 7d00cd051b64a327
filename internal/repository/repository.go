package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"user-task-api/internal/models"
)

// Storage error taxonomy. Repositories translate every driver failure into
// one of these before it crosses the package boundary; raw driver errors
// never reach the services.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value")
	// ErrForeignKey is returned when a write references a missing row.
	ErrForeignKey = errors.New("foreign key violation")
	// ErrRestricted is returned when a delete is refused because dependent
	// records exist.
	ErrRestricted = errors.New("dependent records exist")
)

// PostgreSQL error codes, matched when the gorm driver does not translate
// the violation itself.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ListOptions holds the optional window for list queries
type ListOptions struct {
	Limit  int
	Offset int
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Done   *bool
	UserID *uint64
	ListOptions
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// List retrieves users ordered by id ascending
	List(opts ListOptions) ([]models.User, error)

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// UsernameTaken reports whether another user already holds the username
	UsernameTaken(username string, excludeID uint64) (bool, error)

	// EmailTaken reports whether another user already holds the email
	EmailTaken(email string, excludeID uint64) (bool, error)

	// Create creates a new user
	Create(user *models.User) error

	// Update persists changes to an existing user
	Update(user *models.User) error

	// Delete removes a user. With detachTasks the user's tasks are
	// unassigned first; otherwise the delete fails with ErrRestricted
	// while dependent tasks exist.
	Delete(id uint64, detachTasks bool) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// List retrieves tasks with filtering, ordered by task_id ascending
	List(filter TaskFilter) ([]models.Task, error)

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// Create creates a new task
	Create(task *models.Task) error

	// Update persists changes to an existing task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error

	// ListByUser retrieves all tasks assigned to a user
	ListByUser(userID uint64) ([]models.Task, error)

	// CountByUser counts the tasks assigned to a user
	CountByUser(userID uint64) (int64, error)
}

// translateError maps gorm sentinels and raw PostgreSQL error codes onto
// the storage taxonomy. Errors it does not recognize pass through for the
// caller to wrap.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, ErrRestricted):
		return ErrRestricted
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateKey
		case pgForeignKeyViolation:
			return ErrForeignKey
		}
	}

	return err
}
