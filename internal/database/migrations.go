package database

import (
	"fmt"

	"gorm.io/gorm"

	"user-task-api/internal/models"
)

// Migrate creates or updates the schema for both entities. Unique indexes
// and the tasks.user_id foreign key come from the model tags.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
