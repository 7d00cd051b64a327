package repository

import (
	"gorm.io/gorm"

	"user-task-api/internal/database"
	"user-task-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// List retrieves tasks with filtering, ordered by task_id ascending
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})
	if filter.Done != nil {
		query = query.Where("done_flag = ?", *filter.Done)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	err := query.
		Order("task_id ASC").
		Scopes(database.Paginate(filter.Limit, filter.Offset)).
		Find(&tasks).Error
	if err != nil {
		return nil, translateError(err)
	}
	return tasks, nil
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return translateError(r.db.Create(task).Error)
}

// Update persists changes to an existing task. Save writes the full row so
// a cleared user_id reaches the database as NULL.
func (r *GormTaskRepository) Update(task *models.Task) error {
	return translateError(r.db.Save(task).Error)
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser retrieves all tasks assigned to a user, ordered by task_id
func (r *GormTaskRepository) ListByUser(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("user_id = ?", userID).
		Order("task_id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, translateError(err)
	}
	return tasks, nil
}

// CountByUser counts the tasks assigned to a user
func (r *GormTaskRepository) CountByUser(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}
