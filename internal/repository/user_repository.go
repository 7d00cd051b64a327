package repository

import (
	"gorm.io/gorm"

	"user-task-api/internal/database"
	"user-task-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// List retrieves users ordered by id ascending
func (r *GormUserRepository) List(opts ListOptions) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Order("id ASC").
		Scopes(database.Paginate(opts.Limit, opts.Offset)).
		Find(&users).Error
	if err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// UsernameTaken reports whether another user already holds the username.
// excludeID skips the user being updated so a self-assignment is not a
// conflict; zero excludes nobody.
func (r *GormUserRepository) UsernameTaken(username string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("username = ?", username)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// EmailTaken reports whether another user already holds the email
func (r *GormUserRepository) EmailTaken(email string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return translateError(r.db.Create(user).Error)
}

// Update persists changes to an existing user. Save writes the full row so
// cleared optional fields are persisted too.
func (r *GormUserRepository) Update(user *models.User) error {
	return translateError(r.db.Save(user).Error)
}

// Delete removes a user and resolves dependent tasks in one transaction,
// so both delete policies behave atomically on every driver.
func (r *GormUserRepository) Delete(id uint64, detachTasks bool) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		if detachTasks {
			err := tx.Model(&models.Task{}).
				Where("user_id = ?", id).
				Update("user_id", nil).Error
			if err != nil {
				return err
			}
		} else {
			var count int64
			err := tx.Model(&models.Task{}).
				Where("user_id = ?", id).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrRestricted
			}
		}

		return tx.Delete(&models.User{}, id).Error
	})
	return translateError(err)
}
