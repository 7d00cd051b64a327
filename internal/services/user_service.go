package services

import (
	"errors"
	"fmt"

	"user-task-api/internal/config"
	"user-task-api/internal/dto"
	"user-task-api/internal/models"
	"user-task-api/internal/repository"
	"user-task-api/internal/validation"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
	ErrUserHasTasks  = errors.New("user has assigned tasks")
	ErrNoFields      = errors.New("no fields provided")
	// ErrDuplicate is the backstop for a unique violation that slipped past
	// the pre-checks; the constraint is the source of truth.
	ErrDuplicate = errors.New("duplicate value for unique field")
)

// UserService handles user business logic
type UserService struct {
	userRepo     repository.UserRepository
	deletePolicy string
}

// NewUserService creates a new UserService. deletePolicy is one of the
// config.DeletePolicy constants.
func NewUserService(userRepo repository.UserRepository, deletePolicy string) *UserService {
	return &UserService{
		userRepo:     userRepo,
		deletePolicy: deletePolicy,
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Username string
	Email    string
	FullName string
}

// List returns users ordered by id
func (s *UserService) List(opts repository.ListOptions) ([]models.User, error) {
	users, err := s.userRepo.List(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get returns a user by id
func (s *UserService) Get(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Create validates the input, checks uniqueness and inserts the user. The
// taken-checks exist to name the conflicting field; a concurrent write that
// slips past them is still caught by the unique constraint.
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	if err := validation.Username(input.Username); err != nil {
		return nil, err
	}
	if err := validation.Email(input.Email); err != nil {
		return nil, err
	}
	if err := validation.FullName(input.FullName); err != nil {
		return nil, err
	}

	taken, err := s.userRepo.UsernameTaken(input.Username, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.userRepo.EmailTaken(input.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		FullName: input.FullName,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Update applies the supplied fields to an existing user. Absent fields are
// left untouched; username and email may not be null.
func (s *UserService) Update(id uint64, input dto.UserUpdate) (*models.User, error) {
	if input.Empty() {
		return nil, ErrNoFields
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Username.Present {
		if input.Username.Null {
			return nil, fmt.Errorf("%w: username cannot be null", validation.ErrInvalidFormat)
		}
		if err := validation.Username(input.Username.Value); err != nil {
			return nil, err
		}
		taken, err := s.userRepo.UsernameTaken(input.Username.Value, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = input.Username.Value
	}

	if input.Email.Present {
		if input.Email.Null {
			return nil, fmt.Errorf("%w: email cannot be null", validation.ErrInvalidFormat)
		}
		if err := validation.Email(input.Email.Value); err != nil {
			return nil, err
		}
		taken, err := s.userRepo.EmailTaken(input.Email.Value, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
		user.Email = input.Email.Value
	}

	if input.FullName.Present {
		if input.FullName.Null {
			user.FullName = ""
		} else {
			if err := validation.FullName(input.FullName.Value); err != nil {
				return nil, err
			}
			user.FullName = input.FullName.Value
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes a user. Under the detach policy the user's tasks are
// unassigned; under restrict the delete fails while tasks reference the
// user.
func (s *UserService) Delete(id uint64) error {
	detach := s.deletePolicy != config.DeletePolicyRestrict

	if err := s.userRepo.Delete(id, detach); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, repository.ErrRestricted):
			return ErrUserHasTasks
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
