package services

import (
	"errors"
	"fmt"

	"user-task-api/internal/dto"
	"user-task-api/internal/models"
	"user-task-api/internal/repository"
	"user-task-api/internal/validation"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	// ErrUserReference is returned when a task names a user that does not
	// exist.
	ErrUserReference = errors.New("referenced user does not exist")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name        string
	Description string
	DoneFlag    bool
	UserID      *uint64
}

// List returns tasks matching the filter, ordered by id
func (s *TaskService) List(filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a task by id
func (s *TaskService) Get(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Create validates the input, verifies the referenced user when one is
// given and inserts the task. The name is stored trimmed.
func (s *TaskService) Create(input CreateTaskInput) (*models.Task, error) {
	name, err := validation.TaskName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := validation.Description(input.Description); err != nil {
		return nil, err
	}

	if input.UserID != nil {
		if err := s.ensureUserExists(*input.UserID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Name:        name,
		Description: input.Description,
		DoneFlag:    input.DoneFlag,
		UserID:      input.UserID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrUserReference
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Update applies the supplied fields to an existing task. Absent fields are
// left untouched; an explicit null user_id unassigns the task.
func (s *TaskService) Update(id uint64, input dto.TaskUpdate) (*models.Task, error) {
	if input.Empty() {
		return nil, ErrNoFields
	}

	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Name.Present {
		if input.Name.Null {
			return nil, fmt.Errorf("%w: name cannot be null", validation.ErrInvalidFormat)
		}
		name, err := validation.TaskName(input.Name.Value)
		if err != nil {
			return nil, err
		}
		task.Name = name
	}

	if input.Description.Present {
		if input.Description.Null {
			task.Description = ""
		} else {
			if err := validation.Description(input.Description.Value); err != nil {
				return nil, err
			}
			task.Description = input.Description.Value
		}
	}

	if input.DoneFlag.Present {
		if input.DoneFlag.Null {
			return nil, fmt.Errorf("%w: done_flag cannot be null", validation.ErrInvalidFormat)
		}
		task.DoneFlag = input.DoneFlag.Value
	}

	if input.UserID.Present {
		if input.UserID.Null {
			task.UserID = nil
		} else {
			if err := s.ensureUserExists(input.UserID.Value); err != nil {
				return nil, err
			}
			userID := input.UserID.Value
			task.UserID = &userID
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrUserReference
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes a task
func (s *TaskService) Delete(id uint64) error {
	if err := s.taskRepo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ListByUser returns the tasks assigned to an existing user
func (s *TaskService) ListByUser(userID uint64) ([]models.Task, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	tasks, err := s.taskRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for user: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) ensureUserExists(userID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserReference
		}
		return fmt.Errorf("failed to verify user reference: %w", err)
	}
	return nil
}
