package dto

import (
	"time"

	"user-task-api/internal/models"
)

// TaskCreate is the POST /tasks payload. UserID is optional; nil leaves the
// task unassigned.
type TaskCreate struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DoneFlag    bool    `json:"done_flag"`
	UserID      *uint64 `json:"user_id"`
}

// TaskUpdate is the PUT /tasks/:id payload. Absent fields are left
// unchanged. An explicit null user_id unassigns the task; name and
// done_flag may not be null.
type TaskUpdate struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
	DoneFlag    Optional[bool]   `json:"done_flag"`
	UserID      Optional[uint64] `json:"user_id"`
}

// Empty reports whether no field was supplied at all.
func (t TaskUpdate) Empty() bool {
	return !t.Name.Present && !t.Description.Present && !t.DoneFlag.Present && !t.UserID.Present
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          uint64    `json:"task_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DoneFlag    bool      `json:"done_flag"`
	UserID      *uint64   `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTaskResponse converts a Task model to TaskResponse.
func ToTaskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		DoneFlag:    task.DoneFlag,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskResponses converts a slice of Task models.
func ToTaskResponses(tasks []models.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskResponse(task)
	}
	return out
}
