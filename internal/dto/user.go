package dto

import (
	"time"

	"user-task-api/internal/models"
)

// UserCreate is the POST /users payload.
type UserCreate struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name"`
}

// UserUpdate is the PUT /users/:id payload. Absent fields are left
// unchanged; username and email may not be null.
type UserUpdate struct {
	Username Optional[string] `json:"username"`
	Email    Optional[string] `json:"email"`
	FullName Optional[string] `json:"full_name"`
}

// Empty reports whether no field was supplied at all.
func (u UserUpdate) Empty() bool {
	return !u.Username.Present && !u.Email.Present && !u.FullName.Present
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserResponse converts a User model to UserResponse.
func ToUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserResponses converts a slice of User models.
func ToUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, user := range users {
		out[i] = ToUserResponse(user)
	}
	return out
}
