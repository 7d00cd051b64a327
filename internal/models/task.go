package models

import (
	"time"
)

// Task keeps the original schema's task_id primary key column. UserID is
// nullable: a nil value means the task is unassigned.
type Task struct {
	ID          uint64    `gorm:"column:task_id;primarykey" json:"task_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	DoneFlag    bool      `gorm:"not null;default:false;index" json:"done_flag"`
	UserID      *uint64   `gorm:"index" json:"user_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
}
