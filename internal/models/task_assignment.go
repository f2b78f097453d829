package models

import (
	"time"
)

// TaskAssignment links a task to one of its assignees. Position keeps the
// assignee list in the order it was submitted.
type TaskAssignment struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
