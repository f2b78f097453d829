package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// TaskPriorities lists every priority in display order.
var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// TodoItem is one entry of a task checklist.
type TodoItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Task struct {
	ID            uint64       `gorm:"primarykey" json:"id"`
	Title         string       `gorm:"not null" json:"title"`
	Description   string       `gorm:"type:text" json:"description"`
	Priority      TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	Status        TaskStatus   `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	DueDate       *time.Time   `json:"due_date"`
	Progress      int          `gorm:"not null;default:0" json:"progress"`
	Attachments   []string     `gorm:"type:text;serializer:json" json:"attachments"`
	TodoChecklist []TodoItem   `gorm:"type:text;serializer:json" json:"todo_checklist"`
	CreatorID     uint64       `gorm:"not null" json:"creator_id"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	// Relations
	Creator     User             `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

// AssigneeIDs returns the assigned user IDs in assignment order.
// Assignments must be loaded ordered by position.
func (t *Task) AssigneeIDs() []uint64 {
	ids := make([]uint64, len(t.Assignments))
	for i, a := range t.Assignments {
		ids[i] = a.UserID
	}
	return ids
}

// IsAssignedTo reports whether userID is among the task's assignees.
func (t *Task) IsAssignedTo(userID uint64) bool {
	for _, a := range t.Assignments {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// CompletedTodoCount returns the number of completed checklist items.
func (t *Task) CompletedTodoCount() int {
	n := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			n++
		}
	}
	return n
}
