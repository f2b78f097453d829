package repository

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task and its ordered assignee list atomically
	Create(task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task with its ordered assignments and assigned users
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks with filtering and optional pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update saves the task's own columns; assignments are untouched
	Update(task *models.Task) error

	// UpdateWithAssignees saves the task and replaces its assignee list atomically
	UpdateWithAssignees(task *models.Task, assigneeIDs []uint64) error

	// Delete hard deletes a task and its assignments
	Delete(id uint64) error

	// Count counts tasks matching the filter
	Count(filter TaskFilter) (int64, error)

	// CountByStatus groups matching tasks by status
	CountByStatus(filter TaskFilter) (map[models.TaskStatus]int64, error)

	// CountByPriority groups matching tasks by priority
	CountByPriority(filter TaskFilter) (map[models.TaskPriority]int64, error)

	// CountOverdue counts matching tasks that are not completed and due before now
	CountOverdue(filter TaskFilter, now time.Time) (int64, error)

	// Recent returns the most recently created matching tasks
	Recent(filter TaskFilter, limit int) ([]models.Task, error)

	// CountByAssigneeAndStatus groups assignment rows by user and task status
	CountByAssigneeAndStatus() ([]AssigneeStatusCount, error)
}

// TaskFilter holds filtering options for listing and counting tasks
type TaskFilter struct {
	Status         *models.TaskStatus
	AssignedUserID *uint64
	// Pagination is nil when the full result set is wanted
	Pagination *utils.PaginationParams
}

// AssigneeStatusCount is one (user, status) bucket of assigned tasks.
type AssigneeStatusCount struct {
	UserID uint64
	Status models.TaskStatus
	Count  int64
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update saves every column of the user
	Update(user *models.User) error

	// Delete hard deletes a user and removes them from task assignee lists
	Delete(id uint64) error

	// List returns users, restricted to role when non-empty
	List(role models.Role) ([]models.User, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ids []uint64) (int64, error)
}
