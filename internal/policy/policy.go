// Package policy decides which operations a principal may perform.
//
// Every check goes through Authorize so role and ownership rules live in one
// place. The function is pure: callers load whatever the decision needs.
package policy

import (
	"errors"

	"github.com/yukikurage/team-task-api/internal/models"
)

var (
	ErrInactive  = errors.New("account is deactivated")
	ErrForbidden = errors.New("permission denied")
)

type Action string

const (
	ActionListAllTasks       Action = "tasks:list_all"
	ActionViewTask           Action = "tasks:view"
	ActionCreateTask         Action = "tasks:create"
	ActionUpdateTask         Action = "tasks:update"
	ActionDeleteTask         Action = "tasks:delete"
	ActionUpdateTaskProgress Action = "tasks:update_progress"
	ActionGenerateTasks      Action = "tasks:generate"

	ActionViewUser         Action = "users:view"
	ActionUpdateUser       Action = "users:update"
	ActionManageUsers      Action = "users:manage"
	ActionChangePrivileges Action = "users:change_privileges"

	ActionExportReports Action = "reports:export"
)

// Principal is the authenticated actor.
type Principal struct {
	ID       uint64
	Role     models.Role
	IsActive bool
}

// FromUser builds a Principal from a stored user.
func FromUser(u *models.User) Principal {
	return Principal{ID: u.ID, Role: u.Role, IsActive: u.IsActive}
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Target is the resource an action applies to. Task must be loaded with its
// assignments for task actions; UserID identifies the profile for user actions.
type Target struct {
	Task   *models.Task
	UserID uint64
}

// Authorize returns nil when p may perform action on target, ErrInactive when
// the principal is deactivated, and ErrForbidden otherwise.
func Authorize(p Principal, action Action, target Target) error {
	if !p.IsActive {
		return ErrInactive
	}
	if p.IsAdmin() {
		return nil
	}

	switch action {
	case ActionViewTask, ActionUpdateTaskProgress:
		if target.Task != nil && target.Task.IsAssignedTo(p.ID) {
			return nil
		}
	case ActionViewUser, ActionUpdateUser:
		if target.UserID != 0 && target.UserID == p.ID {
			return nil
		}
	}

	return ErrForbidden
}

// Can is Authorize as a boolean.
func Can(p Principal, action Action, target Target) bool {
	return Authorize(p, action, target) == nil
}
