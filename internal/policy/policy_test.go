package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/team-task-api/internal/models"
)

func taskAssignedTo(ids ...uint64) *models.Task {
	task := &models.Task{ID: 1}
	for i, id := range ids {
		task.Assignments = append(task.Assignments, models.TaskAssignment{TaskID: 1, UserID: id, Position: i})
	}
	return task
}

var allActions = []Action{
	ActionListAllTasks, ActionViewTask, ActionCreateTask, ActionUpdateTask, ActionDeleteTask,
	ActionUpdateTaskProgress, ActionGenerateTasks, ActionViewUser, ActionUpdateUser,
	ActionManageUsers, ActionChangePrivileges, ActionExportReports,
}

func TestAuthorize_InactiveDeniedEverything(t *testing.T) {
	for _, role := range []models.Role{models.RoleAdmin, models.RoleMember} {
		p := Principal{ID: 5, Role: role, IsActive: false}
		target := Target{Task: taskAssignedTo(5), UserID: 5}
		for _, action := range allActions {
			assert.ErrorIs(t, Authorize(p, action, target), ErrInactive, "%s %s", role, action)
		}
	}
}

func TestAuthorize_AdminAllowedEverything(t *testing.T) {
	p := Principal{ID: 1, Role: models.RoleAdmin, IsActive: true}
	for _, action := range allActions {
		assert.NoError(t, Authorize(p, action, Target{Task: taskAssignedTo(9), UserID: 9}), action)
	}
}

func TestAuthorize_MemberTaskRules(t *testing.T) {
	p := Principal{ID: 2, Role: models.RoleMember, IsActive: true}
	assigned := Target{Task: taskAssignedTo(7, 2)}
	unrelated := Target{Task: taskAssignedTo(7)}

	assert.NoError(t, Authorize(p, ActionViewTask, assigned))
	assert.NoError(t, Authorize(p, ActionUpdateTaskProgress, assigned))

	assert.ErrorIs(t, Authorize(p, ActionViewTask, unrelated), ErrForbidden)
	assert.ErrorIs(t, Authorize(p, ActionUpdateTaskProgress, unrelated), ErrForbidden)
	assert.ErrorIs(t, Authorize(p, ActionUpdateTaskProgress, Target{}), ErrForbidden)

	for _, action := range []Action{ActionListAllTasks, ActionCreateTask, ActionUpdateTask, ActionDeleteTask, ActionGenerateTasks, ActionExportReports} {
		assert.ErrorIs(t, Authorize(p, action, assigned), ErrForbidden, action)
	}
}

func TestAuthorize_MemberUserRules(t *testing.T) {
	p := Principal{ID: 2, Role: models.RoleMember, IsActive: true}

	assert.True(t, Can(p, ActionViewUser, Target{UserID: 2}))
	assert.True(t, Can(p, ActionUpdateUser, Target{UserID: 2}))
	assert.False(t, Can(p, ActionViewUser, Target{UserID: 3}))
	assert.False(t, Can(p, ActionChangePrivileges, Target{UserID: 2}))
	assert.False(t, Can(p, ActionManageUsers, Target{UserID: 2}))
}

func TestFromUser(t *testing.T) {
	u := &models.User{ID: 4, Role: models.RoleAdmin, IsActive: true}
	p := FromUser(u)
	assert.Equal(t, Principal{ID: 4, Role: models.RoleAdmin, IsActive: true}, p)
	assert.True(t, p.IsAdmin())
}
