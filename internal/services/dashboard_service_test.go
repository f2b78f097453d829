package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"gorm.io/gorm"
)

func seedTask(t *testing.T, db *gorm.DB, title string, status models.TaskStatus, priority models.TaskPriority, due *time.Time, assignees ...uint64) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:         title,
		Status:        status,
		Priority:      priority,
		DueDate:       due,
		Attachments:   []string{},
		TodoChecklist: []models.TodoItem{},
	}
	require.NoError(t, repository.NewTaskRepository(db).Create(task, assignees))
	return task
}

func TestBuildStatusDistribution(t *testing.T) {
	got := BuildStatusDistribution(map[models.TaskStatus]int64{
		models.TaskStatusPending:   2,
		models.TaskStatusCompleted: 1,
	}, 3)

	assert.Equal(t, map[string]int64{"Pending": 2, "InProgress": 0, "Completed": 1, "All": 3}, got)
}

func TestBuildPriorityLevels(t *testing.T) {
	got := BuildPriorityLevels(map[models.TaskPriority]int64{models.TaskPriorityHigh: 4})

	assert.Equal(t, map[string]int64{"Low": 0, "Medium": 0, "High": 4}, got)
}

func TestDashboard_AggregatesStatusAndPriority(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	seedTask(t, db, "p1", models.TaskStatusPending, models.TaskPriorityLow, &yesterday)
	seedTask(t, db, "p2", models.TaskStatusPending, models.TaskPriorityHigh, &tomorrow)
	seedTask(t, db, "c1", models.TaskStatusCompleted, models.TaskPriorityHigh, &yesterday)

	service := NewDashboardService(repository.NewTaskRepository(db))
	service.now = func() time.Time { return now }

	dashboard, err := service.AdminDashboard()
	require.NoError(t, err)

	assert.Equal(t, DashboardStatistics{TotalTasks: 3, PendingTasks: 2, CompletedTasks: 1, OverdueTasks: 1}, dashboard.Statistics)
	assert.Equal(t, map[string]int64{"Pending": 2, "InProgress": 0, "Completed": 1, "All": 3}, dashboard.Charts.TaskDistribution)
	assert.Equal(t, map[string]int64{"Low": 1, "Medium": 0, "High": 2}, dashboard.Charts.TaskPriorityLevels)
	require.Len(t, dashboard.RecentTasks, 3)
	assert.Equal(t, "c1", dashboard.RecentTasks[0].Title)
}

func TestDashboard_UserScope(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", models.RoleMember)
	bob := createTestUser(t, db, "bob", models.RoleMember)

	seedTask(t, db, "mine", models.TaskStatusInProgress, models.TaskPriorityMedium, nil, alice.ID)
	seedTask(t, db, "shared", models.TaskStatusPending, models.TaskPriorityLow, nil, alice.ID, bob.ID)
	seedTask(t, db, "theirs", models.TaskStatusCompleted, models.TaskPriorityHigh, nil, bob.ID)

	service := NewDashboardService(repository.NewTaskRepository(db))

	dashboard, err := service.UserDashboard(alice.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), dashboard.Statistics.TotalTasks)
	assert.Equal(t, int64(1), dashboard.Statistics.PendingTasks)
	assert.Zero(t, dashboard.Statistics.CompletedTasks)
	assert.Zero(t, dashboard.Statistics.OverdueTasks)
	assert.Equal(t, map[string]int64{"Pending": 1, "InProgress": 1, "Completed": 0, "All": 2}, dashboard.Charts.TaskDistribution)
	assert.Len(t, dashboard.RecentTasks, 2)
}

func TestDashboard_RecentTasksLimited(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 12; i++ {
		seedTask(t, db, "task", models.TaskStatusPending, models.TaskPriorityLow, nil)
	}

	dashboard, err := NewDashboardService(repository.NewTaskRepository(db)).AdminDashboard()
	require.NoError(t, err)

	assert.Len(t, dashboard.RecentTasks, 10)
	assert.Equal(t, int64(12), dashboard.Statistics.TotalTasks)
}
