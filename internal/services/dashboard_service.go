package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
)

// DashboardStatistics are the headline counts of a dashboard.
type DashboardStatistics struct {
	TotalTasks     int64
	PendingTasks   int64
	CompletedTasks int64
	OverdueTasks   int64
}

// DashboardCharts holds the status and priority distributions.
type DashboardCharts struct {
	TaskDistribution   map[string]int64
	TaskPriorityLevels map[string]int64
}

// Dashboard is the aggregated view over a set of tasks.
type Dashboard struct {
	Statistics  DashboardStatistics
	Charts      DashboardCharts
	RecentTasks []models.Task
}

// DashboardService builds read-only task aggregations
type DashboardService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(taskRepo repository.TaskRepository) *DashboardService {
	return &DashboardService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// AdminDashboard aggregates over every task.
func (s *DashboardService) AdminDashboard() (*Dashboard, error) {
	return s.build(repository.TaskFilter{})
}

// UserDashboard aggregates over the tasks assigned to userID.
func (s *DashboardService) UserDashboard(userID uint64) (*Dashboard, error) {
	return s.build(repository.TaskFilter{AssignedUserID: &userID})
}

func (s *DashboardService) build(filter repository.TaskFilter) (*Dashboard, error) {
	total, err := s.taskRepo.Count(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	byStatus, err := s.taskRepo.CountByStatus(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}

	byPriority, err := s.taskRepo.CountByPriority(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}

	overdue, err := s.taskRepo.CountOverdue(filter, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	recent, err := s.taskRepo.Recent(filter, constants.RecentTasksLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent tasks: %w", err)
	}

	return &Dashboard{
		Statistics: DashboardStatistics{
			TotalTasks:     total,
			PendingTasks:   byStatus[models.TaskStatusPending],
			CompletedTasks: byStatus[models.TaskStatusCompleted],
			OverdueTasks:   overdue,
		},
		Charts: DashboardCharts{
			TaskDistribution:   BuildStatusDistribution(byStatus, total),
			TaskPriorityLevels: BuildPriorityLevels(byPriority),
		},
		RecentTasks: recent,
	}, nil
}

// BuildStatusDistribution keys every status by its name without spaces and
// adds "All" set to total. Missing statuses count zero.
func BuildStatusDistribution(counts map[models.TaskStatus]int64, total int64) map[string]int64 {
	distribution := make(map[string]int64, len(models.TaskStatuses)+1)
	for _, status := range models.TaskStatuses {
		key := strings.ReplaceAll(string(status), " ", "")
		distribution[key] = counts[status]
	}
	distribution["All"] = total
	return distribution
}

// BuildPriorityLevels keys every priority by name. Missing priorities count zero.
func BuildPriorityLevels(counts map[models.TaskPriority]int64) map[string]int64 {
	levels := make(map[string]int64, len(models.TaskPriorities))
	for _, priority := range models.TaskPriorities {
		levels[string(priority)] = counts[priority]
	}
	return levels
}
