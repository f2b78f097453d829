package dto

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

type DashboardStatisticsDTO struct {
	TotalTasks     int64 `json:"total_tasks"`
	PendingTasks   int64 `json:"pending_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	OverdueTasks   int64 `json:"overdue_tasks"`
}

type DashboardChartsDTO struct {
	TaskDistribution   map[string]int64 `json:"task_distribution"`
	TaskPriorityLevels map[string]int64 `json:"task_priority_levels"`
}

// RecentTaskDTO is the summary shape of a task on a dashboard
type RecentTaskDTO struct {
	ID        uint64              `json:"id"`
	Title     string              `json:"title"`
	Status    models.TaskStatus   `json:"status"`
	Priority  models.TaskPriority `json:"priority"`
	DueDate   *time.Time          `json:"due_date"`
	CreatedAt time.Time           `json:"created_at"`
}

type DashboardResponse struct {
	Statistics  DashboardStatisticsDTO `json:"statistics"`
	Charts      DashboardChartsDTO     `json:"charts"`
	RecentTasks []RecentTaskDTO        `json:"recent_tasks"`
}

// ToDashboardResponse converts a dashboard aggregation
func ToDashboardResponse(d *services.Dashboard) DashboardResponse {
	recent := make([]RecentTaskDTO, len(d.RecentTasks))
	for i, task := range d.RecentTasks {
		recent[i] = RecentTaskDTO{
			ID:        task.ID,
			Title:     task.Title,
			Status:    task.Status,
			Priority:  task.Priority,
			DueDate:   task.DueDate,
			CreatedAt: task.CreatedAt,
		}
	}

	return DashboardResponse{
		Statistics: DashboardStatisticsDTO{
			TotalTasks:     d.Statistics.TotalTasks,
			PendingTasks:   d.Statistics.PendingTasks,
			CompletedTasks: d.Statistics.CompletedTasks,
			OverdueTasks:   d.Statistics.OverdueTasks,
		},
		Charts: DashboardChartsDTO{
			TaskDistribution:   d.Charts.TaskDistribution,
			TaskPriorityLevels: d.Charts.TaskPriorityLevels,
		},
		RecentTasks: recent,
	}
}
