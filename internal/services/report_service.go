package services

import (
	"fmt"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/policy"
	"github.com/yukikurage/team-task-api/internal/report"
	"github.com/yukikurage/team-task-api/internal/repository"
)

// ReportService projects tasks and users into export rows
type ReportService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewReportService creates a new ReportService
func NewReportService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *ReportService {
	return &ReportService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// TaskRows returns one row per task with "name (email)" assignee labels.
func (s *ReportService) TaskRows(principal policy.Principal) ([]report.TaskRow, error) {
	if err := policy.Authorize(principal, policy.ActionExportReports, policy.Target{}); err != nil {
		return nil, err
	}

	tasks, _, err := s.taskRepo.List(repository.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	rows := make([]report.TaskRow, len(tasks))
	for i, task := range tasks {
		assignees := make([]string, 0, len(task.Assignments))
		for _, a := range task.Assignments {
			if a.User.ID == 0 {
				continue
			}
			assignees = append(assignees, fmt.Sprintf("%s (%s)", a.User.Name, a.User.Email))
		}
		rows[i] = report.TaskRow{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Priority:    string(task.Priority),
			Status:      string(task.Status),
			DueDate:     task.DueDate,
			Assignees:   assignees,
		}
	}

	return rows, nil
}

// UserRows returns one row per member with task counts by status. Members
// without tasks get zero counts.
func (s *ReportService) UserRows(principal policy.Principal) ([]report.UserRow, error) {
	if err := policy.Authorize(principal, policy.ActionExportReports, policy.Target{}); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(models.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	counts, err := s.taskRepo.CountByAssigneeAndStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	rows := make([]report.UserRow, len(users))
	index := make(map[uint64]int, len(users))
	for i, user := range users {
		rows[i] = report.UserRow{Name: user.Name, Email: user.Email}
		index[user.ID] = i
	}

	for _, c := range counts {
		i, ok := index[c.UserID]
		if !ok {
			continue
		}
		row := &rows[i]
		row.TaskCount += c.Count
		switch c.Status {
		case models.TaskStatusPending:
			row.Pending += c.Count
		case models.TaskStatusInProgress:
			row.InProgress += c.Count
		case models.TaskStatusCompleted:
			row.Completed += c.Count
		}
	}

	return rows, nil
}
