package dto

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
	"github.com/yukikurage/team-task-api/internal/utils"
)

// AssigneeDTO is the public projection of an assigned user
type AssigneeDTO struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                 uint64              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Priority           models.TaskPriority `json:"priority"`
	Status             models.TaskStatus   `json:"status"`
	DueDate            *time.Time          `json:"due_date"`
	Progress           int                 `json:"progress"`
	Attachments        []string            `json:"attachments"`
	TodoChecklist      []models.TodoItem   `json:"todo_checklist"`
	CompletedTodoCount int                 `json:"completed_todo_count"`
	AssignedTo         []AssigneeDTO       `json:"assigned_to"`
	CreatorID          uint64              `json:"creator_id"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// StatusSummaryDTO counts visible tasks by status
type StatusSummaryDTO struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pending_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
}

// TaskListResponse represents a list of tasks with a status summary
type TaskListResponse struct {
	Tasks         []TaskDTO                 `json:"tasks"`
	StatusSummary StatusSummaryDTO          `json:"status_summary"`
	Pagination    *utils.PaginationResponse `json:"pagination,omitempty"`
}

// TaskDraftDTO is an AI suggested task
type TaskDraftDTO struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Priority      models.TaskPriority `json:"priority"`
	DueDate       *time.Time          `json:"due_date"`
	TodoChecklist []models.TodoItem   `json:"todo_checklist"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		Priority:           task.Priority,
		Status:             task.Status,
		DueDate:            task.DueDate,
		Progress:           task.Progress,
		Attachments:        task.Attachments,
		TodoChecklist:      task.TodoChecklist,
		CompletedTodoCount: task.CompletedTodoCount(),
		AssignedTo:         make([]AssigneeDTO, 0, len(task.Assignments)),
		CreatorID:          task.CreatorID,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
	if dto.Attachments == nil {
		dto.Attachments = []string{}
	}
	if dto.TodoChecklist == nil {
		dto.TodoChecklist = []models.TodoItem{}
	}

	for _, assignment := range task.Assignments {
		dto.AssignedTo = append(dto.AssignedTo, AssigneeDTO{
			ID:              assignment.UserID,
			Name:            assignment.User.Name,
			Email:           assignment.User.Email,
			ProfileImageURL: assignment.User.ProfileImageURL,
		})
	}

	return dto
}

// ToTaskListResponse converts a listing result. pagination is nil when the
// full result set was requested.
func ToTaskListResponse(result *services.ListTasksResult, pagination *utils.PaginationParams) TaskListResponse {
	tasks := make([]TaskDTO, len(result.Tasks))
	for i, task := range result.Tasks {
		tasks[i] = ToTaskDTO(task)
	}

	response := TaskListResponse{
		Tasks: tasks,
		StatusSummary: StatusSummaryDTO{
			All:             result.Summary.All,
			PendingTasks:    result.Summary.Pending,
			InProgressTasks: result.Summary.InProgress,
			CompletedTasks:  result.Summary.Completed,
		},
	}
	if pagination != nil {
		response.Pagination = &utils.PaginationResponse{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: result.Total,
		}
	}
	return response
}

// ToTaskDraftDTOs converts AI drafts
func ToTaskDraftDTOs(drafts []services.TaskDraft) []TaskDraftDTO {
	dtos := make([]TaskDraftDTO, len(drafts))
	for i, d := range drafts {
		dtos[i] = TaskDraftDTO{
			Title:         d.Title,
			Description:   d.Description,
			Priority:      d.Priority,
			DueDate:       d.DueDate,
			TodoChecklist: d.TodoChecklist,
		}
	}
	return dtos
}
