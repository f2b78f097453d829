package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/policy"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrInvalidTaskStatus   = errors.New("status must be one of Pending, In Progress, Completed")
	ErrInvalidTaskPriority = errors.New("priority must be one of Low, Medium, High")
	ErrChecklistRequired   = errors.New("todo_checklist is required")
	ErrAssigneesNotList    = errors.New("assigned_to must be an array of user ids")
	ErrInvalidTaskAssignee = errors.New("one or more assigned users do not exist")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status     *models.TaskStatus
	Pagination *utils.PaginationParams
}

// StatusSummary counts the principal's visible tasks by status. It ignores
// the status filter of the listing it accompanies.
type StatusSummary struct {
	All        int64
	Pending    int64
	InProgress int64
	Completed  int64
}

// ListTasksResult is one page of tasks plus counts
type ListTasksResult struct {
	Tasks   []models.Task
	Total   int64
	Summary StatusSummary
}

// CreateTaskInput represents input for creating a task. AssignedTo is the raw
// JSON value so that a scalar can be told apart from an array.
type CreateTaskInput struct {
	Title         string
	Description   string
	Priority      models.TaskPriority
	Status        models.TaskStatus
	DueDate       *time.Time
	Attachments   []string
	TodoChecklist []models.TodoItem
	AssignedTo    json.RawMessage
}

// UpdateTaskInput represents a general edit. Zero values (empty string,
// empty list, nil, JSON null) keep the stored value.
type UpdateTaskInput struct {
	Title         string
	Description   string
	Priority      models.TaskPriority
	DueDate       *time.Time
	Attachments   []string
	TodoChecklist []models.TodoItem
	AssignedTo    json.RawMessage
}

// ListTasks returns every task for admins and the assigned tasks for members
func (s *TaskService) ListTasks(principal policy.Principal, input ListTasksInput) (*ListTasksResult, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	scope := repository.TaskFilter{}
	if !policy.Can(principal, policy.ActionListAllTasks, policy.Target{}) {
		scope.AssignedUserID = &principal.ID
	}

	filter := scope
	filter.Status = input.Status
	filter.Pagination = input.Pagination

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	counts, err := s.taskRepo.CountByStatus(scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	summary := StatusSummary{
		Pending:    counts[models.TaskStatusPending],
		InProgress: counts[models.TaskStatusInProgress],
		Completed:  counts[models.TaskStatusCompleted],
	}
	for _, n := range counts {
		summary.All += n
	}

	return &ListTasksResult{Tasks: tasks, Total: total, Summary: summary}, nil
}

// GetTask returns a task the principal may view
func (s *TaskService) GetTask(principal policy.Principal, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(principal, policy.ActionViewTask, policy.Target{Task: task}); err != nil {
		return nil, err
	}

	return task, nil
}

// CreateTask validates input, derives progress and status, and stores the task
func (s *TaskService) CreateTask(principal policy.Principal, input CreateTaskInput) (*models.Task, error) {
	if err := policy.Authorize(principal, policy.ActionCreateTask, policy.Target{}); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	if input.Status != "" && !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	assigneeIDs, ok, err := parseAssignees(input.AssignedTo)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAssigneesNotList
	}
	if err := s.ensureUsersExist(assigneeIDs); err != nil {
		return nil, err
	}

	attachments := input.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     input.DueDate,
		Attachments: attachments,
		CreatorID:   principal.ID,
	}
	ApplyChecklist(task, input.TodoChecklist)
	if input.Status != "" {
		ApplyStatus(task, input.Status)
	}

	if err := s.taskRepo.Create(task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.findTask(task.ID)
}

// UpdateTask merges the present fields of input into the task. All input is
// validated before anything is written.
func (s *TaskService) UpdateTask(principal policy.Principal, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if err := policy.Authorize(principal, policy.ActionUpdateTask, policy.Target{}); err != nil {
		return nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if input.Priority != "" && !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	assigneeIDs, replaceAssignees, err := parseAssignees(input.AssignedTo)
	if err != nil {
		return nil, err
	}
	// An empty array keeps the current assignees.
	replaceAssignees = replaceAssignees && len(assigneeIDs) > 0
	if replaceAssignees {
		if err := s.ensureUsersExist(assigneeIDs); err != nil {
			return nil, err
		}
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		task.Title = title
	}
	if input.Description != "" {
		task.Description = input.Description
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if len(input.Attachments) > 0 {
		task.Attachments = input.Attachments
	}
	if len(input.TodoChecklist) > 0 {
		ApplyChecklist(task, input.TodoChecklist)
	}

	if replaceAssignees {
		err = s.taskRepo.UpdateWithAssignees(task, assigneeIDs)
	} else {
		err = s.taskRepo.Update(task)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findTask(task.ID)
}

// UpdateChecklist replaces the checklist and recomputes progress and status
func (s *TaskService) UpdateChecklist(principal policy.Principal, taskID uint64, items []models.TodoItem) (*models.Task, error) {
	if items == nil {
		return nil, ErrChecklistRequired
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(principal, policy.ActionUpdateTaskProgress, policy.Target{Task: task}); err != nil {
		return nil, err
	}

	ApplyChecklist(task, items)

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update checklist: %w", err)
	}

	return task, nil
}

// SetStatus sets the status directly; see ApplyStatus for checklist effects
func (s *TaskService) SetStatus(principal policy.Principal, taskID uint64, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(principal, policy.ActionUpdateTaskProgress, policy.Target{Task: task}); err != nil {
		return nil, err
	}

	ApplyStatus(task, status)

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return task, nil
}

// DeleteTask permanently removes a task
func (s *TaskService) DeleteTask(principal policy.Principal, taskID uint64) error {
	if err := policy.Authorize(principal, policy.ActionDeleteTask, policy.Target{}); err != nil {
		return err
	}

	if _, err := s.findTask(taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) ensureUsersExist(userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	count, err := s.userRepo.CountByIDs(userIDs)
	if err != nil {
		return fmt.Errorf("failed to verify users: %w", err)
	}
	if int(count) != len(userIDs) {
		return ErrInvalidTaskAssignee
	}
	return nil
}

// parseAssignees decodes a raw assigned_to value. ok is false when the value
// is absent or null; anything other than an array of ids is an error.
func parseAssignees(raw json.RawMessage) (ids []uint64, ok bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false, nil
	}
	if trimmed[0] != '[' {
		return nil, false, ErrAssigneesNotList
	}

	var values []uint64
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return nil, false, ErrAssigneesNotList
	}

	return uniqueUint64(values), true, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
