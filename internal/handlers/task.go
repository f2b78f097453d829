package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
	"github.com/yukikurage/team-task-api/internal/utils"
)

type TaskHandler struct {
	taskService      *services.TaskService
	dashboardService *services.DashboardService
	aiService        *services.AIService
	log              *slog.Logger
}

func NewTaskHandler(taskService *services.TaskService, dashboardService *services.DashboardService, aiService *services.AIService, log *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService:      taskService,
		dashboardService: dashboardService,
		aiService:        aiService,
		log:              log,
	}
}

// taskRequest is the body of create and update. AssignedTo stays raw so a
// scalar can be rejected instead of silently coerced.
type taskRequest struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Priority      string            `json:"priority"`
	Status        string            `json:"status"`
	DueDate       string            `json:"due_date"`
	Attachments   []string          `json:"attachments"`
	TodoChecklist []models.TodoItem `json:"todo_checklist"`
	AssignedTo    json.RawMessage   `json:"assigned_to"`
}

// ListTasks returns all tasks for admins and assigned tasks for members
// Can filter by status; page and limit paginate when present
func (h *TaskHandler) ListTasks(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	input := services.ListTasksInput{}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if params, paginate := utils.GetPaginationParams(c); paginate {
		input.Pagination = &params
	}

	result, err := h.taskService.ListTasks(p, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(result, input.Pagination))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(p, taskID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	task, err := h.taskService.CreateTask(p, services.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      models.TaskPriority(req.Priority),
		Status:        models.TaskStatus(req.Status),
		DueDate:       dueDate,
		Attachments:   req.Attachments,
		TodoChecklist: req.TodoChecklist,
		AssignedTo:    req.AssignedTo,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateTask merges the provided fields into a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	task, err := h.taskService.UpdateTask(p, taskID, services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      models.TaskPriority(req.Priority),
		DueDate:       dueDate,
		Attachments:   req.Attachments,
		TodoChecklist: req.TodoChecklist,
		AssignedTo:    req.AssignedTo,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(p, taskID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// UpdateTaskStatus sets the status of a task
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.SetStatus(p, taskID, models.TaskStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateTaskChecklist replaces the checklist of a task
func (h *TaskHandler) UpdateTaskChecklist(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateChecklistRequest struct {
		TodoChecklist []models.TodoItem `json:"todo_checklist"`
	}

	var req UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateChecklist(p, taskID, req.TodoChecklist)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task checklist updated",
		"task":    dto.ToTaskDTO(*task),
	})
}

// GetDashboardData returns statistics over every task
func (h *TaskHandler) GetDashboardData(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}

	dashboard, err := h.dashboardService.AdminDashboard()
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(dashboard))
}

// GetUserDashboardData returns statistics over the principal's tasks
func (h *TaskHandler) GetUserDashboardData(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.UserDashboard(p.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(dashboard))
}

// GenerateTasks generates task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.aiService.GenerateTaskDrafts(c.Request.Context(), p, req.Text)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDraftDTOs(drafts),
	})
}
