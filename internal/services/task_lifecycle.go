package services

import "github.com/yukikurage/team-task-api/internal/models"

// ComputeProgress returns the completed share of items as a whole percentage,
// rounded half up. An empty checklist has no progress.
func ComputeProgress(items []models.TodoItem) int {
	total := len(items)
	if total == 0 {
		return 0
	}

	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}

	return (200*completed + total) / (2 * total)
}

// StatusFromProgress maps a progress percentage to the status it implies.
func StatusFromProgress(progress int) models.TaskStatus {
	switch {
	case progress >= 100:
		return models.TaskStatusCompleted
	case progress > 0:
		return models.TaskStatusInProgress
	default:
		return models.TaskStatusPending
	}
}

// ApplyChecklist replaces the checklist and derives progress and status from it.
func ApplyChecklist(task *models.Task, items []models.TodoItem) {
	if items == nil {
		items = []models.TodoItem{}
	}
	task.TodoChecklist = items
	task.Progress = ComputeProgress(items)
	task.Status = StatusFromProgress(task.Progress)
}

// ApplyStatus sets the status directly. Only Completed writes back into the
// checklist; Pending and In Progress leave checklist and progress as they are.
func ApplyStatus(task *models.Task, status models.TaskStatus) {
	task.Status = status
	if status != models.TaskStatusCompleted {
		return
	}

	items := make([]models.TodoItem, len(task.TodoChecklist))
	for i, item := range task.TodoChecklist {
		item.Completed = true
		items[i] = item
	}
	task.TodoChecklist = items
	task.Progress = 100
}
