package repository

import (
	"sort"
	"time"

	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func withAssignments(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_assignments.position ASC")
		}).
		Preload("Assignments.User")
}

func sortAssignments(task *models.Task) {
	sort.SliceStable(task.Assignments, func(i, j int) bool {
		return task.Assignments[i].Position < task.Assignments[j].Position
	})
}

func assignmentRows(taskID uint64, userIDs []uint64) []models.TaskAssignment {
	rows := make([]models.TaskAssignment, len(userIDs))
	for i, userID := range userIDs {
		rows[i] = models.TaskAssignment{
			TaskID:   taskID,
			UserID:   userID,
			Position: i,
		}
	}
	return rows
}

// Create creates a new task and its assignments
func (r *GormTaskRepository) Create(task *models.Task, assigneeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		if len(assigneeIDs) == 0 {
			return nil
		}
		return tx.Create(assignmentRows(task.ID, assigneeIDs)).Error
	})
}

// FindByID finds a task by ID with ordered assignments
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := withAssignments(r.db).Preload("Creator").First(&task, id).Error; err != nil {
		return nil, err
	}
	sortAssignments(&task)
	return &task, nil
}

func (r *GormTaskRepository) filtered(filter TaskFilter) *gorm.DB {
	query := r.db.Model(&models.Task{})

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssignedUserID != nil {
		assignmentSubQuery := r.db.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id").
			Where("task_assignments.user_id = ?", *filter.AssignedUserID)
		query = query.Where("EXISTS (?)", assignmentSubQuery)
	}

	return query
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := withAssignments(r.filtered(filter)).Order("tasks.created_at DESC, tasks.id DESC")

	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	for i := range tasks {
		sortAssignments(&tasks[i])
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// UpdateWithAssignees updates a task and replaces its assignments
func (r *GormTaskRepository) UpdateWithAssignees(task *models.Task, assigneeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if len(assigneeIDs) == 0 {
			return nil
		}
		return tx.Create(assignmentRows(task.ID, assigneeIDs)).Error
	})
}

// Delete hard deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// Count counts tasks matching the filter
func (r *GormTaskRepository) Count(filter TaskFilter) (int64, error) {
	var total int64
	err := r.filtered(filter).Count(&total).Error
	return total, err
}

// CountByStatus groups matching tasks by status
func (r *GormTaskRepository) CountByStatus(filter TaskFilter) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}
	if err := r.filtered(filter).
		Select("tasks.status AS status, COUNT(*) AS count").
		Group("tasks.status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountByPriority groups matching tasks by priority
func (r *GormTaskRepository) CountByPriority(filter TaskFilter) (map[models.TaskPriority]int64, error) {
	var rows []struct {
		Priority models.TaskPriority
		Count    int64
	}
	if err := r.filtered(filter).
		Select("tasks.priority AS priority, COUNT(*) AS count").
		Group("tasks.priority").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.TaskPriority]int64, len(rows))
	for _, row := range rows {
		counts[row.Priority] = row.Count
	}
	return counts, nil
}

// CountOverdue counts open tasks whose due date has passed
func (r *GormTaskRepository) CountOverdue(filter TaskFilter, now time.Time) (int64, error) {
	var total int64
	err := r.filtered(filter).
		Where("tasks.status <> ?", models.TaskStatusCompleted).
		Where("tasks.due_date IS NOT NULL AND tasks.due_date < ?", now).
		Count(&total).Error
	return total, err
}

// Recent returns the newest tasks first
func (r *GormTaskRepository) Recent(filter TaskFilter, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.filtered(filter).
		Order("tasks.created_at DESC, tasks.id DESC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

// CountByAssigneeAndStatus groups assignments by user and task status
func (r *GormTaskRepository) CountByAssigneeAndStatus() ([]AssigneeStatusCount, error) {
	var rows []AssigneeStatusCount
	err := r.db.Model(&models.TaskAssignment{}).
		Select("task_assignments.user_id AS user_id, tasks.status AS status, COUNT(*) AS count").
		Joins("JOIN tasks ON tasks.id = task_assignments.task_id").
		Group("task_assignments.user_id, tasks.status").
		Scan(&rows).Error
	return rows, err
}
