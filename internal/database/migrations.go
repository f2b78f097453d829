package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the indexes used by list filters and dashboard aggregations.
func AddIndexes(db *gorm.DB, log *slog.Logger) error {
	indexes := []struct {
		model   any
		name    string
		columns string
	}{
		{&models.Task{}, "idx_tasks_status", "status"},
		{&models.Task{}, "idx_tasks_priority", "priority"},
		{&models.Task{}, "idx_tasks_due_date", "due_date"},
		{&models.Task{}, "idx_tasks_created_at", "created_at"},
		{&models.Task{}, "idx_tasks_creator_id", "creator_id"},
		{&models.TaskAssignment{}, "idx_task_assignments_user_id", "user_id"},
		{&models.User{}, "idx_users_role", "role"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", "index", idx.name, "table", stmt.Schema.Table, "columns", idx.columns)
	}

	return nil
}
