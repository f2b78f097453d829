// Package report renders task and user summaries as XLSX workbooks.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/team-task-api/internal/i18n"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	TasksFilename = "tasks_report.xlsx"
	UsersFilename = "user_task_report.xlsx"
)

// TaskRow is one exported task. Assignees holds "name (email)" entries.
type TaskRow struct {
	ID          uint64
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     *time.Time
	Assignees   []string
}

// UserRow is one exported user with task counts by status.
type UserRow struct {
	Name       string
	Email      string
	TaskCount  int64
	Pending    int64
	InProgress int64
	Completed  int64
}

type column struct {
	header string
	width  float64
}

// TasksWorkbook renders one row per task with localized labels.
func TasksWorkbook(l *i18n.Localizer, rows []TaskRow) (*excelize.File, error) {
	columns := []column{
		{l.T("report.tasks.id"), 25},
		{l.T("report.tasks.title"), 30},
		{l.T("report.tasks.description"), 50},
		{l.T("report.tasks.priority"), 15},
		{l.T("report.tasks.status"), 20},
		{l.T("report.tasks.due_date"), 20},
		{l.T("report.tasks.assigned_to"), 30},
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		assigned := strings.Join(row.Assignees, ", ")
		if assigned == "" {
			assigned = l.T("task.unassigned")
		}
		values[i] = []any{
			fmt.Sprint(row.ID),
			row.Title,
			row.Description,
			l.Priority(row.Priority),
			l.Status(row.Status),
			l.Date(row.DueDate),
			assigned,
		}
	}

	return build(l.T("report.tasks.sheet"), columns, values)
}

// UsersWorkbook renders one row per user with task counts.
func UsersWorkbook(l *i18n.Localizer, rows []UserRow) (*excelize.File, error) {
	columns := []column{
		{l.T("report.users.name"), 30},
		{l.T("report.users.email"), 40},
		{l.T("report.users.total"), 20},
		{l.T("report.users.pending"), 20},
		{l.T("report.users.in_progress"), 20},
		{l.T("report.users.completed"), 20},
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = []any{row.Name, row.Email, row.TaskCount, row.Pending, row.InProgress, row.Completed}
	}

	return build(l.T("report.users.sheet"), columns, values)
}

func build(sheet string, columns []column, rows [][]any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			f.Close()
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}
