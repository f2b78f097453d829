package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/team-task-api/internal/i18n"
	"github.com/yukikurage/team-task-api/internal/report"
	"github.com/yukikurage/team-task-api/internal/services"
)

// ReportHandler serves spreadsheet exports.
type ReportHandler struct {
	reportService *services.ReportService
	defaultLocale string
	log           *slog.Logger
}

func NewReportHandler(reportService *services.ReportService, defaultLocale string, log *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		defaultLocale: defaultLocale,
		log:           log,
	}
}

func (h *ReportHandler) localizer(c *gin.Context) *i18n.Localizer {
	return i18n.NewLocalizer(i18n.ResolveTag(c.Query("lang"), h.defaultLocale))
}

// ExportTasks streams one spreadsheet row per task
func (h *ReportHandler) ExportTasks(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	rows, err := h.reportService.TaskRows(p)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	workbook, err := report.TasksWorkbook(h.localizer(c), rows)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.send(c, workbook, report.TasksFilename)
}

// ExportUsers streams one spreadsheet row per member with task counts
func (h *ReportHandler) ExportUsers(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	rows, err := h.reportService.UserRows(p)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	workbook, err := report.UsersWorkbook(h.localizer(c), rows)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.send(c, workbook, report.UsersFilename)
}

func (h *ReportHandler) send(c *gin.Context, workbook *excelize.File, filename string) {
	defer workbook.Close()

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}
