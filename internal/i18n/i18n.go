// Package i18n holds the localized labels used in exported reports.
package i18n

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{language.English, language.Turkish}

var matcher = language.NewMatcher(supported)

var dateLayouts = map[language.Tag]string{
	language.English: "1/2/2006",
	language.Turkish: "02.01.2006",
}

var messages = map[language.Tag]map[string]string{
	language.English: {
		"status.Pending":     "Pending",
		"status.In Progress": "In Progress",
		"status.Completed":   "Completed",
		"priority.Low":       "Low",
		"priority.Medium":    "Medium",
		"priority.High":      "High",
		"task.unassigned":    "Unassigned",

		"report.tasks.sheet":       "Tasks Report",
		"report.tasks.id":          "Task ID",
		"report.tasks.title":       "Title",
		"report.tasks.description": "Description",
		"report.tasks.priority":    "Priority",
		"report.tasks.status":      "Status",
		"report.tasks.due_date":    "Due Date",
		"report.tasks.assigned_to": "Assigned To",

		"report.users.sheet":       "User Task Report",
		"report.users.name":        "User Name",
		"report.users.email":       "Email",
		"report.users.total":       "Total Tasks",
		"report.users.pending":     "Pending Tasks",
		"report.users.in_progress": "In Progress Tasks",
		"report.users.completed":   "Completed Tasks",
	},
	language.Turkish: {
		"status.Pending":     "Beklemede",
		"status.In Progress": "Devam Ediyor",
		"status.Completed":   "Tamamlandı",
		"priority.Low":       "Düşük",
		"priority.Medium":    "Orta",
		"priority.High":      "Yüksek",
		"task.unassigned":    "Atanmamış",

		"report.tasks.sheet":       "Görev Raporu",
		"report.tasks.id":          "Görev ID",
		"report.tasks.title":       "Başlık",
		"report.tasks.description": "Açıklama",
		"report.tasks.priority":    "Öncelik",
		"report.tasks.status":      "Durum",
		"report.tasks.due_date":    "Teslim Tarihi",
		"report.tasks.assigned_to": "Atanan Kişi(ler)",

		"report.users.sheet":       "Kullanıcı Görev Raporu",
		"report.users.name":        "Kullanıcı Adı",
		"report.users.email":       "E-posta",
		"report.users.total":       "Toplam Görev",
		"report.users.pending":     "Bekleyen Görevler",
		"report.users.in_progress": "Devam Eden Görevler",
		"report.users.completed":   "Tamamlanan Görevler",
	},
}

func init() {
	for tag, msgs := range messages {
		for key, value := range msgs {
			_ = message.SetString(tag, key, value)
		}
	}
}

// ResolveTag picks the best supported tag for lang, falling back to fallback
// and finally to English.
func ResolveTag(lang, fallback string) language.Tag {
	for _, candidate := range []string{lang, fallback} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		parsed, err := language.Parse(candidate)
		if err != nil {
			continue
		}
		_, idx, confidence := matcher.Match(parsed)
		if confidence != language.No {
			return supported[idx]
		}
	}
	return language.English
}

// Localizer translates report labels for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

func NewLocalizer(tag language.Tag) *Localizer {
	return &Localizer{tag: tag, printer: message.NewPrinter(tag)}
}

func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// T returns the translation for key, or key when none is registered.
func (l *Localizer) T(key string) string {
	return l.printer.Sprintf(key)
}

// Status localizes a task status, passing unknown values through.
func (l *Localizer) Status(status string) string {
	return l.lookup("status."+status, status)
}

// Priority localizes a task priority, passing unknown values through.
func (l *Localizer) Priority(priority string) string {
	return l.lookup("priority."+priority, priority)
}

// Date formats t as a locale date, or "" when t is nil.
func (l *Localizer) Date(t *time.Time) string {
	if t == nil {
		return ""
	}
	layout, ok := dateLayouts[l.tag]
	if !ok {
		layout = dateLayouts[language.English]
	}
	return t.Format(layout)
}

func (l *Localizer) lookup(key, fallback string) string {
	if _, ok := messages[l.tag][key]; !ok {
		return fallback
	}
	return l.T(key)
}
