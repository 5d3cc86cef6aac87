package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"duke/internal/model"
)

// ReminderService builds human-readable summaries of dated tasks that need attention.
type ReminderService struct {
	list    *TaskList
	horizon int
}

// NewReminderService reports deadlines and events that are overdue or due within horizonDays.
func NewReminderService(list *TaskList, horizonDays int) *ReminderService {
	if horizonDays < 0 {
		horizonDays = 0
	}
	return &ReminderService{list: list, horizon: horizonDays}
}

// Upcoming returns the undone dated tasks that are overdue or due within the horizon, soonest first.
func (s *ReminderService) Upcoming(now time.Time) []model.Entry {
	today := startOfDay(now)
	limit := today.AddDate(0, 0, s.horizon)

	var due []model.Entry
	for _, entry := range s.list.List() {
		task := entry.Task
		if task.IsDone() || task.Type() == model.TypeTodo {
			continue
		}
		if task.Date().After(limit) {
			continue
		}
		due = append(due, entry)
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Task.Date().Before(due[j].Task.Date())
	})
	return due
}

func (s *ReminderService) DailySummary(now time.Time) string {
	due := s.Upcoming(now)
	today := startOfDay(now)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Reminders for %s\n", model.FormatDate(today)))
	if len(due) == 0 {
		builder.WriteString("Nothing due in the next ")
		builder.WriteString(pluralDays(s.horizon))
		builder.WriteString(".")
		return builder.String()
	}

	for _, entry := range due {
		builder.WriteString(formatReminder(entry, today))
	}
	return strings.TrimSpace(builder.String())
}

func formatReminder(entry model.Entry, today time.Time) string {
	date := entry.Task.Date()
	days := int(date.Sub(today).Hours() / 24)

	var when string
	switch {
	case days < 0:
		when = fmt.Sprintf("overdue by %s", pluralDays(-days))
	case days == 0:
		when = "today"
	case days == 1:
		when = "tomorrow"
	default:
		when = fmt.Sprintf("in %s", pluralDays(days))
	}
	return fmt.Sprintf("%d.%s - %s\n", entry.Number, entry.Task, when)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
