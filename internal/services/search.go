package services

import (
	"strings"

	"time-tracker-gateway/internal/domain"
)

// TaskFilter narrows a task listing on the client side. Text matches the
// title or description, case-insensitively.
type TaskFilter struct {
	Text        string
	RunningOnly bool
}

// IsZero reports whether the filter keeps every task.
func (f TaskFilter) IsZero() bool {
	return strings.TrimSpace(f.Text) == "" && !f.RunningOnly
}

// FilterTasks returns the tasks matching filter, preserving order.
func FilterTasks(tasks []domain.Task, filter TaskFilter) []domain.Task {
	if filter.IsZero() {
		return tasks
	}

	matched := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if filter.RunningOnly && !task.IsRunning() {
			continue
		}
		if !matchesTextFilter(task, filter.Text) {
			continue
		}
		matched = append(matched, task)
	}
	return matched
}

// matchesTextFilter checks the title and description against text
func matchesTextFilter(task domain.Task, text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return true
	}
	if strings.Contains(strings.ToLower(task.Title), text) {
		return true
	}
	return task.Description != nil && strings.Contains(strings.ToLower(*task.Description), text)
}
