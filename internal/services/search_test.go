package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"time-tracker-gateway/internal/domain"
)

func TestFilterTasks(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	notes := "Quarterly NUMBERS"
	tasks := []domain.Task{
		{ID: "t1", Title: "Write report", Description: &notes},
		{ID: "t2", Title: "Design review", TimeLogs: []domain.TimeLog{{StartTime: now}}},
		{ID: "t3", Title: "Report bug", TimeLogs: []domain.TimeLog{{StartTime: now, EndTime: &now}}},
	}

	tests := []struct {
		name     string
		filter   TaskFilter
		expected []string
	}{
		{"zero filter keeps everything", TaskFilter{}, []string{"t1", "t2", "t3"}},
		{"whitespace text keeps everything", TaskFilter{Text: "  "}, []string{"t1", "t2", "t3"}},
		{"title match is case-insensitive", TaskFilter{Text: "REPORT"}, []string{"t1", "t3"}},
		{"description match", TaskFilter{Text: "numbers"}, []string{"t1"}},
		{"running only", TaskFilter{RunningOnly: true}, []string{"t2"}},
		{"running and text", TaskFilter{Text: "report", RunningOnly: true}, []string{}},
		{"no match", TaskFilter{Text: "meeting"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []string{}
			for _, task := range FilterTasks(tasks, tt.filter) {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}
