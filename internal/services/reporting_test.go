package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time-tracker-gateway/internal/domain"
)

func TestSummarizeTasks(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	end := now.Add(-2 * time.Hour)

	tests := []struct {
		name     string
		tasks    []domain.Task
		expected TaskSummary
	}{
		{
			name:     "empty listing",
			tasks:    nil,
			expected: TaskSummary{},
		},
		{
			name: "closed and open logs",
			tasks: []domain.Task{
				{ID: "t1", TimeLogs: []domain.TimeLog{
					{StartTime: now.Add(-30 * time.Minute)},
					{StartTime: now.Add(-3 * time.Hour), EndTime: &end},
				}},
				{ID: "t2"},
			},
			expected: TaskSummary{
				TaskCount:     2,
				RunningCount:  1,
				SessionCount:  2,
				OpenLogCount:  1,
				TotalDuration: 90 * time.Minute,
			},
		},
		{
			name: "task started twice counts both open logs",
			tasks: []domain.Task{
				{ID: "t1", TimeLogs: []domain.TimeLog{
					{StartTime: now.Add(-10 * time.Minute)},
					{StartTime: now.Add(-20 * time.Minute)},
				}},
			},
			expected: TaskSummary{
				TaskCount:     1,
				RunningCount:  1,
				SessionCount:  2,
				OpenLogCount:  2,
				TotalDuration: 30 * time.Minute,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := SummarizeTasks(tt.tasks, now)
			lastWorked := summary.LastWorked
			summary.LastWorked = nil
			assert.Equal(t, tt.expected, summary)
			if len(tt.tasks) == 0 {
				assert.Nil(t, lastWorked)
			}
		})
	}
}

func TestSummarizeTasks_LastWorked(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	latest := now.Add(-5 * time.Minute)

	summary := SummarizeTasks([]domain.Task{
		{ID: "t1", TimeLogs: []domain.TimeLog{{StartTime: now.Add(-time.Hour)}}},
		{ID: "t2", TimeLogs: []domain.TimeLog{{StartTime: latest}}},
	}, now)

	require.NotNil(t, summary.LastWorked)
	assert.True(t, summary.LastWorked.Equal(latest))
}
