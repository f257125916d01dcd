package services

import (
	"time"

	"time-tracker-gateway/internal/domain"
)

// TaskSummary aggregates a task listing. OpenLogCount counts every open log,
// so a task started twice counts twice.
type TaskSummary struct {
	TaskCount     int
	RunningCount  int
	SessionCount  int
	OpenLogCount  int
	TotalDuration time.Duration
	LastWorked    *time.Time
}

// SummarizeTasks totals the time logs of tasks. Open logs are measured up to
// now.
func SummarizeTasks(tasks []domain.Task, now time.Time) TaskSummary {
	summary := TaskSummary{TaskCount: len(tasks)}

	for _, task := range tasks {
		if task.IsRunning() {
			summary.RunningCount++
		}
		summary.TotalDuration += task.TotalDuration(now)

		for _, log := range task.TimeLogs {
			summary.SessionCount++
			if log.IsOpen() {
				summary.OpenLogCount++
			}
			if summary.LastWorked == nil || log.StartTime.After(*summary.LastWorked) {
				start := log.StartTime
				summary.LastWorked = &start
			}
		}
	}
	return summary
}
