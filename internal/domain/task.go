package domain

import (
	"time"
)

// Task is a unit of work owned by a profile, as stored by the backend.
// CreatedAt, UpdatedAt and TimeLogs are only populated by listings; mutations
// return the short projection.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	TimeLogs    []TimeLog  `json:"time_logs,omitempty"`
}

// NewTask carries the fields accepted when creating a task.
type NewTask struct {
	UserID      string
	Title       string
	Description *string
}

// TaskRef identifies a deleted task.
type TaskRef struct {
	ID string `json:"id"`
}

// OpenTimeLogs returns the logs that have not been stopped yet. More than one
// entry means the task was started repeatedly without a stop in between.
func (t Task) OpenTimeLogs() []TimeLog {
	var open []TimeLog
	for _, log := range t.TimeLogs {
		if log.IsOpen() {
			open = append(open, log)
		}
	}
	return open
}

// IsRunning reports whether any time log on the task is open.
func (t Task) IsRunning() bool {
	return len(t.OpenTimeLogs()) > 0
}

// TotalDuration sums every log, measuring open logs up to now.
func (t Task) TotalDuration(now time.Time) time.Duration {
	var total time.Duration
	for _, log := range t.TimeLogs {
		total += log.Elapsed(now)
	}
	return total
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}
