package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLog is an interval of work on a task. A nil EndTime means the timer is
// still running.
type TimeLog struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"task_id,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	// Duration is computed by the backend and passed through untouched.
	Duration json.RawMessage `json:"duration,omitempty"`
}

// MutationResult is the payload of a bulk update.
type MutationResult struct {
	AffectedRows int `json:"affected_rows"`
}

// IsOpen returns true if the log has no end time.
func (l TimeLog) IsOpen() bool {
	return l.EndTime == nil
}

// Elapsed returns the length of the log. Open logs are measured up to now.
func (l TimeLog) Elapsed(now time.Time) time.Duration {
	if l.EndTime == nil {
		return now.Sub(l.StartTime)
	}
	return l.EndTime.Sub(l.StartTime)
}

// timestampLayout matches the millisecond ISO-8601 form used by the backend
// clients, e.g. 2024-05-01T09:30:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// FormatDuration renders a duration as "1h 5m" or "5m".
func FormatDuration(duration time.Duration) string {
	if duration < 0 {
		return "0h 0m"
	}

	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
