package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeLog_Elapsed(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	now := start.Add(45 * time.Minute)

	tests := []struct {
		name     string
		log      TimeLog
		expected time.Duration
	}{
		{
			name:     "open log measured up to now",
			log:      TimeLog{StartTime: start},
			expected: 45 * time.Minute,
		},
		{
			name:     "closed log uses end time",
			log:      TimeLog{StartTime: start, EndTime: ptrTime(start.Add(20 * time.Minute))},
			expected: 20 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.log.Elapsed(now))
		})
	}
}

func TestTimeLog_JSONKeepsNullEndTime(t *testing.T) {
	log := TimeLog{
		ID:        "l1",
		StartTime: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(log)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"l1","start_time":"2024-05-01T09:00:00Z","end_time":null}`, string(data))
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("BST", 3600)
	ts := time.Date(2024, 5, 1, 10, 30, 15, 123456789, loc)

	assert.Equal(t, "2024-05-01T09:30:15.123Z", FormatTimestamp(ts))
	assert.Equal(t, "2024-05-01T09:00:00.000Z", FormatTimestamp(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{-time.Minute, "0h 0m"},
		{0, "0m"},
		{45 * time.Minute, "45m"},
		{90 * time.Minute, "1h 30m"},
		{26 * time.Hour, "26h 0m"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.duration))
		})
	}
}
