package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time-tracker-gateway/internal/errors"
)

func TestRequestValidator_WhitespaceIsAValue(t *testing.T) {
	validator := NewRequestValidator()

	tests := []struct {
		name     string
		validate func() error
	}{
		{"user id", func() error { return validator.ValidateUserID(" ") }},
		{"login name", func() error { return validator.ValidateLogin(" ", "pw") }},
		{"login password", func() error { return validator.ValidateLogin("alice", "\t") }},
		{"task title", func() error { return validator.ValidateTaskTitle("  ") }},
		{"task id", func() error { return validator.ValidateTaskID(" ") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, tt.validate())
		})
	}
}

func TestRequestValidator_ValidateUserID(t *testing.T) {
	validator := NewRequestValidator()

	assert.NoError(t, validator.ValidateUserID("0b6a3f1e-7f2d-4b55-9d9f-1c2b3a4d5e6f"))
	// Any non-empty value is accepted as-is.
	assert.NoError(t, validator.ValidateUserID("not-a-uuid"))

	err := validator.ValidateUserID("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Equal(t, "missing x-user-id header", errors.GetUserMessage(err))
}

func TestRequestValidator_ValidateLogin(t *testing.T) {
	validator := NewRequestValidator()

	tests := []struct {
		name     string
		user     string
		password string
		fields   []string
	}{
		{"both present", "alice", "pw", nil},
		{"missing name", "", "pw", []string{"name"}},
		{"missing password", "alice", "", []string{"password"}},
		{"missing both", "", "", []string{"name", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateLogin(tt.user, tt.password)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
			assert.Equal(t, "name and password required", appErr.Message)
			fields, _ := appErr.GetContext("fields")
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestRequestValidator_ValidateTaskTitle(t *testing.T) {
	validator := NewRequestValidator()

	assert.NoError(t, validator.ValidateTaskTitle("Write report"))

	err := validator.ValidateTaskTitle("")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Equal(t, "title required", errors.GetUserMessage(err))
}

func TestRequestValidator_ValidateTaskID(t *testing.T) {
	validator := NewRequestValidator()

	assert.NoError(t, validator.ValidateTaskID("t1"))
	assert.True(t, errors.IsErrorType(validator.ValidateTaskID(""), errors.ErrorTypeValidation))
}
