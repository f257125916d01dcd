package cli

import (
	"errors"
	"net/http"
	"testing"

	apperrors "time-tracker-gateway/internal/errors"
	"time-tracker-gateway/internal/validation"
)

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "Validation error",
			operation: "add task",
			err:       apperrors.NewValidationError("title required", nil),
			expected:  "failed to add task: title required",
		},
		{
			name:      "Not found error",
			operation: "update task",
			err:       apperrors.NewNotFoundError("task", "t1"),
			expected:  "failed to update task: task not found: t1",
		},
		{
			name:      "Transport error",
			operation: "list tasks",
			err:       apperrors.NewTransportError(http.StatusInternalServerError, "GraphQL request failed", nil, nil),
			expected:  "failed to list tasks: The backend request failed: GraphQL request failed",
		},
		{
			name:      "Database error",
			operation: "log in",
			err:       apperrors.NewDatabaseError("set", errors.New("disk full")),
			expected:  "failed to log in: A local storage error occurred. Please try again.",
		},
		{
			name:      "Regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eh.Handle(tt.operation, tt.err)
			if result.Error() != tt.expected {
				t.Errorf("ErrorHandler.Handle() = %v, want %v", result.Error(), tt.expected)
			}
		})
	}
}

func TestErrorHandler_HandleFieldValidation(t *testing.T) {
	eh := NewErrorHandler()

	ve := validation.NewValidationError()
	ve.AddRequiredError("name")
	ve.AddRequiredError("password")

	result := eh.Handle("log in", ve.AsAppError())

	expected := "failed to log in: name is required; password is required"
	if result.Error() != expected {
		t.Errorf("ErrorHandler.Handle() = %v, want %v", result.Error(), expected)
	}
}

func TestErrorHandler_HandleWrapsPlainErrors(t *testing.T) {
	eh := NewErrorHandler()
	cause := errors.New("connection refused")

	result := eh.Handle("list tasks", cause)

	if !errors.Is(result, cause) {
		t.Errorf("ErrorHandler.Handle() did not wrap %v", cause)
	}
}

func TestErrorHandler_IsAuthError(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Auth", apperrors.NewAuthError("not logged in"), true},
		{"Validation", apperrors.NewValidationError("bad", nil), false},
		{"Not found", apperrors.NewNotFoundError("task", "t1"), false},
		{"Regular error", errors.New("regular error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eh.IsAuthError(tt.err); got != tt.expected {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.expected)
			}
		})
	}
}
