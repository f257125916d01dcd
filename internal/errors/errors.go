package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Context keys carried by transport errors.
const (
	ContextStatus        = "status"
	ContextBody          = "body"
	ContextGraphQLErrors = "graphql_errors"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewAuthError creates an authentication failure, e.g. no profile matched the
// supplied name and password.
func NewAuthError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeAuth,
		Message: message,
		Code:    "UNAUTHORIZED",
		Context: make(map[string]interface{}),
	}
}

// NewConfigurationError reports a missing or unusable setting.
func NewConfigurationError(setting string, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Message: message,
		Code:    "CONFIGURATION_ERROR",
		Context: map[string]interface{}{
			"setting": setting,
		},
	}
}

// NewTransportError describes a failed round trip to a remote endpoint. Status
// is zero when no response was received.
func NewTransportError(status int, message string, body []byte, cause error) *AppError {
	ctx := map[string]interface{}{
		ContextStatus: status,
	}
	if len(body) > 0 {
		ctx[ContextBody] = string(body)
	}
	return &AppError{
		Type:    ErrorTypeTransport,
		Message: message,
		Code:    "TRANSPORT_ERROR",
		Cause:   cause,
		Context: ctx,
	}
}

// NewEnvironmentError reports that the runtime lacks something required to
// perform the operation, such as an HTTP client.
func NewEnvironmentError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeEnvironment,
		Message: message,
		Code:    "ENVIRONMENT_ERROR",
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// TransportStatus returns the upstream HTTP status recorded on a transport
// error, or zero.
func TransportStatus(err error) int {
	appErr, ok := AsAppError(err)
	if !ok || appErr.Type != ErrorTypeTransport {
		return 0
	}
	if v, ok := appErr.GetContext(ContextStatus); ok {
		if status, ok := v.(int); ok {
			return status
		}
	}
	return 0
}

// HTTPStatus maps an error onto the status code the HTTP layer responds with.
// Caller mistakes are 4xx; every backend, configuration or environment failure
// is a 500.
func HTTPStatus(err error) int {
	appErr, ok := AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeAuth, ErrorTypeNotFound, ErrorTypeConfiguration:
			return appErr.Message
		case ErrorTypeTransport:
			return "The backend request failed: " + appErr.Message
		case ErrorTypeEnvironment:
			return "The runtime environment is missing a required component: " + appErr.Message
		case ErrorTypeDatabase:
			return "A local storage error occurred. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeAuth, ErrorTypeNotFound:
			return false // caller mistakes
		default:
			return true
		}
	}
	return true
}
