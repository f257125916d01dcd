package validation

// UserIDHeader is the request header that names the acting profile.
const UserIDHeader = "x-user-id"

// RequestValidator checks inbound request fields before anything reaches the
// gateway.
type RequestValidator struct{}

// NewRequestValidator creates a new request validator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

// ValidateUserID requires the acting user id. Its value is taken on trust.
// Like every check here, only the empty string is rejected; whitespace counts
// as a value.
func (v *RequestValidator) ValidateUserID(userID string) error {
	if userID == "" {
		ve := NewValidationError()
		ve.AddError(UserIDHeader, ErrorTypeEmpty, "missing x-user-id header", userID)
		return ve.AsAppError()
	}
	return nil
}

// ValidateLogin requires both credentials.
func (v *RequestValidator) ValidateLogin(name, password string) error {
	ve := NewValidationError()
	if name == "" {
		ve.AddRequiredError("name")
	}
	if password == "" {
		ve.AddRequiredError("password")
	}
	if ve.HasErrors() {
		appErr := ve.AsAppError()
		appErr.Message = "name and password required"
		return appErr
	}
	return nil
}

// ValidateTaskTitle requires a non-empty title.
func (v *RequestValidator) ValidateTaskTitle(title string) error {
	if title == "" {
		ve := NewValidationError()
		ve.AddError("title", ErrorTypeEmpty, "title required", title)
		return ve.AsAppError()
	}
	return nil
}

// ValidateTaskID requires a task id path segment.
func (v *RequestValidator) ValidateTaskID(id string) error {
	if id == "" {
		ve := NewValidationError()
		ve.AddRequiredError("id")
		return ve.AsAppError()
	}
	return nil
}
