package hasura

import (
	"encoding/json"

	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/validation"
)

// GetProfileVariables binds GetProfile.
type GetProfileVariables struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate checks required fields
func (v GetProfileVariables) Validate() error {
	ve := validation.NewValidationError()
	requireField(ve, "name", v.Name)
	requireField(ve, "password", v.Password)
	return finish(ve)
}

// GetTasksVariables binds GetTasks.
type GetTasksVariables struct {
	UserID string `json:"user_id"`
}

// Validate checks required fields
func (v GetTasksVariables) Validate() error {
	ve := validation.NewValidationError()
	requireField(ve, "user_id", v.UserID)
	return finish(ve)
}

// CreateTaskVariables binds CreateTask. A nil description is sent as absent,
// which the backend stores as null.
type CreateTaskVariables struct {
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// Validate checks required fields
func (v CreateTaskVariables) Validate() error {
	ve := validation.NewValidationError()
	requireField(ve, "user_id", v.UserID)
	requireField(ve, "title", v.Title)
	return finish(ve)
}

// TaskSetInput is the _set argument of UpdateTask. Only fields present in the
// patch are serialized.
type TaskSetInput struct {
	Patch domain.TaskPatch
}

// MarshalJSON emits the supplied fields, keeping explicit nulls.
func (s TaskSetInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Patch.Fields())
}

// UpdateTaskVariables binds UpdateTask.
type UpdateTaskVariables struct {
	ID  string       `json:"id"`
	Set TaskSetInput `json:"set"`
}

// Validate checks required fields
func (v UpdateTaskVariables) Validate() error {
	ve := validation.NewValidationError()
	requireField(ve, "id", v.ID)
	return finish(ve)
}

// DeleteTaskVariables binds DeleteTask.
type DeleteTaskVariables struct {
	ID string `json:"id"`
}

// Validate checks required fields
func (v DeleteTaskVariables) Validate() error {
	ve := validation.NewValidationError()
	requireField(ve, "id", v.ID)
	return finish(ve)
}

// StartTimeLogVariables binds StartTimeLog.
type StartTimeLogVariables struct {
	TaskID    string `json:"task_id"`
	UserID    string `json:"user_id"`
	StartTime string `json:"start_time"`
}

// Validate checks required fields
func (v StartTimeLogVariables) Validate() error {
	ve := validation.NewValidationError()
	requireField(ve, "task_id", v.TaskID)
	requireField(ve, "user_id", v.UserID)
	requireField(ve, "start_time", v.StartTime)
	return finish(ve)
}

// StopTimeLogVariables binds StopTimeLog.
type StopTimeLogVariables struct {
	TaskID  string `json:"task_id"`
	UserID  string `json:"user_id"`
	EndTime string `json:"end_time"`
}

// Validate checks required fields
func (v StopTimeLogVariables) Validate() error {
	ve := validation.NewValidationError()
	requireField(ve, "task_id", v.TaskID)
	requireField(ve, "user_id", v.UserID)
	requireField(ve, "end_time", v.EndTime)
	return finish(ve)
}

func requireField(ve *validation.ValidationError, field, value string) {
	if value == "" {
		ve.AddRequiredError(field)
	}
}

func finish(ve *validation.ValidationError) error {
	if ve.HasErrors() {
		return ve.AsAppError()
	}
	return nil
}
