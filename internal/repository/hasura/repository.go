// Package hasura reads and writes tasks, profiles and time logs through the
// hosted GraphQL gateway.
package hasura

import (
	"context"
	"time"

	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/gateway"
)

// Repository defines the operations the services need from the backend
type Repository interface {
	// Read operations
	FindProfile(ctx context.Context, name, password string) (*domain.Profile, error)
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)

	// Task mutations
	CreateTask(ctx context.Context, task domain.NewTask) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) (*domain.TaskRef, error)

	// Time log mutations
	InsertTimeLog(ctx context.Context, taskID, userID string, start time.Time) (*domain.TimeLog, error)
	CloseOpenTimeLogs(ctx context.Context, taskID, userID string, end time.Time) (*domain.MutationResult, error)
}

// Executor runs a document and decodes its data member.
type Executor interface {
	Execute(ctx context.Context, req gateway.Request, cred domain.Credential, out any) error
}

// CredentialSource supplies the server credential.
type CredentialSource interface {
	ForServer() domain.Credential
}

// GatewayRepository implements Repository over the GraphQL gateway
type GatewayRepository struct {
	exec  Executor
	creds CredentialSource
}

// New creates a repository that authenticates every call with creds.ForServer().
func New(exec Executor, creds CredentialSource) *GatewayRepository {
	return &GatewayRepository{exec: exec, creds: creds}
}

func (r *GatewayRepository) execute(ctx context.Context, document string, variables any, out any) error {
	return r.exec.Execute(ctx, gateway.Request{Query: document, Variables: variables}, r.creds.ForServer(), out)
}

// FindProfile returns the matching profile, or nil when none matched.
func (r *GatewayRepository) FindProfile(ctx context.Context, name, password string) (*domain.Profile, error) {
	var out struct {
		Profiles []domain.Profile `json:"profiles"`
	}
	err := r.execute(ctx, getProfileDocument, GetProfileVariables{Name: name, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Profiles) == 0 {
		return nil, nil
	}
	return &out.Profiles[0], nil
}

// ListTasks returns the user's tasks, newest first, each with its time logs.
func (r *GatewayRepository) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	var out struct {
		Tasks []domain.Task `json:"tasks"`
	}
	if err := r.execute(ctx, getTasksDocument, GetTasksVariables{UserID: userID}, &out); err != nil {
		return nil, err
	}
	if out.Tasks == nil {
		out.Tasks = []domain.Task{}
	}
	return out.Tasks, nil
}

// CreateTask inserts a task
func (r *GatewayRepository) CreateTask(ctx context.Context, task domain.NewTask) (*domain.Task, error) {
	var out struct {
		Task *domain.Task `json:"insert_tasks_one"`
	}
	vars := CreateTaskVariables{UserID: task.UserID, Title: task.Title, Description: task.Description}
	if err := r.execute(ctx, createTaskDocument, vars, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

// UpdateTask applies patch to the task with the given id. A nil task means no
// row had that id.
func (r *GatewayRepository) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var out struct {
		Task *domain.Task `json:"update_tasks_by_pk"`
	}
	vars := UpdateTaskVariables{ID: id, Set: TaskSetInput{Patch: patch}}
	if err := r.execute(ctx, updateTaskDocument, vars, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

// DeleteTask removes a task. A nil ref means no row had that id.
func (r *GatewayRepository) DeleteTask(ctx context.Context, id string) (*domain.TaskRef, error) {
	var out struct {
		Deleted *domain.TaskRef `json:"delete_tasks_by_pk"`
	}
	if err := r.execute(ctx, deleteTaskDocument, DeleteTaskVariables{ID: id}, &out); err != nil {
		return nil, err
	}
	return out.Deleted, nil
}

// InsertTimeLog opens a log. It does not look for an already open one.
func (r *GatewayRepository) InsertTimeLog(ctx context.Context, taskID, userID string, start time.Time) (*domain.TimeLog, error) {
	var out struct {
		TimeLog *domain.TimeLog `json:"insert_time_logs_one"`
	}
	vars := StartTimeLogVariables{TaskID: taskID, UserID: userID, StartTime: domain.FormatTimestamp(start)}
	if err := r.execute(ctx, startTimeLogDocument, vars, &out); err != nil {
		return nil, err
	}
	return out.TimeLog, nil
}

// CloseOpenTimeLogs sets end on every open log for (taskID, userID).
func (r *GatewayRepository) CloseOpenTimeLogs(ctx context.Context, taskID, userID string, end time.Time) (*domain.MutationResult, error) {
	var out struct {
		Result *domain.MutationResult `json:"update_time_logs"`
	}
	vars := StopTimeLogVariables{TaskID: taskID, UserID: userID, EndTime: domain.FormatTimestamp(end)}
	if err := r.execute(ctx, stopTimeLogDocument, vars, &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}
