package services

import (
	"context"

	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/repository/hasura"
	"time-tracker-gateway/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo      hasura.Repository
	validator *validation.RequestValidator
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo hasura.Repository) TaskService {
	return &taskServiceImpl{
		repo:      repo,
		validator: validation.NewRequestValidator(),
	}
}

// ListTasks returns the user's tasks, newest first
func (t *taskServiceImpl) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	if err := t.validator.ValidateUserID(userID); err != nil {
		return nil, err
	}
	return t.repo.ListTasks(ctx, userID)
}

// CreateTask inserts a task owned by userID
func (t *taskServiceImpl) CreateTask(ctx context.Context, userID, title string, description *string) (*domain.Task, error) {
	if err := t.validator.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := t.validator.ValidateTaskTitle(title); err != nil {
		return nil, err
	}

	return t.repo.CreateTask(ctx, domain.NewTask{
		UserID:      userID,
		Title:       title,
		Description: description,
	})
}

// UpdateTask forwards the supplied fields only. An empty patch still makes
// the round trip and returns the task unchanged. The task is addressed by id
// alone; userID is required but not matched against the owner.
func (t *taskServiceImpl) UpdateTask(ctx context.Context, userID, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := t.validator.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := t.validator.ValidateTaskID(id); err != nil {
		return nil, err
	}
	return t.repo.UpdateTask(ctx, id, patch)
}

// DeleteTask removes a task by id. Ownership is not checked.
func (t *taskServiceImpl) DeleteTask(ctx context.Context, userID, id string) (*domain.TaskRef, error) {
	if err := t.validator.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := t.validator.ValidateTaskID(id); err != nil {
		return nil, err
	}
	return t.repo.DeleteTask(ctx, id)
}
