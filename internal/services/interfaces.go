package services

import (
	"context"
	"time"

	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/repository/hasura"
)

// Clock returns the current time. Services stamp time logs with it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// AuthService resolves profiles from credentials
type AuthService interface {
	Login(ctx context.Context, name, password string) (*domain.Profile, error)
}

// TaskService handles task CRUD on behalf of a user
type TaskService interface {
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	CreateTask(ctx context.Context, userID, title string, description *string) (*domain.Task, error)
	UpdateTask(ctx context.Context, userID, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, id string) (*domain.TaskRef, error)
}

// TimeService opens and closes time logs
type TimeService interface {
	StartTimer(ctx context.Context, userID, taskID string) (*domain.TimeLog, error)
	StopTimer(ctx context.Context, userID, taskID string) (*domain.MutationResult, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Auth  AuthService
	Tasks TaskService
	Time  TimeService
}

// NewServiceContainer builds every service over one repository. A nil clock
// means SystemClock.
func NewServiceContainer(repo hasura.Repository, clock Clock) *ServiceContainer {
	if clock == nil {
		clock = SystemClock
	}
	return &ServiceContainer{
		Auth:  NewAuthService(repo),
		Tasks: NewTaskService(repo),
		Time:  NewTimeService(repo, clock),
	}
}
