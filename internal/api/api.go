// Package api is the client runtime used by the CLI. It talks to the tt
// server over HTTP and keeps the local session in step with it.
package api

import (
	"context"

	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/gateway"
	"time-tracker-gateway/internal/session"
)

// API defines every operation the CLI can perform.
type API interface {
	// Session operations
	Login(ctx context.Context, name, password string) (*domain.Profile, error)
	Logout(ctx context.Context) error
	CurrentProfile() *domain.Profile
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	TokenClaims() (*session.Claims, error)

	// Task operations
	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) (*domain.TaskRef, error)

	// Time log operations
	StartTimer(ctx context.Context, taskID string) (*domain.TimeLog, error)
	StopTimer(ctx context.Context, taskID string) (*domain.MutationResult, error)

	// Query sends a raw document to the gateway with the session's token.
	Query(ctx context.Context, document string, variables map[string]any) (*gateway.Envelope, error)
}
