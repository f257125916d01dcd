package services

import (
	"context"

	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/errors"
	"time-tracker-gateway/internal/repository/hasura"
	"time-tracker-gateway/internal/validation"
)

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	repo      hasura.Repository
	validator *validation.RequestValidator
}

// NewAuthService creates a new AuthService instance
func NewAuthService(repo hasura.Repository) AuthService {
	return &authServiceImpl{
		repo:      repo,
		validator: validation.NewRequestValidator(),
	}
}

// Login looks up the profile with exactly this name and password.
func (a *authServiceImpl) Login(ctx context.Context, name, password string) (*domain.Profile, error) {
	if err := a.validator.ValidateLogin(name, password); err != nil {
		return nil, err
	}

	profile, err := a.repo.FindProfile(ctx, name, password)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.NewAuthError("invalid credentials")
	}
	return profile, nil
}
