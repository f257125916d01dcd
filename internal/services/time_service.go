package services

import (
	"context"

	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/repository/hasura"
	"time-tracker-gateway/internal/validation"
)

// timeServiceImpl implements the TimeService interface
type timeServiceImpl struct {
	repo      hasura.Repository
	clock     Clock
	validator *validation.RequestValidator
}

// NewTimeService creates a new TimeService instance
func NewTimeService(repo hasura.Repository, clock Clock) TimeService {
	if clock == nil {
		clock = SystemClock
	}
	return &timeServiceImpl{
		repo:      repo,
		clock:     clock,
		validator: validation.NewRequestValidator(),
	}
}

func (s *timeServiceImpl) validate(userID, taskID string) error {
	if err := s.validator.ValidateUserID(userID); err != nil {
		return err
	}
	return s.validator.ValidateTaskID(taskID)
}

// StartTimer opens a log at the current time. An already running log for the
// same pair is left as it is, so two starts leave two open logs.
func (s *timeServiceImpl) StartTimer(ctx context.Context, userID, taskID string) (*domain.TimeLog, error) {
	if err := s.validate(userID, taskID); err != nil {
		return nil, err
	}
	return s.repo.InsertTimeLog(ctx, taskID, userID, s.clock())
}

// StopTimer closes every open log for the pair and reports how many it closed.
func (s *timeServiceImpl) StopTimer(ctx context.Context, userID, taskID string) (*domain.MutationResult, error) {
	if err := s.validate(userID, taskID); err != nil {
		return nil, err
	}
	return s.repo.CloseOpenTimeLogs(ctx, taskID, userID, s.clock())
}
