package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetProfile loads the user and, when one exists, its employee record.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: FromDataModel(u)}

	emp, err := s.repo.GetEmployeeByUserID(ctx, userID)
	switch {
	case err == nil:
		profile.Employee = EmployeeInfoFromDataModel(emp)
	case errors.Is(err, internal.ErrEmployeeNotFound):
		s.logger.Debug("profile has no employee record", "user_id", userID)
	default:
		return nil, err
	}

	return profile, nil
}
