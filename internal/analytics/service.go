package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/attendance"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
)

// AttendanceReader is the slice of the attendance repository analytics needs.
type AttendanceReader interface {
	ListAll(ctx context.Context, f attendance.Filter) ([]attendance.Attendance, error)
}

type RepositoryAPI interface {
	// LeavePatterns counts leave requests starting inside r by type.
	LeavePatterns(ctx context.Context, r dates.Range, department string) (LeavePatterns, error)
}

type ServiceAPI interface {
	Report(ctx context.Context, r dates.Range, department string) (*Report, error)
	Today() time.Time
}

type Service struct {
	attendance AttendanceReader
	repo       RepositoryAPI
	policy     attendance.Policy
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(att AttendanceReader, repo RepositoryAPI, policy attendance.Policy, logger *slog.Logger) *Service {
	return &Service{
		attendance: att,
		repo:       repo,
		policy:     policy,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) Today() time.Time {
	return s.policy.Today(s.now())
}

func (s *Service) Report(ctx context.Context, r dates.Range, department string) (*Report, error) {
	records, err := s.attendance.ListAll(ctx, attendance.Filter{Range: r, Department: department})
	if err != nil {
		s.logger.Error("failed to load attendance for analytics", "error", err)
		return nil, internal.NewInternalError("failed to build analytics", err)
	}

	var comparison []attendance.Attendance
	if department != "" {
		comparison, err = s.attendance.ListAll(ctx, attendance.Filter{Range: r})
		if err != nil {
			s.logger.Error("failed to load attendance for department comparison", "error", err)
			return nil, internal.NewInternalError("failed to build analytics", err)
		}
		if comparison == nil {
			comparison = []attendance.Attendance{}
		}
	}

	leaves, err := s.repo.LeavePatterns(ctx, r, department)
	if err != nil {
		s.logger.Error("failed to load leave patterns", "error", err)
		return nil, internal.NewInternalError("failed to build analytics", err)
	}

	return Build(Input{
		Range:      r,
		Department: department,
		Records:    records,
		Comparison: comparison,
		Leaves:     leaves,
		Location:   s.policy.Location,
	}), nil
}
