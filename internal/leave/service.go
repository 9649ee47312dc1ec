package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	"github.com/staffsync/staffsync-backend/internal/core/events"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
)

// ReviewFunc mutates the loaded request inside the review transaction.
type ReviewFunc func(r *Request) error

type RepositoryAPI interface {
	Create(ctx context.Context, r *Request) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Request, error)
	List(ctx context.Context, status Status, p pagination.Params) ([]Request, int64, error)
	CountByStatus(ctx context.Context) (Summary, error)
	// Review loads the request, applies fn and stores the result together
	// with the employee's notification in one transaction.
	Review(ctx context.Context, id uuid.UUID, fn ReviewFunc) (*Request, error)
}

type ServiceAPI interface {
	Submit(ctx context.Context, employeeID uuid.UUID, dto SubmitDTO) (*View, error)
	ListMine(ctx context.Context, employeeID uuid.UUID) ([]View, error)
	List(ctx context.Context, status Status, p pagination.Params) (*Listing, error)
	Review(ctx context.Context, reviewer *coreuser.Principal, id uuid.UUID, dto ReviewDTO) (*View, error)
}

type Listing struct {
	pagination.Page[View]
	Summary Summary `json:"summary"`
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Submit(ctx context.Context, employeeID uuid.UUID, dto SubmitDTO) (*View, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	start, _ := dates.ParseDate(dto.StartDate)
	end, _ := dates.ParseDate(dto.EndDate)
	days, err := DaysBetween(start, end)
	if err != nil {
		return nil, err
	}

	r := &Request{
		EmployeeID:  employeeID,
		Type:        Type(dto.LeaveType),
		StartDate:   start,
		EndDate:     end,
		Days:        days,
		Reason:      dto.Reason,
		Status:      StatusPending,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("failed to submit leave request", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to submit leave request", err)
	}

	s.logger.Info("leave request submitted", "leave_request_id", r.ID, "employee_id", employeeID, "days", days)
	v := r.ToView()
	return &v, nil
}

func (s *Service) ListMine(ctx context.Context, employeeID uuid.UUID) ([]View, error) {
	items, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to list leave requests", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to list leave requests", err)
	}
	return ToViews(items), nil
}

// List pages through every request, optionally by status. The summary
// always counts all requests.
func (s *Service) List(ctx context.Context, status Status, p pagination.Params) (*Listing, error) {
	items, total, err := s.repo.List(ctx, status, p)
	if err != nil {
		s.logger.Error("failed to list leave requests", "error", err)
		return nil, internal.NewInternalError("failed to list leave requests", err)
	}
	summary, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("failed to count leave requests", "error", err)
		return nil, internal.NewInternalError("failed to list leave requests", err)
	}
	return &Listing{
		Page:    pagination.NewPage(ToViews(items), total, p),
		Summary: summary,
	}, nil
}

// Review records the reviewer's decision. A request that was already
// reviewed may be reviewed again; the latest decision wins.
func (s *Service) Review(ctx context.Context, reviewer *coreuser.Principal, id uuid.UUID, dto ReviewDTO) (*View, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	at := s.now().UTC()
	r, err := s.repo.Review(ctx, id, func(r *Request) error {
		if r.Status != StatusPending {
			s.logger.Warn("leave request reviewed again", "leave_request_id", id, "previous_status", r.Status)
		}
		r.Status = Status(dto.Status)
		r.ReviewedBy = &reviewer.UserID
		r.ReviewedAt = &at
		r.Notes = dto.Notes
		return nil
	})
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to review leave request", "error", err, "leave_request_id", id)
		return nil, internal.NewInternalError("failed to review leave request", err)
	}

	name := reviewer.Name
	r.ReviewerName = &name
	s.logger.Info("leave request reviewed", "leave_request_id", id, "status", r.Status, "reviewed_by", reviewer.UserID)

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.NewLeaveReviewedEvent(r.ID, r.EmployeeID, reviewer.UserID, string(r.Status), r.Days))
	}

	v := r.ToView()
	return &v, nil
}
