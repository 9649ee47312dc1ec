package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	"github.com/staffsync/staffsync-backend/internal/core/events"
)

// ApplyFunc mutates the day's record inside the upsert transaction. exists is
// false when rec is a fresh, unsaved record for the day.
type ApplyFunc func(rec *Attendance, exists bool) error

type RepositoryAPI interface {
	// Upsert loads the (employee, date) record and saves whatever apply
	// leaves in it, atomically. An apply error aborts without writing.
	Upsert(ctx context.Context, employeeID uuid.UUID, date time.Time, apply ApplyFunc) (*Attendance, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, r dates.Range) ([]Attendance, error)
	List(ctx context.Context, f Filter, p pagination.Params) ([]Attendance, int64, error)
	// ListAll returns every record matching f with employee details.
	ListAll(ctx context.Context, f Filter) ([]Attendance, error)
	CountByStatus(ctx context.Context, f Filter) (Counts, error)
	EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error)
}

type ServiceAPI interface {
	CheckIn(ctx context.Context, employeeID uuid.UUID) (*Record, error)
	CheckOut(ctx context.Context, employeeID uuid.UUID) (*Record, error)
	History(ctx context.Context, employeeID uuid.UUID, r dates.Range) (*History, error)
	List(ctx context.Context, f Filter, p pagination.Params) (*Listing, error)
	Mark(ctx context.Context, markedBy uuid.UUID, dto MarkDTO) (*Record, error)
	Report(ctx context.Context, r dates.Range, department string) (*Report, error)
	Today() time.Time
}

type History struct {
	Records   []Record `json:"records"`
	Summary   Summary  `json:"summary"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
}

type Listing struct {
	pagination.Page[Record]
	Summary Counts `json:"summary"`
}

type Service struct {
	repo      RepositoryAPI
	policy    Policy
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, policy Policy, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		policy:    policy,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Today() time.Time {
	return s.policy.Today(s.now())
}

func (s *Service) CheckIn(ctx context.Context, employeeID uuid.UUID) (*Record, error) {
	now := s.now()
	today := s.policy.Today(now)

	rec, err := s.repo.Upsert(ctx, employeeID, today, func(rec *Attendance, exists bool) error {
		if exists && rec.CheckIn != nil {
			return ErrAlreadyCheckedIn
		}
		at := now.UTC()
		rec.CheckIn = &at
		rec.Status = s.policy.StatusAt(now)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateDay) {
			return nil, ErrAlreadyCheckedIn
		}
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to check in", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to check in", err)
	}

	s.logger.Info("employee checked in", "employee_id", employeeID, "status", rec.Status)
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.NewAttendanceCheckedInEvent(employeeID, string(rec.Status), *rec.CheckIn))
	}

	view := rec.View(s.policy.Location)
	return &view, nil
}

func (s *Service) CheckOut(ctx context.Context, employeeID uuid.UUID) (*Record, error) {
	now := s.now()
	today := s.policy.Today(now)

	rec, err := s.repo.Upsert(ctx, employeeID, today, func(rec *Attendance, exists bool) error {
		if !exists || rec.CheckIn == nil {
			return ErrNotCheckedIn
		}
		if rec.CheckOut != nil {
			return ErrAlreadyCheckedOut
		}
		at := now.UTC()
		rec.CheckOut = &at
		rec.HoursWorked = decimal.NewNullDecimal(HoursBetween(*rec.CheckIn, at))
		return nil
	})
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to check out", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to check out", err)
	}

	s.logger.Info("employee checked out", "employee_id", employeeID, "hours_worked", rec.HoursWorked.Decimal.String())
	view := rec.View(s.policy.Location)
	return &view, nil
}

func (s *Service) History(ctx context.Context, employeeID uuid.UUID, r dates.Range) (*History, error) {
	items, err := s.repo.ListByEmployee(ctx, employeeID, r)
	if err != nil {
		s.logger.Error("failed to load attendance history", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to load attendance", err)
	}
	return &History{
		Records:   Views(items, s.policy.Location),
		Summary:   Summarize(items),
		StartDate: r.Start.Format(dates.DateLayout),
		EndDate:   r.End.Format(dates.DateLayout),
	}, nil
}

// List pages through every employee's records. The summary covers the whole
// filtered window regardless of the status filter.
func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) (*Listing, error) {
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		s.logger.Error("failed to list attendance", "error", err)
		return nil, internal.NewInternalError("failed to list attendance", err)
	}

	summaryFilter := f
	summaryFilter.Status = ""
	counts, err := s.repo.CountByStatus(ctx, summaryFilter)
	if err != nil {
		s.logger.Error("failed to summarise attendance", "error", err)
		return nil, internal.NewInternalError("failed to list attendance", err)
	}

	return &Listing{
		Page:    pagination.NewPage(Views(items, s.policy.Location), total, p),
		Summary: counts,
	}, nil
}

// Mark upserts an HR-entered record. Hours are only computed when both
// times are supplied; any date is accepted.
func (s *Service) Mark(ctx context.Context, markedBy uuid.UUID, dto MarkDTO) (*Record, error) {
	m, err := dto.Resolve(s.policy.Location)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.EmployeeExists(ctx, m.EmployeeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load employee", err)
	}
	if !exists {
		return nil, internal.ErrEmployeeNotFound
	}

	rec, err := s.repo.Upsert(ctx, m.EmployeeID, m.Date, func(rec *Attendance, _ bool) error {
		rec.CheckIn = m.CheckIn
		rec.CheckOut = m.CheckOut
		rec.HoursWorked = decimal.NullDecimal{}
		if m.CheckIn != nil && m.CheckOut != nil {
			rec.HoursWorked = decimal.NewNullDecimal(HoursBetween(*m.CheckIn, *m.CheckOut))
		}
		rec.Status = m.Status
		rec.Notes = m.Notes
		rec.MarkedBy = &markedBy
		return nil
	})
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to mark attendance", "error", err, "employee_id", m.EmployeeID)
		return nil, internal.NewInternalError("failed to mark attendance", err)
	}

	s.logger.Info("attendance marked",
		"employee_id", m.EmployeeID,
		"date", m.Date.Format(dates.DateLayout),
		"status", m.Status,
		"marked_by", markedBy)

	view := rec.View(s.policy.Location)
	return &view, nil
}

func (s *Service) Report(ctx context.Context, r dates.Range, department string) (*Report, error) {
	items, err := s.repo.ListAll(ctx, Filter{Range: r, Department: department})
	if err != nil {
		s.logger.Error("failed to load attendance for report", "error", err)
		return nil, internal.NewInternalError("failed to build report", err)
	}
	return BuildReport(items, r, department, s.now()), nil
}
