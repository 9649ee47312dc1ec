package employee

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/auth"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	"github.com/staffsync/staffsync-backend/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context, f Filter, p pagination.Params) ([]Employee, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*Employee, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// Create inserts the user and employee rows in one transaction and
	// assigns the employee code for today.
	Create(ctx context.Context, e *Employee, passwordHash string, today time.Time) error
	Update(ctx context.Context, e *Employee) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type ServiceAPI interface {
	List(ctx context.Context, f Filter, p pagination.Params) (*pagination.Page[View], error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	Create(ctx context.Context, dto CreateDTO) (*View, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateDTO) (*View, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo       RepositoryAPI
	publisher  events.Publisher
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) (*pagination.Page[View], error) {
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	page := pagination.NewPage(ToViews(items), total, p)
	return &page, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to load employee", id)
	}
	v := e.ToView()
	return &v, nil
}

func (s *Service) Create(ctx context.Context, dto CreateDTO) (*View, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	today := dates.DateOf(s.now())
	hireDate, err := dates.ParseDate(dto.HireDate)
	if err != nil {
		return nil, err
	}
	if hireDate.After(today) {
		return nil, internal.NewValidationFieldError("hire_date", "hire_date cannot be in the future", internal.ErrCodeInvalidDate)
	}

	managerID, err := s.resolveManager(ctx, dto.ManagerID)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	e := &Employee{
		ManagerID:  managerID,
		Name:       dto.Name,
		Email:      dto.Email,
		Phone:      dto.Phone,
		Department: dto.Department,
		Position:   dto.Position,
		HireDate:   hireDate,
		Status:     StatusActive,
		IsActive:   true,
	}
	if dto.Salary != nil {
		e.Salary = *dto.Salary
	}

	if err := s.repo.Create(ctx, e, hash, today); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	department := ""
	if e.Department != nil {
		department = *e.Department
	}
	if err := s.publisher.Publish(ctx, events.NewEmployeeJoinedEvent(e.UserID, e.ID, e.Code, department)); err != nil {
		s.logger.Warn("failed to publish employee joined event", "error", err, "employee_id", e.ID)
	}
	s.logger.Info("employee created", "employee_id", e.ID, "code", e.Code)

	v := e.ToView()
	return &v, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, dto UpdateDTO) (*View, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to load employee", id)
	}

	if dto.ManagerID != nil {
		managerID, err := s.resolveManager(ctx, dto.ManagerID)
		if err != nil {
			return nil, err
		}
		if *managerID == id {
			return nil, internal.NewValidationFieldError("manager_id", "an employee cannot manage themselves", internal.ErrCodeValidationFailed)
		}
		e.ManagerID = managerID
	}
	dto.Apply(e)

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, s.wrap(err, "failed to update employee", id)
	}
	s.logger.Info("employee updated", "employee_id", id)

	v := e.ToView()
	return &v, nil
}

// Deactivate marks the employee inactive and disables the login. Rows are
// kept so attendance and leave history stay intact.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return s.wrap(err, "failed to deactivate employee", id)
	}
	s.logger.Info("employee deactivated", "employee_id", id)
	return nil
}

func (s *Service) resolveManager(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, internal.NewValidationFieldError("manager_id", "manager_id must be a valid UUID", internal.ErrCodeInvalidID)
	}
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load manager", err)
	}
	if !exists {
		return nil, internal.NewValidationFieldError("manager_id", "manager not found", internal.ErrCodeEmployeeNotFound)
	}
	return &id, nil
}

func (s *Service) wrap(err error, msg string, id uuid.UUID) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(msg, "error", err, "employee_id", id)
	return internal.NewInternalError(msg, err)
}
