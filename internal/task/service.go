package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
)

type RepositoryAPI interface {
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Task, error)
	GetForEmployee(ctx context.Context, id, employeeID uuid.UUID) (*Task, error)
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error)
}

type ServiceAPI interface {
	ListMine(ctx context.Context, employeeID, userID uuid.UUID, f Filter) (*Listing, error)
	CreateMine(ctx context.Context, employeeID, userID uuid.UUID, dto CreateTaskDTO) (*View, error)
	UpdateMine(ctx context.Context, employeeID, userID, taskID uuid.UUID, dto UpdateTaskDTO) (*View, error)
	Assign(ctx context.Context, assigner *coreuser.Principal, employeeID uuid.UUID, dto CreateTaskDTO) (*View, error)
}

type Listing struct {
	Tasks   []View  `json:"tasks"`
	Summary Summary `json:"summary"`
}

type Service struct {
	repo   RepositoryAPI
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:   repo,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) today() time.Time {
	return dates.DateOf(s.now().In(s.loc))
}

// ListMine returns the filtered, sorted tasks; the summary always covers
// every task the employee owns.
func (s *Service) ListMine(ctx context.Context, employeeID, userID uuid.UUID, f Filter) (*Listing, error) {
	all, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to list tasks", err)
	}

	today := s.today()
	filtered := make([]Task, 0, len(all))
	for _, t := range all {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		filtered = append(filtered, t)
	}
	Sort(filtered, f.SortBy)

	views := make([]View, len(filtered))
	for i := range filtered {
		views[i] = filtered[i].ToView(userID, today)
	}
	return &Listing{Tasks: views, Summary: Summarize(all, today)}, nil
}

func (s *Service) CreateMine(ctx context.Context, employeeID, userID uuid.UUID, dto CreateTaskDTO) (*View, error) {
	t, err := s.create(ctx, employeeID, userID, dto)
	if err != nil {
		return nil, err
	}
	v := t.ToView(userID, s.today())
	return &v, nil
}

// Assign creates a task on another employee's list on behalf of HR.
func (s *Service) Assign(ctx context.Context, assigner *coreuser.Principal, employeeID uuid.UUID, dto CreateTaskDTO) (*View, error) {
	exists, err := s.repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load employee", err)
	}
	if !exists {
		return nil, internal.ErrEmployeeNotFound
	}

	t, err := s.create(ctx, employeeID, assigner.UserID, dto)
	if err != nil {
		return nil, err
	}
	t.AssignerName = assigner.Name
	s.logger.Info("task assigned", "task_id", t.ID, "employee_id", employeeID, "assigned_by", assigner.UserID)

	v := t.ToView(uuid.Nil, s.today())
	return &v, nil
}

func (s *Service) create(ctx context.Context, employeeID, assignedBy uuid.UUID, dto CreateTaskDTO) (*Task, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := checkDueDate(dto.DueDate, s.today()); err != nil {
		return nil, err
	}

	due, _ := dates.ParseDate(dto.DueDate)
	t := &Task{
		EmployeeID:  employeeID,
		AssignedBy:  &assignedBy,
		Title:       dto.Title,
		Description: dto.Description,
		Status:      StatusPending,
		Priority:    Priority(dto.Priority),
		DueDate:     due,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("failed to create task", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to create task", err)
	}
	return t, nil
}

// UpdateMine applies a partial update. Tasks owned by someone else are
// reported as not found.
func (s *Service) UpdateMine(ctx context.Context, employeeID, userID, taskID uuid.UUID, dto UpdateTaskDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.DueDate != nil && *dto.DueDate != "" {
		if err := checkDueDate(*dto.DueDate, s.today()); err != nil {
			return nil, err
		}
	}

	t, err := s.repo.GetForEmployee(ctx, taskID, employeeID)
	if err != nil {
		return nil, err
	}

	dto.Apply(t)
	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("failed to update task", "error", err, "task_id", taskID)
		return nil, internal.NewInternalError("failed to update task", err)
	}

	v := t.ToView(userID, s.today())
	return &v, nil
}
