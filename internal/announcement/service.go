package announcement

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
)

type RepositoryAPI interface {
	Create(ctx context.Context, a *Announcement) error
	// List returns announcements for the given audiences newest first; no
	// audiences means every announcement.
	List(ctx context.Context, audiences []Audience, p pagination.Params) ([]Announcement, int64, error)
}

type ServiceAPI interface {
	Create(ctx context.Context, creatorID uuid.UUID, creatorName string, dto CreateDTO) (*View, error)
	ListAll(ctx context.Context, p pagination.Params) (*pagination.Page[View], error)
	ListForEmployees(ctx context.Context, p pagination.Params) (*pagination.Page[View], error)
	Recent(ctx context.Context, limit int) ([]Preview, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, creatorName string, dto CreateDTO) (*View, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a := &Announcement{
		CreatedBy:      creatorID,
		CreatorName:    creatorName,
		Title:          dto.Title,
		Content:        dto.Content,
		Priority:       Priority(dto.Priority),
		TargetAudience: Audience(dto.TargetAudience),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create announcement", "error", err, "created_by", creatorID)
		return nil, internal.NewInternalError("failed to create announcement", err)
	}

	s.logger.Info("announcement published", "announcement_id", a.ID, "audience", a.TargetAudience, "priority", a.Priority)
	v := a.ToView()
	return &v, nil
}

func (s *Service) ListAll(ctx context.Context, p pagination.Params) (*pagination.Page[View], error) {
	return s.list(ctx, nil, p)
}

func (s *Service) ListForEmployees(ctx context.Context, p pagination.Params) (*pagination.Page[View], error) {
	return s.list(ctx, EmployeeAudiences, p)
}

// Recent returns the newest employee-facing announcements with content
// shortened for dashboards.
func (s *Service) Recent(ctx context.Context, limit int) ([]Preview, error) {
	items, _, err := s.repo.List(ctx, EmployeeAudiences, pagination.Params{Page: 1, PageSize: limit})
	if err != nil {
		s.logger.Error("failed to load recent announcements", "error", err)
		return nil, internal.NewInternalError("failed to load announcements", err)
	}
	out := make([]Preview, len(items))
	for i := range items {
		out[i] = items[i].ToPreview()
	}
	return out, nil
}

func (s *Service) list(ctx context.Context, audiences []Audience, p pagination.Params) (*pagination.Page[View], error) {
	items, total, err := s.repo.List(ctx, audiences, p)
	if err != nil {
		s.logger.Error("failed to list announcements", "error", err)
		return nil, internal.NewInternalError("failed to list announcements", err)
	}
	page := pagination.NewPage(ToViews(items), total, p)
	return &page, nil
}
