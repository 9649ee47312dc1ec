package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffsync/staffsync-backend/internal/announcement"
	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	announcementDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/announcement"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) announcement.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a *announcement.Announcement) error {
	model := announcement.ToDataModel(a)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	a.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *Repository) List(ctx context.Context, audiences []announcement.Audience, p pagination.Params) ([]announcement.Announcement, int64, error) {
	var total int64
	if err := r.forAudiences(ctx, audiences).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []announcementDatamodel.Announcement
	err := r.forAudiences(ctx, audiences).
		Preload("Creator").
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return announcement.FromDataModelSlice(rows), total, nil
}

func (r *Repository) forAudiences(ctx context.Context, audiences []announcement.Audience) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&announcementDatamodel.Announcement{})
	if len(audiences) > 0 {
		names := make([]string, len(audiences))
		for i, a := range audiences {
			names[i] = string(a)
		}
		q = q.Where("target_audience IN ?", names)
	}
	return q
}
