package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	notificationDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/notification"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/internal/notification"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) notification.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, n *notification.Notification) error {
	model := notification.ToDataModel(n)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	n.ID = model.ID
	n.CreatedAt = model.CreatedAt
	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var row notificationDatamodel.Notification
	if err := r.db.WithContext(ctx).Preload("Sender").First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, err
	}
	return notification.FromDataModel(&row), nil
}

func (r *Repository) ListAddressed(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]notification.Notification, error) {
	q := r.addressed(ctx, userID).Preload("Sender")
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var rows []notificationDatamodel.Notification
	if err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(rows), nil
}

func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.addressed(ctx, userID).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func (r *Repository) ListSent(ctx context.Context, senderID uuid.UUID, limit int) ([]notification.Notification, error) {
	var rows []notificationDatamodel.Notification
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Where("sender_id = ?", senderID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(rows), nil
}

func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_read": true, "read_at": at}).Error
}

func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res := r.addressed(ctx, userID).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *Repository) IsEmployeeUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ? AND role = ?", userID, coreuser.RoleEmployee.String()).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) addressed(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("(recipient_id = ? OR recipient_id IS NULL)", userID)
}
