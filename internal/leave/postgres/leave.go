package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	leaveDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/leave"
	notificationDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/notification"
	"github.com/staffsync/staffsync-backend/internal/leave"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) leave.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, req *leave.Request) error {
	model := leave.ToDataModel(req)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	req.ID = model.ID
	req.CreatedAt = model.CreatedAt
	req.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]leave.Request, error) {
	var rows []leaveDatamodel.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(rows), nil
}

func (r *Repository) List(ctx context.Context, status leave.Status, p pagination.Params) ([]leave.Request, int64, error) {
	var total int64
	if err := r.byStatus(ctx, status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []leaveDatamodel.LeaveRequest
	err := r.byStatus(ctx, status).
		Preload("Employee.User").
		Preload("Reviewer").
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return leave.FromDataModelSlice(rows), total, nil
}

func (r *Repository) CountByStatus(ctx context.Context) (leave.Summary, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&leaveDatamodel.LeaveRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return leave.Summary{}, err
	}

	var s leave.Summary
	for _, row := range rows {
		s.Add(leave.Status(row.Status), row.Count)
	}
	return s, nil
}

func (r *Repository) Review(ctx context.Context, id uuid.UUID, fn leave.ReviewFunc) (*leave.Request, error) {
	var out *leave.Request
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row leaveDatamodel.LeaveRequest
		if err := tx.Preload("Employee.User").First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leave.ErrLeaveNotFound
			}
			return err
		}

		req := leave.FromDataModel(&row)
		if err := fn(req); err != nil {
			return err
		}

		model := leave.ToDataModel(req)
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return fmt.Errorf("save leave request: %w", err)
		}
		req.UpdatedAt = model.UpdatedAt

		notice := leave.ReviewNotice(req)
		recipient := req.EmployeeUserID
		note := &notificationDatamodel.Notification{
			SenderID:    req.ReviewedBy,
			RecipientID: &recipient,
			Title:       notice.Title,
			Message:     notice.Message,
			Type:        notice.Type,
		}
		if err := tx.Omit(clause.Associations).Create(note).Error; err != nil {
			return fmt.Errorf("notify employee: %w", err)
		}

		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) byStatus(ctx context.Context, status leave.Status) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&leaveDatamodel.LeaveRequest{})
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	return q
}
