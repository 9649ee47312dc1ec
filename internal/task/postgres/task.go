package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	taskDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/task"
	"github.com/staffsync/staffsync-backend/internal/task"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) task.RepositoryAPI {
	return &Repository{db: db}
}

// ListByEmployee returns the employee's tasks newest first.
func (r *Repository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]task.Task, error) {
	var rows []taskDatamodel.Task
	err := r.db.WithContext(ctx).
		Preload("Assigner").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return task.FromDataModelSlice(rows), nil
}

func (r *Repository) GetForEmployee(ctx context.Context, id, employeeID uuid.UUID) (*task.Task, error) {
	var row taskDatamodel.Task
	err := r.db.WithContext(ctx).
		Preload("Assigner").
		Where("id = ? AND employee_id = ?", id, employeeID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, task.ErrTaskNotFound
		}
		return nil, err
	}
	return task.FromDataModel(&row), nil
}

func (r *Repository) Create(ctx context.Context, t *task.Task) error {
	model := task.ToDataModel(t)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	t.ID = model.ID
	t.CreatedAt = model.CreatedAt
	t.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, t *task.Task) error {
	model := task.ToDataModel(t)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return err
	}
	t.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *Repository) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}
