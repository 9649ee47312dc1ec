package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffsync/staffsync-backend/internal/core/common/dbutil"
	documentDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/document"
	"github.com/staffsync/staffsync-backend/internal/document"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) document.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, d *document.Document) error {
	model := document.ToDataModel(d)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	d.ID = model.ID
	d.UploadedAt = model.UploadedAt
	return nil
}

// ListByEmployee returns the employee's documents, newest upload first.
// Search matches the title case-insensitively.
func (r *Repository) ListByEmployee(ctx context.Context, employeeID uuid.UUID, f document.Filter) ([]document.Document, error) {
	q := r.db.WithContext(ctx).
		Preload("Uploader").
		Where("employee_id = ?", employeeID)
	if f.Category != "" {
		q = q.Where("category = ?", string(f.Category))
	}
	if f.Search != "" {
		q = q.Where("LOWER(title) LIKE LOWER(?) ESCAPE '\\'", "%"+dbutil.EscapeLike(f.Search)+"%")
	}

	var rows []documentDatamodel.Document
	if err := q.Order("uploaded_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return document.FromDataModelSlice(rows), nil
}

func (r *Repository) GetForEmployee(ctx context.Context, id, employeeID uuid.UUID) (*document.Document, error) {
	var row documentDatamodel.Document
	err := r.db.WithContext(ctx).
		Preload("Uploader").
		Where("id = ? AND employee_id = ?", id, employeeID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, document.ErrDocumentNotFound
		}
		return nil, err
	}
	return document.FromDataModel(&row), nil
}
