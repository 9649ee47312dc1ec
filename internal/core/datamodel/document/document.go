package document

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
)

type Document struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID           `gorm:"type:uuid;column:employee_id;not null;index"`
	UploadedBy  uuid.UUID           `gorm:"type:uuid;column:uploaded_by;not null"`
	Title       string              `gorm:"column:title;not null"`
	Category    string              `gorm:"column:category;not null"`
	FileName    string              `gorm:"column:file_name;not null"`
	FilePath    string              `gorm:"column:file_path;not null"`
	FileSize    int64               `gorm:"column:file_size;not null"`
	ContentType string              `gorm:"column:content_type"`
	UploadedAt  time.Time           `gorm:"column:uploaded_at;autoCreateTime"`
	Uploader    *userDatamodel.User `gorm:"foreignKey:UploadedBy;references:ID"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
