package announcement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
)

type Announcement struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey"`
	CreatedBy      uuid.UUID           `gorm:"type:uuid;column:created_by;not null"`
	Title          string              `gorm:"column:title;not null"`
	Content        string              `gorm:"column:content;not null"`
	Priority       string              `gorm:"column:priority;not null"`
	TargetAudience string              `gorm:"column:target_audience;not null;index"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
	Creator        *userDatamodel.User `gorm:"foreignKey:CreatedBy;references:ID"`
}

func (Announcement) TableName() string {
	return "announcements"
}

func (a *Announcement) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
