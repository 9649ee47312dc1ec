package task

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
)

type Task struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID           `gorm:"type:uuid;column:employee_id;not null;index"`
	AssignedBy  *uuid.UUID          `gorm:"type:uuid;column:assigned_by"`
	Title       string              `gorm:"column:title;not null"`
	Description *string             `gorm:"column:description"`
	Status      string              `gorm:"column:status;not null;index"`
	Priority    string              `gorm:"column:priority;not null"`
	DueDate     time.Time           `gorm:"column:due_date;type:date;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
	Assigner    *userDatamodel.User `gorm:"foreignKey:AssignedBy;references:ID"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
