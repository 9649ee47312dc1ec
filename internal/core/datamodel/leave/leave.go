package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
)

type LeaveRequest struct {
	ID          uuid.UUID                  `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID                  `gorm:"type:uuid;column:employee_id;not null;index"`
	Type        string                     `gorm:"column:type;not null"`
	StartDate   time.Time                  `gorm:"column:start_date;type:date;not null"`
	EndDate     time.Time                  `gorm:"column:end_date;type:date;not null"`
	Days        int                        `gorm:"column:days;not null"`
	Reason      string                     `gorm:"column:reason;not null"`
	Status      string                     `gorm:"column:status;not null;index"`
	ReviewedBy  *uuid.UUID                 `gorm:"type:uuid;column:reviewed_by"`
	ReviewedAt  *time.Time                 `gorm:"column:reviewed_at"`
	Notes       *string                    `gorm:"column:notes"`
	SubmittedAt time.Time                  `gorm:"column:submitted_at;not null"`
	CreatedAt   time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
	Employee    employeeDatamodel.Employee `gorm:"foreignKey:EmployeeID;references:ID"`
	Reviewer    *userDatamodel.User        `gorm:"foreignKey:ReviewedBy;references:ID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (l *LeaveRequest) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
