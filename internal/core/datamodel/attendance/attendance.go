package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
)

type Attendance struct {
	ID          uuid.UUID                  `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID                  `gorm:"type:uuid;column:employee_id;not null;uniqueIndex:uq_attendance_employee_date"`
	Date        time.Time                  `gorm:"column:date;type:date;not null;uniqueIndex:uq_attendance_employee_date;index"`
	CheckIn     *time.Time                 `gorm:"column:check_in"`
	CheckOut    *time.Time                 `gorm:"column:check_out"`
	HoursWorked decimal.NullDecimal        `gorm:"column:hours_worked;type:decimal(5,2)"`
	Status      string                     `gorm:"column:status;not null"`
	Notes       *string                    `gorm:"column:notes"`
	MarkedBy    *uuid.UUID                 `gorm:"type:uuid;column:marked_by"`
	CreatedAt   time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
	Employee    employeeDatamodel.Employee `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendance"
}

func (a *Attendance) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
