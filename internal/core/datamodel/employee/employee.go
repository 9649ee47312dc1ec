package employee

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
)

type Employee struct {
	ID               uuid.UUID          `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID          `gorm:"type:uuid;column:user_id;uniqueIndex;not null"`
	ManagerID        *uuid.UUID         `gorm:"type:uuid;column:manager_id"`
	EmployeeCode     string             `gorm:"column:employee_id;uniqueIndex;not null"`
	Position         string             `gorm:"column:position;not null"`
	HireDate         time.Time          `gorm:"column:hire_date;type:date;not null"`
	Salary           decimal.Decimal    `gorm:"column:salary;type:decimal(12,2);not null;default:0"`
	Status           string             `gorm:"column:status;not null;index"`
	PerformanceScore *int               `gorm:"column:performance_score"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
	User             userDatamodel.User `gorm:"foreignKey:UserID;references:ID"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NextCode returns the next EMP-YYYYMMDD-NNNN code for day. Call it inside
// the transaction that inserts the employee; the unique index on the code
// rejects a concurrent duplicate.
func NextCode(tx *gorm.DB, day time.Time) (string, error) {
	prefix := fmt.Sprintf("EMP-%s-", day.Format("20060102"))

	var codes []string
	err := tx.Model(&Employee{}).
		Where("employee_id LIKE ?", prefix+"%").
		Order("employee_id DESC").
		Limit(1).
		Pluck("employee_id", &codes).Error
	if err != nil {
		return "", err
	}

	next := 1
	if len(codes) > 0 {
		if n, convErr := strconv.Atoi(strings.TrimPrefix(codes[0], prefix)); convErr == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}
