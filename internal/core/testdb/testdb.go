// Package testdb opens migrated in-memory SQLite databases and seeds the
// fixtures repository and service tests share.
package testdb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	announcementDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/announcement"
	attendanceDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/attendance"
	documentDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/document"
	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	leaveDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/leave"
	notificationDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/notification"
	taskDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/task"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
)

// Open returns a fresh migrated database. A single connection keeps every
// query on the same in-memory database.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&userDatamodel.User{},
		&employeeDatamodel.Employee{},
		&attendanceDatamodel.Attendance{},
		&taskDatamodel.Task{},
		&leaveDatamodel.LeaveRequest{},
		&documentDatamodel.Document{},
		&announcementDatamodel.Announcement{},
		&notificationDatamodel.Notification{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

type UserOpts struct {
	Email      string
	Name       string
	Role       string
	Department string
	Inactive   bool
	Hash       string
}

func CreateUser(db *gorm.DB, opts UserOpts) (*userDatamodel.User, error) {
	if opts.Email == "" {
		opts.Email = fmt.Sprintf("%s@example.com", uuid.NewString()[:8])
	}
	if opts.Name == "" {
		opts.Name = "Test User"
	}
	if opts.Role == "" {
		opts.Role = "EMPLOYEE"
	}
	if opts.Hash == "" {
		opts.Hash = "not-a-real-hash"
	}
	u := &userDatamodel.User{
		Email:        opts.Email,
		PasswordHash: opts.Hash,
		Role:         opts.Role,
		Name:         opts.Name,
		IsActive:     !opts.Inactive,
	}
	if opts.Department != "" {
		dept := opts.Department
		u.Department = &dept
	}
	if err := db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// CreateEmployee creates a user and its employee record.
func CreateEmployee(db *gorm.DB, opts UserOpts) (*employeeDatamodel.Employee, error) {
	u, err := CreateUser(db, opts)
	if err != nil {
		return nil, err
	}
	e := &employeeDatamodel.Employee{
		UserID:       u.ID,
		EmployeeCode: "EMP-" + uuid.NewString()[:8],
		Position:     "Engineer",
		HireDate:     time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Salary:       decimal.NewFromInt(50000),
		Status:       "active",
	}
	if opts.Inactive {
		e.Status = "inactive"
	}
	if err := db.Create(e).Error; err != nil {
		return nil, err
	}
	e.User = *u
	return e, nil
}
