package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	leaveDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/leave"
	"github.com/staffsync/staffsync-backend/internal/dashboard"
	"github.com/staffsync/staffsync-backend/internal/employee"
	"github.com/staffsync/staffsync-backend/internal/leave"
)

const unassignedDepartment = "Unassigned"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) dashboard.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) Headcount(ctx context.Context) (dashboard.Headcount, error) {
	var h dashboard.Headcount
	var rows []struct {
		Department *string
		Status     string
		Count      int
	}
	err := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Joins("JOIN users ON users.id = employees.user_id").
		Select("users.department AS department, employees.status AS status, COUNT(*) AS count").
		Group("users.department, employees.status").
		Scan(&rows).Error
	if err != nil {
		return h, err
	}

	h.Departments = map[string]int{}
	for _, row := range rows {
		dept := unassignedDepartment
		if row.Department != nil && *row.Department != "" {
			dept = *row.Department
		}
		h.Departments[dept] += row.Count
		h.Total += row.Count
		if row.Status == string(employee.StatusActive) {
			h.Active += row.Count
		}
	}
	return h, nil
}

func (r *Repository) LeaveCounts(ctx context.Context, today time.Time) (dashboard.LeaveCounts, error) {
	var pending, approved int64
	err := r.db.WithContext(ctx).
		Model(&leaveDatamodel.LeaveRequest{}).
		Where("status = ?", string(leave.StatusPending)).
		Count(&pending).Error
	if err != nil {
		return dashboard.LeaveCounts{}, err
	}

	err = r.db.WithContext(ctx).
		Model(&leaveDatamodel.LeaveRequest{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?", string(leave.StatusApproved), today, today).
		Count(&approved).Error
	if err != nil {
		return dashboard.LeaveCounts{}, err
	}
	return dashboard.LeaveCounts{Pending: int(pending), ApprovedToday: int(approved)}, nil
}
