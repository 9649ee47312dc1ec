package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffsync/staffsync-backend/internal/attendance"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	"github.com/staffsync/staffsync-backend/internal/core/common/dbutil"
	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	attendanceDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) attendance.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) Upsert(ctx context.Context, employeeID uuid.UUID, date time.Time, apply attendance.ApplyFunc) (*attendance.Attendance, error) {
	date = dates.DateOf(date)
	var out *attendance.Attendance

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row attendanceDatamodel.Attendance
		exists := true
		err := tx.Where("employee_id = ? AND date = ?", employeeID, date).First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			exists = false
			row = attendanceDatamodel.Attendance{EmployeeID: employeeID, Date: date}
		case err != nil:
			return err
		}

		rec := attendance.FromDataModel(&row)
		if err := apply(rec, exists); err != nil {
			return err
		}
		rec.EmployeeID = employeeID
		rec.Date = date

		model := attendance.ToDataModel(rec)
		if exists {
			err = tx.Omit(clause.Associations).Save(model).Error
		} else {
			err = tx.Omit(clause.Associations).Create(model).Error
		}
		if err != nil {
			if dbutil.IsUniqueViolation(err) {
				return attendance.ErrDuplicateDay
			}
			return err
		}
		out = attendance.FromDataModel(model)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID uuid.UUID, window dates.Range) ([]attendance.Attendance, error) {
	var rows []attendanceDatamodel.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date >= ? AND date <= ?", employeeID, window.Start, window.End).
		Order("date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return attendance.FromDataModelSlice(rows), nil
}

func (r *Repository) List(ctx context.Context, f attendance.Filter, p pagination.Params) ([]attendance.Attendance, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []attendanceDatamodel.Attendance
	err := r.filtered(ctx, f).
		Select("attendance.*").
		Preload("Employee.User").
		Order("attendance.date DESC").
		Order("attendance.created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return attendance.FromDataModelSlice(rows), total, nil
}

func (r *Repository) ListAll(ctx context.Context, f attendance.Filter) ([]attendance.Attendance, error) {
	var rows []attendanceDatamodel.Attendance
	err := r.filtered(ctx, f).
		Select("attendance.*").
		Preload("Employee.User").
		Order("attendance.date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return attendance.FromDataModelSlice(rows), nil
}

func (r *Repository) CountByStatus(ctx context.Context, f attendance.Filter) (attendance.Counts, error) {
	var rows []struct {
		Status string
		Count  int
	}
	err := r.filtered(ctx, f).
		Select("attendance.status AS status, COUNT(*) AS count").
		Group("attendance.status").
		Scan(&rows).Error
	if err != nil {
		return attendance.Counts{}, err
	}

	var counts attendance.Counts
	for _, row := range rows {
		counts.Add(attendance.Status(row.Status), row.Count)
	}
	return counts, nil
}

func (r *Repository) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) filtered(ctx context.Context, f attendance.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&attendanceDatamodel.Attendance{}).
		Joins("JOIN employees ON employees.id = attendance.employee_id").
		Joins("JOIN users ON users.id = employees.user_id")

	if !f.Range.Start.IsZero() {
		q = q.Where("attendance.date >= ?", f.Range.Start)
	}
	if !f.Range.End.IsZero() {
		q = q.Where("attendance.date <= ?", f.Range.End)
	}
	if f.EmployeeID != nil {
		q = q.Where("attendance.employee_id = ?", *f.EmployeeID)
	}
	if f.Department != "" {
		q = q.Where("users.department = ?", f.Department)
	}
	if f.Status != "" {
		q = q.Where("attendance.status = ?", string(f.Status))
	}
	return q
}
