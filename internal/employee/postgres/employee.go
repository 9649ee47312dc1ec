package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/dbutil"
	"github.com/staffsync/staffsync-backend/internal/core/common/pagination"
	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/internal/employee"
)

var sortColumns = map[string]string{
	employee.SortByName:       "users.name",
	employee.SortByHireDate:   "employees.hire_date",
	employee.SortByDepartment: "users.department",
	employee.SortByCreatedAt:  "users.created_at",
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) employee.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) filtered(ctx context.Context, f employee.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Joins("JOIN users ON users.id = employees.user_id")
	if f.Search != "" {
		pattern := "%" + dbutil.EscapeLike(f.Search) + "%"
		q = q.Where("(LOWER(users.name) LIKE LOWER(?) ESCAPE '\\' OR LOWER(users.email) LIKE LOWER(?) ESCAPE '\\')", pattern, pattern)
	}
	if f.Department != "" {
		q = q.Where("users.department = ?", f.Department)
	}
	if f.Status != "" {
		q = q.Where("employees.status = ?", string(f.Status))
	}
	return q
}

func (r *Repository) List(ctx context.Context, f employee.Filter, p pagination.Params) ([]employee.Employee, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = sortColumns[employee.SortByCreatedAt]
	}
	direction := "ASC"
	if f.Descending {
		direction = "DESC"
	}

	var rows []employeeDatamodel.Employee
	err := r.filtered(ctx, f).
		Preload("User").
		Select("employees.*").
		Order(fmt.Sprintf("%s %s, employees.id ASC", column, direction)).
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return employee.FromDataModelSlice(rows), total, nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *Repository) get(tx *gorm.DB, id uuid.UUID) (*employee.Employee, error) {
	var row employeeDatamodel.Employee
	if err := tx.Preload("User").First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&row), nil
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Create(ctx context.Context, e *employee.Employee, passwordHash string, today time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, m := employee.ToDataModel(e)
		u.PasswordHash = passwordHash
		u.Role = coreuser.RoleEmployee.String()
		if err := tx.Create(u).Error; err != nil {
			if dbutil.IsUniqueViolation(err) {
				return internal.ErrEmailExists
			}
			return fmt.Errorf("create user: %w", err)
		}

		code, err := employeeDatamodel.NextCode(tx, today)
		if err != nil {
			return fmt.Errorf("allocate employee code: %w", err)
		}
		m.UserID = u.ID
		m.EmployeeCode = code
		if err := tx.Omit("User").Create(m).Error; err != nil {
			return fmt.Errorf("create employee: %w", err)
		}

		e.ID = m.ID
		e.UserID = u.ID
		e.Code = code
		e.CreatedAt = m.CreatedAt
		e.UpdatedAt = m.UpdatedAt
		return nil
	})
}

// Update writes the editable profile fields back to both tables.
func (r *Repository) Update(ctx context.Context, e *employee.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&employeeDatamodel.Employee{}).
			Where("id = ?", e.ID).
			Updates(map[string]interface{}{
				"manager_id":        e.ManagerID,
				"position":          e.Position,
				"salary":            e.Salary,
				"status":            string(e.Status),
				"performance_score": e.PerformanceScore,
			})
		if res.Error != nil {
			return fmt.Errorf("update employee: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return internal.ErrEmployeeNotFound
		}

		err := tx.Model(&userDatamodel.User{}).
			Where("id = ?", e.UserID).
			Updates(map[string]interface{}{
				"name":       e.Name,
				"phone":      e.Phone,
				"department": e.Department,
			}).Error
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}

		fresh, err := r.get(tx, e.ID)
		if err != nil {
			return err
		}
		*e = *fresh
		return nil
	})
}

func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row employeeDatamodel.Employee
		if err := tx.Select("id", "user_id").First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrEmployeeNotFound
			}
			return err
		}

		err := tx.Model(&employeeDatamodel.Employee{}).
			Where("id = ?", id).
			Update("status", string(employee.StatusInactive)).Error
		if err != nil {
			return fmt.Errorf("deactivate employee: %w", err)
		}
		err = tx.Model(&userDatamodel.User{}).
			Where("id = ?", row.UserID).
			Update("is_active", false).Error
		if err != nil {
			return fmt.Errorf("deactivate user: %w", err)
		}
		return nil
	})
}
