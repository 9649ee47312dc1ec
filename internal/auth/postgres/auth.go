package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/auth"
	"github.com/staffsync/staffsync-backend/internal/core/common/dbutil"
	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	notificationDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/notification"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) FindUserByID(ctx context.Context, id uuid.UUID) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindEmployeeID returns nil for users without an employee record.
func (r *Repository) FindEmployeeID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Where("user_id = ?", userID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// Register inserts the user, its employee record and one notification per
// HR administrator in a single transaction.
func (r *Repository) Register(ctx context.Context, reg *auth.Registration, today time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reg.User).Error; err != nil {
			if dbutil.IsUniqueViolation(err) {
				return internal.ErrEmailExists
			}
			return fmt.Errorf("create user: %w", err)
		}

		code, err := employeeDatamodel.NextCode(tx, today)
		if err != nil {
			return fmt.Errorf("allocate employee code: %w", err)
		}
		reg.Employee.UserID = reg.User.ID
		reg.Employee.EmployeeCode = code
		if err := tx.Omit("User").Create(reg.Employee).Error; err != nil {
			return fmt.Errorf("create employee: %w", err)
		}

		var hrIDs []uuid.UUID
		err = tx.Model(&userDatamodel.User{}).
			Where("role = ? AND is_active = ?", coreuser.RoleHRAdministrator.String(), true).
			Pluck("id", &hrIDs).Error
		if err != nil {
			return fmt.Errorf("list hr administrators: %w", err)
		}
		if len(hrIDs) == 0 {
			return nil
		}

		department := "unassigned"
		if reg.User.Department != nil && *reg.User.Department != "" {
			department = *reg.User.Department
		}
		notes := make([]notificationDatamodel.Notification, 0, len(hrIDs))
		for _, id := range hrIDs {
			recipient := id
			sender := reg.User.ID
			notes = append(notes, notificationDatamodel.Notification{
				SenderID:    &sender,
				RecipientID: &recipient,
				Title:       "New Employee Joined",
				Message:     fmt.Sprintf("%s has created an account and joined the %s department.", reg.User.Name, department),
				Type:        "success",
			})
		}
		if err := tx.Create(&notes).Error; err != nil {
			return fmt.Errorf("notify hr administrators: %w", err)
		}
		return nil
	})
}

func (r *Repository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error
}
