package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
)

// User is the public view of an account. The password hash never leaves
// the datamodel.
type User struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Phone      *string    `json:"phone"`
	Department *string    `json:"department"`
	AvatarURL  *string    `json:"avatar_url"`
	IsActive   bool       `json:"is_active"`
	LastLogin  *time.Time `json:"last_login"`
	CreatedAt  time.Time  `json:"created_at"`
}

type EmployeeInfo struct {
	ID               uuid.UUID       `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	Position         string          `json:"position"`
	HireDate         string          `json:"hire_date"`
	Salary           decimal.Decimal `json:"salary"`
	Status           string          `json:"status"`
	PerformanceScore *int            `json:"performance_score"`
	ManagerID        *uuid.UUID      `json:"manager_id"`
}

// Profile is returned by /auth/me.
type Profile struct {
	User
	Employee *EmployeeInfo `json:"employee"`
}

type RepositoryAPI interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userDatamodel.User, error)
	GetEmployeeByUserID(ctx context.Context, userID uuid.UUID) (*employeeDatamodel.Employee, error)
}

type ServiceAPI interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

func FromDataModel(u *userDatamodel.User) User {
	return User{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Phone:      u.Phone,
		Department: u.Department,
		AvatarURL:  u.AvatarURL,
		IsActive:   u.IsActive,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
	}
}

func EmployeeInfoFromDataModel(e *employeeDatamodel.Employee) *EmployeeInfo {
	if e == nil {
		return nil
	}
	return &EmployeeInfo{
		ID:               e.ID,
		EmployeeID:       e.EmployeeCode,
		Position:         e.Position,
		HireDate:         e.HireDate.Format("2006-01-02"),
		Salary:           e.Salary,
		Status:           e.Status,
		PerformanceScore: e.PerformanceScore,
		ManagerID:        e.ManagerID,
	}
}
