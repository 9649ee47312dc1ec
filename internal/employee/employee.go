package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOnLeave  Status = "on_leave"
)

var Statuses = []string{string(StatusActive), string(StatusInactive), string(StatusOnLeave)}

const (
	SortByName       = "name"
	SortByHireDate   = "hire_date"
	SortByDepartment = "department"
	SortByCreatedAt  = "created_at"
)

var SortFields = []string{SortByName, SortByHireDate, SortByDepartment, SortByCreatedAt}

type Employee struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	ManagerID        *uuid.UUID
	Code             string
	Name             string
	Email            string
	Phone            *string
	Department       *string
	Position         string
	HireDate         time.Time
	Salary           decimal.Decimal
	Status           Status
	PerformanceScore *int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type View struct {
	ID               uuid.UUID  `json:"id"`
	EmployeeID       string     `json:"employee_id"`
	UserID           uuid.UUID  `json:"user_id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            *string    `json:"phone"`
	Department       *string    `json:"department"`
	Position         string     `json:"position"`
	HireDate         string     `json:"hire_date"`
	Salary           float64    `json:"salary"`
	Status           Status     `json:"status"`
	PerformanceScore *int       `json:"performance_score"`
	ManagerID        *uuid.UUID `json:"manager_id"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (e *Employee) ToView() View {
	return View{
		ID:               e.ID,
		EmployeeID:       e.Code,
		UserID:           e.UserID,
		Name:             e.Name,
		Email:            e.Email,
		Phone:            e.Phone,
		Department:       e.Department,
		Position:         e.Position,
		HireDate:         e.HireDate.Format(dates.DateLayout),
		Salary:           e.Salary.InexactFloat64(),
		Status:           e.Status,
		PerformanceScore: e.PerformanceScore,
		ManagerID:        e.ManagerID,
		IsActive:         e.IsActive,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func ToViews(items []Employee) []View {
	out := make([]View, len(items))
	for i := range items {
		out[i] = items[i].ToView()
	}
	return out
}

// ToDataModel splits e into its user and employee rows.
func ToDataModel(e *Employee) (*userDatamodel.User, *employeeDatamodel.Employee) {
	u := &userDatamodel.User{
		ID:         e.UserID,
		Email:      e.Email,
		Name:       e.Name,
		Phone:      e.Phone,
		Department: e.Department,
		IsActive:   e.IsActive,
	}
	m := &employeeDatamodel.Employee{
		ID:               e.ID,
		UserID:           e.UserID,
		ManagerID:        e.ManagerID,
		EmployeeCode:     e.Code,
		Position:         e.Position,
		HireDate:         dates.DateOf(e.HireDate),
		Salary:           e.Salary,
		Status:           string(e.Status),
		PerformanceScore: e.PerformanceScore,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	return u, m
}

func FromDataModel(m *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:               m.ID,
		UserID:           m.UserID,
		ManagerID:        m.ManagerID,
		Code:             m.EmployeeCode,
		Name:             m.User.Name,
		Email:            m.User.Email,
		Phone:            m.User.Phone,
		Department:       m.User.Department,
		Position:         m.Position,
		HireDate:         dates.DateOf(m.HireDate),
		Salary:           m.Salary,
		Status:           Status(m.Status),
		PerformanceScore: m.PerformanceScore,
		IsActive:         m.User.IsActive,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func FromDataModelSlice(rows []employeeDatamodel.Employee) []Employee {
	out := make([]Employee, len(rows))
	for i := range rows {
		out[i] = *FromDataModel(&rows[i])
	}
	return out
}
