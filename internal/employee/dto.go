package employee

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/validation"
)

type CreateDTO struct {
	Email      string           `json:"email"`
	Password   string           `json:"password"`
	Name       string           `json:"name"`
	Phone      *string          `json:"phone"`
	Department *string          `json:"department"`
	Position   string           `json:"position"`
	HireDate   string           `json:"hire_date"`
	Salary     *decimal.Decimal `json:"salary"`
	ManagerID  *string          `json:"manager_id"`
}

func (d *CreateDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Name = strings.TrimSpace(d.Name)
	d.Position = strings.TrimSpace(d.Position)
	d.HireDate = strings.TrimSpace(d.HireDate)
	d.Phone = trimmed(d.Phone)
	d.Department = trimmed(d.Department)
	d.ManagerID = trimmed(d.ManagerID)
}

func (d CreateDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(255).Email()
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72).PasswordStrength()
	v.Field("name", d.Name).Required().MinLength(2).MaxLength(100)
	v.Field("phone", d.Phone).MaxLength(20).Phone()
	v.Field("department", d.Department).MinLength(2).MaxLength(100)
	v.Field("position", d.Position).Required().MinLength(2).MaxLength(100)
	v.Field("hire_date", d.HireDate).Required().Date()
	v.Field("manager_id", d.ManagerID).UUID()
	if d.Salary != nil && d.Salary.IsNegative() {
		v.Field("salary", d.Salary).Custom(negative("salary"))
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateDTO is a partial update; nil fields are left untouched.
type UpdateDTO struct {
	Name             *string          `json:"name"`
	Phone            *string          `json:"phone"`
	Department       *string          `json:"department"`
	Position         *string          `json:"position"`
	Salary           *decimal.Decimal `json:"salary"`
	Status           *string          `json:"status"`
	PerformanceScore *int             `json:"performance_score"`
	ManagerID        *string          `json:"manager_id"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = trimmed(d.Name)
	d.Phone = trimmed(d.Phone)
	d.Department = trimmed(d.Department)
	d.Position = trimmed(d.Position)
	d.ManagerID = trimmed(d.ManagerID)
	if d.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*d.Status))
		d.Status = &s
	}
}

func (d UpdateDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).MinLength(2).MaxLength(100)
	v.Field("phone", d.Phone).MaxLength(20).Phone()
	v.Field("department", d.Department).MinLength(2).MaxLength(100)
	v.Field("position", d.Position).MinLength(2).MaxLength(100)
	v.Field("status", d.Status).OneOf(Statuses...)
	v.Field("performance_score", d.PerformanceScore).IntRange(0, 100)
	v.Field("manager_id", d.ManagerID).UUID()
	if d.Salary != nil && d.Salary.IsNegative() {
		v.Field("salary", d.Salary).Custom(negative("salary"))
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Apply copies the supplied fields onto e.
func (d UpdateDTO) Apply(e *Employee) {
	if d.Name != nil {
		e.Name = *d.Name
	}
	if d.Phone != nil {
		e.Phone = d.Phone
	}
	if d.Department != nil {
		e.Department = d.Department
	}
	if d.Position != nil {
		e.Position = *d.Position
	}
	if d.Salary != nil {
		e.Salary = *d.Salary
	}
	if d.Status != nil {
		e.Status = Status(*d.Status)
	}
	if d.PerformanceScore != nil {
		score := *d.PerformanceScore
		e.PerformanceScore = &score
	}
}

type Filter struct {
	Search     string
	Department string
	Status     Status
	SortBy     string
	Descending bool
}

func negative(field string) func(interface{}) *internal.AppError {
	return func(interface{}) *internal.AppError {
		return internal.NewValidationFieldError(field, field+" must not be negative", internal.ErrCodeValidationFailed)
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
