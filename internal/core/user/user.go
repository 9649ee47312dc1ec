package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleHRAdministrator Role = "HR_ADMINISTRATOR"
	RoleEmployee        Role = "EMPLOYEE"
)

func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleHRAdministrator:
		return RoleHRAdministrator, nil
	case RoleEmployee:
		return RoleEmployee, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

func (r Role) String() string {
	return string(r)
}

// IsHR reports whether the role may use HR administration endpoints.
func (r Role) IsHR() bool {
	switch r {
	case RoleHRAdministrator:
		return true
	case RoleEmployee:
		return false
	default:
		return false
	}
}

// Principal is the authenticated caller attached to a request context.
// EmployeeID is nil for users without an employee record.
type Principal struct {
	UserID     uuid.UUID
	EmployeeID *uuid.UUID
	Email      string
	Name       string
	Role       Role
	Department string
	TokenID    string
}

func (p *Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

type principalKey struct{}

func NewContext(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
