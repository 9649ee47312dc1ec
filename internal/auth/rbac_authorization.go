package auth

import (
	"log/slog"
	"net/http"

	"github.com/staffsync/staffsync-backend/internal"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/internal/transport"
)

// RBACAuthorization gates route groups by role.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

// RequireRole admits callers holding any of roles.
func (ra *RBACAuthorization) RequireRole(roles ...coreuser.Role) func(http.Handler) http.Handler {
	return ra.requireRoleFunc(func(role coreuser.Role) bool {
		for _, r := range roles {
			if role == r {
				return true
			}
		}
		return false
	})
}

// RequireHR admits HR administrators only.
func (ra *RBACAuthorization) RequireHR() func(http.Handler) http.Handler {
	return ra.requireRoleFunc(func(role coreuser.Role) bool {
		switch role {
		case coreuser.RoleHRAdministrator:
			return true
		case coreuser.RoleEmployee:
			return false
		default:
			return false
		}
	})
}

// RequireEmployee admits callers with an employee record. HR administrators
// who are also employees may use the self-service routes.
func (ra *RBACAuthorization) RequireEmployee() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := ra.Principal(w, r)
			if !ok {
				return
			}
			var allowed bool
			switch p.Role {
			case coreuser.RoleEmployee:
				allowed = true
			case coreuser.RoleHRAdministrator:
				allowed = p.EmployeeID != nil
			default:
				allowed = false
			}
			if !allowed {
				ra.Logger.WarnContext(r.Context(), "access denied: employee route", "user_id", p.UserID, "role", p.Role)
				ra.WriteAppError(w, internal.ErrInsufficientRole)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) requireRoleFunc(allow func(coreuser.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := ra.Principal(w, r)
			if !ok {
				return
			}
			if !allow(p.Role) {
				ra.Logger.WarnContext(r.Context(), "access denied: insufficient role", "user_id", p.UserID, "role", p.Role)
				ra.WriteAppError(w, internal.ErrInsufficientRole)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
