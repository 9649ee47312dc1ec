package middleware

import (
	"net/http"

	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/pkg/logger"
)

// UserContext tags the request logger with the authenticated caller. It must
// run after authentication.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := coreuser.FromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", p.UserID.String(), "role", p.Role.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
