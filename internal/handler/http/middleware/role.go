package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http/response"
)

// RequirePermission checks the session's role against permission. Services
// check again; this only fails fast at the route.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				response.HandleError(w, session.ErrNoTenantContext)
				return
			}

			if !user.HasPermission(sess.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, sess.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireEmployee rejects sessions that are not linked to an employee record.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			response.HandleError(w, session.ErrNoTenantContext)
			return
		}
		if !sess.HasEmployee() {
			response.Forbidden(w, "Session is not linked to an employee")
			return
		}
		next.ServeHTTP(w, r)
	})
}
