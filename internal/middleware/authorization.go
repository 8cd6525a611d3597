package middleware

import (
	"net/http"
	"slices"

	"go.uber.org/zap"
)

const RoleAdmin = "admin"

// RequireRole middleware ensures the user has one of the specified roles
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if !slices.Contains(allowedRoles, role) {
				logger.Warn("User role not authorized",
					zap.String("role", role),
					zap.Strings("allowed_roles", allowedRoles),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminForWrites lets safe methods through and sends every other
// request through token authentication and the admin role check.
func RequireAdminForWrites(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	authenticate := AuthMiddleware(jwtSecret, logger)
	authorize := RequireRole([]string{RoleAdmin}, logger)

	return func(next http.Handler) http.Handler {
		guarded := authenticate(authorize(next))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				guarded.ServeHTTP(w, r)
			}
		})
	}
}
