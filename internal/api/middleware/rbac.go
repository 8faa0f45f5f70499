package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alayatales/temple-api/internal/api/metrics"
	"github.com/alayatales/temple-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Authenticate;
// a request without claims is treated like one with a disallowed role.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				metrics.AccessDeniedTotal.WithLabelValues("403").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			if _, ok := allowed[claims.Role]; !ok {
				metrics.AccessDeniedTotal.WithLabelValues("403").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "forbidden: admin access required")
			}
			return next(c)
		}
	}
}

// RequireAdmin lets only admins through.
func RequireAdmin() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin)
}
