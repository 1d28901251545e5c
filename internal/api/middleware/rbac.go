package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// RequireRole admits a request whose session role snapshot is role. It must
// run after Authenticated; a request without a session gets 401 and never
// reaches the role check.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	forbidden := strings.ToUpper(string(role[:1])) + string(role[1:]) + " access required."

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc := SessionFrom(c)
			if sc == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if sc.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, forbidden)
			}
			return next(c)
		}
	}
}

// AdminOnly is RequireRole(domain.RoleAdmin).
func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}
