package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/api/metrics"
	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

const sessionKey = "session"

// SessionFrom returns the identity set by Authenticated, or nil.
func SessionFrom(c echo.Context) *domain.SessionContext {
	sc, _ := c.Get(sessionKey).(*domain.SessionContext)
	return sc
}

// SetSession attaches sc to c.
func SetSession(c echo.Context, sc *domain.SessionContext) {
	c.Set(sessionKey, sc)
}

// Authenticated admits a request only when its session cookie names a live
// session. Unknown and expired sessions are both rejected with 401.
func Authenticated(sessions ports.SessionManager, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				metrics.SessionsTotal.WithLabelValues(metrics.SessionRejected).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			sc, err := sessions.Validate(c.Request().Context(), cookie.Value)
			if err != nil {
				return err
			}
			if sc == nil {
				metrics.SessionsTotal.WithLabelValues(metrics.SessionRejected).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			SetSession(c, sc)
			return next(c)
		}
	}
}
