package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/api/middleware"
	"github.com/99minutos/admin-console/internal/core/domain"
)

// currentSession returns the identity injected by the Authenticated
// middleware. A missing identity means the route was registered without the
// guard; reject rather than act anonymously.
func currentSession(c echo.Context) (*domain.SessionContext, error) {
	sc := middleware.SessionFrom(c)
	if sc == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return sc, nil
}
