package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/api/metrics"
	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// AccountHandler serves the admin account routes. Every route is expected to
// sit behind the Authenticated and AdminOnly guards; the service re-checks
// the role regardless.
type AccountHandler struct {
	accountService ports.AccountService
}

func NewAccountHandler(accountService ports.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerResponse struct {
	Message  string      `json:"message"`
	UserID   string      `json:"userId"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

type listUsersResponse struct {
	Users []*domain.User `json:"users"`
}

// Register creates an account.
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.accountService.Register(c.Request().Context(), sc, ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		metrics.AccountsTotal.WithLabelValues(metrics.AccountRejected).Inc()
		return err
	}
	metrics.AccountsTotal.WithLabelValues(metrics.AccountCreated).Inc()

	return c.JSON(http.StatusCreated, registerResponse{
		Message:  "User created successfully.",
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}

// ListUsers returns every account, newest first.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *AccountHandler) ListUsers(c echo.Context) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}

	users, err := h.accountService.List(c.Request().Context(), sc)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: users})
}

// DeleteUser removes an account other than the caller's own.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/users/{id} [delete]
func (h *AccountHandler) DeleteUser(c echo.Context) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}

	if err := h.accountService.Delete(c.Request().Context(), sc, c.Param("id")); err != nil {
		metrics.AccountsTotal.WithLabelValues(metrics.AccountRejected).Inc()
		return err
	}
	metrics.AccountsTotal.WithLabelValues(metrics.AccountDeleted).Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted"})
}
