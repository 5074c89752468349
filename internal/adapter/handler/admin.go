package handler

import (
	"net/http"

	"client-gate/internal/metrics"
	"client-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves the user-provisioning API behind the bearer+admin
// middleware chain.
type AdminHandler struct {
	createUser *usecase.CreateUser
	deleteUser *usecase.DeleteUser
	sendSetup  *usecase.SendPasswordSetup
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(create *usecase.CreateUser, del *usecase.DeleteUser, setup *usecase.SendPasswordSetup) *AdminHandler {
	return &AdminHandler{createUser: create, deleteUser: del, sendSetup: setup}
}

type createUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName"`
}

// CreateUser processes POST /api/users. It creates the provider identity
// only; the console writes the directory record.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email and a password of at least 8 characters are required")
	}

	uid, err := h.createUser.Execute(c.Request().Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		metrics.RecordAdminOp("create_user", "failure")
		return mapDomainError(err)
	}
	metrics.RecordAdminOp("create_user", "success")

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"uid":     uid,
	})
}

// DeleteUser processes DELETE /api/users/:uid. Partial cleanup after the
// identity is gone surfaces as a warning, not a failure.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	warning, err := h.deleteUser.Execute(c.Request().Context(), c.Param("uid"))
	if err != nil {
		metrics.RecordAdminOp("delete_user", "failure")
		return mapDomainError(err)
	}
	metrics.RecordAdminOp("delete_user", "success")

	body := map[string]any{"success": true}
	if warning != "" {
		body["warning"] = warning
	}
	return c.JSON(http.StatusOK, body)
}

type sendSetupRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SendPasswordSetup processes POST /api/users/send-password-setup.
func (h *AdminHandler) SendPasswordSetup(c echo.Context) error {
	var req sendSetupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid email is required")
	}

	if err := h.sendSetup.Execute(c.Request().Context(), req.Email); err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "password setup email sent",
	})
}
