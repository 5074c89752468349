package handler

import (
	"net/http"

	"client-gate/internal/domain"
	"client-gate/internal/usecase"
	"client-gate/middleware"

	"github.com/labstack/echo/v4"
)

// ConsoleHandler serves the management console API. Every route runs behind
// the bearer+admin middleware chain; role scoping happens in the usecases.
type ConsoleHandler struct {
	listUsers     *usecase.ListUsers
	createManaged *usecase.CreateManagedUser
	listAdmins    *usecase.ListAdmins
	createAdmin   *usecase.CreateAdmin
	listClients   *usecase.ListClients
	createClient  *usecase.CreateClient
	deleteClient  *usecase.DeleteClient
	dashboard     *usecase.Dashboard
}

// NewConsoleHandler creates a new console handler.
func NewConsoleHandler(
	listUsers *usecase.ListUsers,
	createManaged *usecase.CreateManagedUser,
	listAdmins *usecase.ListAdmins,
	createAdmin *usecase.CreateAdmin,
	listClients *usecase.ListClients,
	createClient *usecase.CreateClient,
	deleteClient *usecase.DeleteClient,
	dashboard *usecase.Dashboard,
) *ConsoleHandler {
	return &ConsoleHandler{
		listUsers:     listUsers,
		createManaged: createManaged,
		listAdmins:    listAdmins,
		createAdmin:   createAdmin,
		listClients:   listClients,
		createClient:  createClient,
		deleteClient:  deleteClient,
		dashboard:     dashboard,
	}
}

func actorFrom(c echo.Context) *domain.DirectoryUser {
	actor, _ := c.Get(middleware.ActorKey).(*domain.DirectoryUser)
	return actor
}

// ListUsers processes GET /api/users?client_id=...
func (h *ConsoleHandler) ListUsers(c echo.Context) error {
	users, err := h.listUsers.Execute(c.Request().Context(), actorFrom(c), c.QueryParam("client_id"))
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"users":   users,
	})
}

type createManagedUserRequest struct {
	Email         string `json:"email" validate:"required,email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	ClientID      string `json:"clientId"`
	IsClientAdmin bool   `json:"isClientAdmin"`
}

// CreateUser processes POST /api/console/users.
func (h *ConsoleHandler) CreateUser(c echo.Context) error {
	var req createManagedUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid email is required")
	}

	user, err := h.createManaged.Execute(c.Request().Context(), actorFrom(c), usecase.CreateManagedUserInput{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		ClientID:      req.ClientID,
		IsClientAdmin: req.IsClientAdmin,
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"user":    user,
	})
}

// ListAdmins processes GET /api/admins.
func (h *ConsoleHandler) ListAdmins(c echo.Context) error {
	admins, err := h.listAdmins.Execute(c.Request().Context(), actorFrom(c))
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"admins":  admins,
	})
}

type createAdminRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreateAdmin processes POST /api/admins.
func (h *ConsoleHandler) CreateAdmin(c echo.Context) error {
	var req createAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email and a password of at least 8 characters are required")
	}

	admin, err := h.createAdmin.Execute(c.Request().Context(), actorFrom(c), usecase.CreateAdminInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"admin":   admin,
	})
}

// ListClients processes GET /api/clients.
func (h *ConsoleHandler) ListClients(c echo.Context) error {
	clients, err := h.listClients.Execute(c.Request().Context(), actorFrom(c))
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"clients": clients,
	})
}

type createClientRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateClient processes POST /api/clients.
func (h *ConsoleHandler) CreateClient(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	client, err := h.createClient.Execute(c.Request().Context(), actorFrom(c), req.Name)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"client":  client,
	})
}

// DeleteClient processes DELETE /api/clients/:id.
func (h *ConsoleHandler) DeleteClient(c echo.Context) error {
	if err := h.deleteClient.Execute(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Dashboard processes GET /api/dashboard.
func (h *ConsoleHandler) Dashboard(c echo.Context) error {
	stats, err := h.dashboard.Execute(c.Request().Context(), actorFrom(c))
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}
