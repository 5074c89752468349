package handler

import (
	"net/http"
	"time"

	"client-gate/internal/metrics"
	"client-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// authRequest is the POST /auth payload, a small action envelope the login
// surface posts. "firestoreUser" is the directory record's historical wire
// name, kept for contract compatibility.
type authRequest struct {
	Action        string         `json:"action" validate:"required,oneof=login logout signin"`
	Token         string         `json:"token"`
	User          map[string]any `json:"user"`
	FirestoreUser map[string]any `json:"firestoreUser"`
	ClientID      string         `json:"client_id"`
	RedirectURL   string         `json:"redirect_url"`
	Email         string         `json:"email"`
	Password      string         `json:"password"`
}

// AuthHandler dispatches the /auth actions: login, logout and the
// server-side signin.
type AuthHandler struct {
	login      *usecase.Login
	logout     *usecase.Logout
	signIn     *usecase.SignIn
	cookieName string
	cookieTTL  time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(login *usecase.Login, logout *usecase.Logout, signIn *usecase.SignIn, cookieName string, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		login:      login,
		logout:     logout,
		signIn:     signIn,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
	}
}

// Handle processes POST /auth.
func (h *AuthHandler) Handle(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return authError(c, echo.NewHTTPError(http.StatusBadRequest, "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return authError(c, echo.NewHTTPError(http.StatusBadRequest, "action must be login, logout or signin"))
	}

	sessionID := ""
	if cookie, err := c.Cookie(h.cookieName); err == nil {
		sessionID = cookie.Value
	}

	switch req.Action {
	case "login":
		result, err := h.login.Execute(c.Request().Context(), usecase.LoginInput{
			Token:            req.Token,
			Claims:           req.User,
			DirectoryUser:    req.FirestoreUser,
			ClientID:         req.ClientID,
			RedirectURL:      req.RedirectURL,
			PendingSessionID: sessionID,
		})
		if err != nil {
			metrics.RecordLogin("login", "failure")
			return authError(c, mapDomainError(err))
		}
		metrics.RecordLogin("login", "success")
		return h.loginResponse(c, result)

	case "signin":
		result, err := h.signIn.Execute(c.Request().Context(), usecase.SignInInput{
			Email:            req.Email,
			Password:         req.Password,
			ClientID:         req.ClientID,
			RedirectURL:      req.RedirectURL,
			PendingSessionID: sessionID,
		})
		if err != nil {
			metrics.RecordLogin("signin", "failure")
			return authError(c, mapDomainError(err))
		}
		metrics.RecordLogin("signin", "success")
		return h.loginResponse(c, result)

	default: // logout
		if err := h.logout.Execute(c.Request().Context(), sessionID); err != nil {
			return authError(c, mapDomainError(err))
		}
		clearSessionCookie(c, h.cookieName)
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "logged out",
		})
	}
}

func (h *AuthHandler) loginResponse(c echo.Context, result *usecase.LoginResult) error {
	setSessionCookie(c, h.cookieName, result.SessionID, h.cookieTTL)
	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"message":      "login successful",
		"redirect_url": result.RedirectURL,
		"user":         result.User,
	})
}

// authError keeps the action envelope's {success, error} shape instead of
// echo's default error body.
func authError(c echo.Context, he *echo.HTTPError) error {
	return c.JSON(he.Code, map[string]any{
		"success": false,
		"error":   he.Message,
	})
}
