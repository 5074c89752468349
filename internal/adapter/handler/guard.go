package handler

import (
	"net/http"
	"time"

	"client-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// GuardHandler answers page-guard checks. Frontends and nginx auth_request
// both call it: a granted check returns identity headers plus a short-lived
// backend token, anything else a redirect to the login surface.
type GuardHandler struct {
	uc         *usecase.Guard
	cookieName string
	cookieTTL  time.Duration
}

// NewGuardHandler creates a new guard handler.
func NewGuardHandler(uc *usecase.Guard, cookieName string, cookieTTL time.Duration) *GuardHandler {
	return &GuardHandler{uc: uc, cookieName: cookieName, cookieTTL: cookieTTL}
}

// Handle processes GET /guard?client_id=...
func (h *GuardHandler) Handle(c echo.Context) error {
	sessionID := ""
	if cookie, err := c.Cookie(h.cookieName); err == nil {
		sessionID = cookie.Value
	}

	// nginx auth_request forwards the protected URI in a header; direct
	// callers are guarded on the URI they hit us with.
	requestURI := c.Request().Header.Get("X-Original-URI")
	if requestURI == "" {
		requestURI = c.Request().RequestURI
	}

	result, err := h.uc.Execute(c.Request().Context(), sessionID, requestURI, c.QueryParam("client_id"))
	if err != nil {
		return mapDomainError(err)
	}

	if result.SessionID != "" {
		setSessionCookie(c, h.cookieName, result.SessionID, h.cookieTTL)
	} else {
		clearSessionCookie(c, h.cookieName)
	}

	if !result.Granted {
		return c.Redirect(http.StatusFound, result.RedirectURL)
	}

	header := c.Response().Header()
	header.Set("X-Gate-User-Id", result.User.UID())
	header.Set("X-Gate-User-Email", result.User.Email())
	header.Set("X-Gate-Client-Id", result.User.Profile().ClientID)
	header.Set("X-Gate-Backend-Token", result.BackendToken)
	return c.NoContent(http.StatusOK)
}

func setSessionCookie(c echo.Context, name, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
